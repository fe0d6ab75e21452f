package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gota/domain"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatesJSON = `[
  {"id": 1, "name": "Cafe Cercano", "location": "Palermo", "average_rating": 3.0, "total_reviews": 3,
   "amenities": {"has_wifi": true, "is_pet_friendly": true}, "latitude": -34.60, "longitude": -58.38},
  {"id": 2, "name": "Alma", "location": "Belgrano", "average_rating": 4.8, "total_reviews": 2,
   "latitude": -34.80, "longitude": -58.50},
  {"id": 3, "name": "Birra y Cafe", "location": "Palermo", "average_rating": 4.0, "total_reviews": 30}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--env", "test"}, args...))
	err := root.Execute()
	return out.String(), err
}

func rankedJSON(t *testing.T, out string) []domain.RankedCafe {
	t.Helper()
	var ranked []domain.RankedCafe
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	return ranked
}

func TestRank_DefaultWeights(t *testing.T) {
	input := writeFile(t, "cafes.json", candidatesJSON)

	out, err := run(t, "rank", "--input", input, "--json")
	require.NoError(t, err)

	ranked := rankedJSON(t, out)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint64(3), ranked[0].Cafe.ID)
	assert.InDelta(t, 21.8, ranked[0].Score, 1e-9)
	assert.Equal(t, uint64(2), ranked[1].Cafe.ID)
	assert.Equal(t, uint64(1), ranked[2].Cafe.ID)
}

func TestRank_LocationAndHistory(t *testing.T) {
	input := writeFile(t, "cafes.json", candidatesJSON)

	out, err := run(t, "rank", "-i", input, "--json", "--lat", "-34.60", "--lon", "-58.38", "--viewed", "3,2")
	require.NoError(t, err)

	ranked := rankedJSON(t, out)
	require.Len(t, ranked, 3)
	// 1: 11.55*1.08 + 3.0 = 15.47; 3: 21.8*0.82 = 17.88; 2: 16.26*0.82 = 13.33
	assert.Equal(t, []uint64{3, 1, 2}, []uint64{ranked[0].Cafe.ID, ranked[1].Cafe.ID, ranked[2].Cafe.ID})
	assert.InDelta(t, 15.47, ranked[1].Score, 1e-9)
	require.NotNil(t, ranked[1].DistanceKm)
	assert.Nil(t, ranked[0].DistanceKm)
}

func TestRank_WeightsFile(t *testing.T) {
	input := writeFile(t, "cafes.json", candidatesJSON)
	weights := writeFile(t, "weights.yaml", "rating_weight: 0\nreview_cap: 10\n")

	out, err := run(t, "rank", "-i", input, "--weights", weights, "--json")
	require.NoError(t, err)

	ranked := rankedJSON(t, out)
	// 3: 10*0.45 = 4.5; 1: 1.35+0.6 = 1.95; 2: 0.9
	assert.Equal(t, uint64(3), ranked[0].Cafe.ID)
	assert.InDelta(t, 4.5, ranked[0].Score, 1e-9)
	assert.Equal(t, uint64(1), ranked[1].Cafe.ID)
}

func TestRank_InvalidWeightsFile(t *testing.T) {
	input := writeFile(t, "cafes.json", candidatesJSON)
	weights := writeFile(t, "weights.yaml", "premium_factor: 0\n")

	_, err := run(t, "rank", "-i", input, "--weights", weights)
	assert.ErrorContains(t, err, "premium_factor must be greater than 0")
}

func TestRank_TableAndLimit(t *testing.T) {
	input := writeFile(t, "cafes.json", candidatesJSON)

	out, err := run(t, "rank", "-i", input, "-n", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[1], "Birra y Cafe")
	assert.Contains(t, lines[1], "21.80")
}

func TestRank_BadInput(t *testing.T) {
	input := writeFile(t, "cafes.json", `{"not": "a list"}`)

	_, err := run(t, "rank", "-i", input)
	assert.ErrorContains(t, err, "failed to decode candidates")

	_, err = run(t, "rank")
	assert.Error(t, err)
}

func TestDistance(t *testing.T) {
	out, err := run(t, "distance", "-34.6037", "-58.3816", "-31.4201", "-64.1888")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "km"))

	_, err = run(t, "distance", "a", "0", "0", "0")
	assert.Error(t, err)
}
