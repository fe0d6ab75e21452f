package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gota/business/ranking"
	"gota/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWeightsRepo struct {
	stored map[string]domain.RankingWeights
}

func (m *memWeightsRepo) GetWeights(ctx context.Context, profile string) (domain.RankingWeights, bool, error) {
	w, ok := m.stored[profile]
	return w, ok, nil
}

func (m *memWeightsRepo) UpsertWeights(ctx context.Context, w domain.RankingWeights) error {
	m.stored[w.Profile] = w
	return nil
}

func newAdminHandler() (*RankingAdminHandler, *memWeightsRepo) {
	repo := &memWeightsRepo{stored: map[string]domain.RankingWeights{}}
	svc := ranking.NewWeightsService(repo, ranking.DefaultWeights())
	return NewRankingAdminHandler(svc, "default"), repo
}

func TestRankingAdmin_GetDefaults(t *testing.T) {
	h, _ := newAdminHandler()

	rec := doRequest(h.GetWeights, http.MethodGet, "/api/v1/admin/ranking/weights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profile":"default"`)
	assert.Contains(t, rec.Body.String(), `"rating_weight":3.2`)
}

func TestRankingAdmin_Upsert(t *testing.T) {
	h, repo := newAdminHandler()

	body := `{"profile":"summer","rating_weight":4,"review_weight":0.45,"review_cap":20,
		"favorite_weight":0.4,"favorite_cap":30,"photo_weight":1.2,"amenity_weight":0.3,
		"recency_cap":3,"featured_factor":1.1,"premium_factor":1.25,"seen_penalty":0.82,
		"fresh_bonus":1.08,"proximity_cap":3,"affinity_cap":2}`

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/ranking/weights", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.UpsertWeights(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, repo.stored, "summer")
	assert.Equal(t, 4.0, repo.stored["summer"].RatingWeight)
}

func TestRankingAdmin_UpsertRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing profile", `{"rating_weight":1,"featured_factor":1,"premium_factor":1,"seen_penalty":1,"fresh_bonus":1}`},
		{"negative weight", `{"profile":"p","rating_weight":-1,"featured_factor":1,"premium_factor":1,"seen_penalty":1,"fresh_bonus":1}`},
		{"zero factor", `{"profile":"p","featured_factor":0,"premium_factor":1,"seen_penalty":1,"fresh_bonus":1}`},
		{"malformed", `{"profile":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newAdminHandler()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/ranking/weights", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			require.NoError(t, h.UpsertWeights(e.NewContext(req, rec)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, repo.stored)
		})
	}
}

type stubWeightsService struct {
	err error
}

func (s stubWeightsService) GetWeights(ctx context.Context, profile string) (domain.RankingWeights, error) {
	return domain.RankingWeights{Profile: profile}, nil
}

func (s stubWeightsService) UpsertWeights(ctx context.Context, stored domain.RankingWeights) (domain.RankingWeights, error) {
	return domain.RankingWeights{}, s.err
}

func TestRankingAdmin_UpsertErrorStatus(t *testing.T) {
	body := `{"profile":"p","featured_factor":1,"premium_factor":1,"seen_penalty":1,"fresh_bonus":1}`

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rejected weights", fmt.Errorf("%w: recency_cap must not be negative", ranking.ErrInvalidWeights), http.StatusBadRequest},
		{"storage failure", errors.New("failed to save ranking weights: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRankingAdminHandler(stubWeightsService{err: tt.err}, "default")

			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/ranking/weights", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			require.NoError(t, h.UpsertWeights(e.NewContext(req, rec)))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
