package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "default", cfg.Ranking.Profile)
	assert.Equal(t, 5.0, cfg.Ranking.ListingRadiusKm)
	assert.Equal(t, 10, cfg.Ranking.ViewHistorySize)
	assert.Equal(t, 0, cfg.Redis.RedisDB)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")

	_, err := Load()
	assert.EqualError(t, err, "missing jwt secret")
}

func TestLoadRejectsBadRadius(t *testing.T) {
	setRequired(t)
	t.Setenv("LISTING_RADIUS_KM", "-3")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRankingOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RANKING_PROFILE", "summer")
	t.Setenv("VIEW_HISTORY_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "summer", cfg.Ranking.Profile)
	assert.Equal(t, 25, cfg.Ranking.ViewHistorySize)
}
