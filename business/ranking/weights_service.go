package ranking

import (
	"context"
	"errors"
	"fmt"

	"gota/domain"
	"gota/pkg/logger"
)

// ErrInvalidWeights wraps every rejection of a weights profile.
var ErrInvalidWeights = errors.New("invalid weights")

// WeightsRepository reads and writes stored weight profiles.
type WeightsRepository interface {
	GetWeights(ctx context.Context, profile string) (domain.RankingWeights, bool, error)
	UpsertWeights(ctx context.Context, weights domain.RankingWeights) error
}

type WeightsService struct {
	repo     WeightsRepository
	defaults Weights
}

func NewWeightsService(repo WeightsRepository, defaults Weights) *WeightsService {
	return &WeightsService{
		repo:     repo,
		defaults: defaults,
	}
}

// LoadWeights returns the profile's weights, falling back to the defaults
// when the profile is missing or cannot be read.
func (s *WeightsService) LoadWeights(ctx context.Context, profile string) Weights {
	if s.repo == nil || profile == "" {
		return s.defaults
	}

	stored, ok, err := s.repo.GetWeights(ctx, profile)
	if err != nil {
		logger.Warn("ranking weights unavailable, using defaults",
			"trace_id", TraceIDFromContext(ctx),
			"profile", profile,
			"error", err.Error(),
		)
		return s.defaults
	}
	if !ok {
		return s.defaults
	}

	return s.defaults.WithOverrides(stored)
}

// GetWeights is the stored form of LoadWeights, for admin display.
func (s *WeightsService) GetWeights(ctx context.Context, profile string) (domain.RankingWeights, error) {
	if err := ctx.Err(); err != nil {
		return domain.RankingWeights{}, fmt.Errorf("context error: %w", err)
	}

	return s.LoadWeights(ctx, profile).Stored(profile), nil
}

func (s *WeightsService) UpsertWeights(ctx context.Context, stored domain.RankingWeights) (domain.RankingWeights, error) {
	if err := ctx.Err(); err != nil {
		return domain.RankingWeights{}, fmt.Errorf("context error: %w", err)
	}
	if stored.Profile == "" {
		return domain.RankingWeights{}, fmt.Errorf("%w: profile is required", ErrInvalidWeights)
	}

	w := s.defaults.WithOverrides(stored)
	if err := w.Validate(); err != nil {
		return domain.RankingWeights{}, fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	}

	if s.repo == nil {
		return domain.RankingWeights{}, fmt.Errorf("weights storage is not configured")
	}
	if err := s.repo.UpsertWeights(ctx, stored); err != nil {
		return domain.RankingWeights{}, fmt.Errorf("failed to save ranking weights: %w", err)
	}

	logger.Info("ranking weights updated", "profile", stored.Profile)

	return w.Stored(stored.Profile), nil
}
