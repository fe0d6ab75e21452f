package postgres

import (
	"context"
	"errors"
	"fmt"

	"gota/business/ranking"
	"gota/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankingWeightsRepository struct {
	DB *gorm.DB
}

var _ ranking.WeightsRepository = (*RankingWeightsRepository)(nil)

func NewRankingWeightsRepository(db *gorm.DB) *RankingWeightsRepository {
	return &RankingWeightsRepository{DB: db}
}

func (r *RankingWeightsRepository) GetWeights(ctx context.Context, profile string) (domain.RankingWeights, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.RankingWeights{}, false, fmt.Errorf("context error: %w", err)
	}

	var w domain.RankingWeights
	err := r.DB.WithContext(ctx).
		Where("profile = ?", profile).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RankingWeights{}, false, nil
	}
	if err != nil {
		return domain.RankingWeights{}, false, fmt.Errorf("failed to query ranking_weights: %w", err)
	}

	return w, true, nil
}

func (r *RankingWeightsRepository) UpsertWeights(ctx context.Context, w domain.RankingWeights) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "profile"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rating_weight",
				"review_weight",
				"review_cap",
				"favorite_weight",
				"favorite_cap",
				"photo_weight",
				"amenity_weight",
				"recency_cap",
				"featured_factor",
				"premium_factor",
				"seen_penalty",
				"fresh_bonus",
				"proximity_cap",
				"affinity_cap",
				"updated_at",
			}),
		}).
		Create(&w).Error
}
