package postgres

import (
	"context"
	"fmt"

	"gota/business/cafe"
	"gota/domain"

	"gorm.io/gorm"
)

type RankingEventRepository struct {
	DB *gorm.DB
}

var _ cafe.RankingEventRepository = (*RankingEventRepository)(nil)

func NewRankingEventRepository(db *gorm.DB) *RankingEventRepository {
	return &RankingEventRepository{DB: db}
}

func (r *RankingEventRepository) SaveEvent(ctx context.Context, event domain.RankingEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save ranking event: %w", err)
	}

	return nil
}
