package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gota/business/cafe"
	"gota/domain"

	"gorm.io/gorm"
)

type CafeRepository struct {
	DB *gorm.DB
}

var _ cafe.CafeRepository = (*CafeRepository)(nil)

func NewCafeRepository(db *gorm.DB) *CafeRepository {
	return &CafeRepository{DB: db}
}

const candidateSelect = `cafes.*,
	(SELECT AVG(r.rating) FROM reviews r WHERE r.cafe_id = cafes.id) AS average_rating,
	(SELECT COUNT(*) FROM reviews r WHERE r.cafe_id = cafes.id) AS total_reviews,
	(SELECT COUNT(*) FROM favorites f WHERE f.cafe_id = cafes.id) AS favorite_count`

type candidateRow struct {
	domain.Cafe   `gorm:"embedded"`
	AverageRating *float64 `gorm:"column:average_rating"`
	TotalReviews  int      `gorm:"column:total_reviews"`
	FavoriteCount int      `gorm:"column:favorite_count"`
}

func (row candidateRow) candidate() domain.CafeCandidate {
	return domain.CafeCandidate{
		ID:            row.ID,
		Name:          row.Name,
		Location:      row.Location,
		AverageRating: row.AverageRating,
		TotalReviews:  row.TotalReviews,
		FavoriteCount: row.FavoriteCount,
		Photos:        row.PhotoSlots(),
		Amenities:     row.Amenities,
		Visibility:    row.Visibility,
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
	}
}

type activityRow struct {
	CafeID     uint64    `gorm:"column:cafe_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	OwnerReply *string   `gorm:"column:owner_reply"`
}

func (r *CafeRepository) FindCandidates(ctx context.Context, filter domain.CafeFilter, activitySince time.Time) ([]domain.CafeCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).
		Table("cafes").
		Select(candidateSelect)
	if filter.Zone != "" {
		q = q.Where("cafes.location = ?", filter.Zone)
	}
	for _, col := range requiredColumns(filter.Required) {
		q = q.Where("cafes."+col+" = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		q = q.Where("(cafes.name ILIKE ? OR cafes.address ILIKE ? OR cafes.location ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.Visibility != nil {
		q = q.Where("cafes.visibility_level = ?", int(*filter.Visibility))
	}
	if len(filter.IDs) > 0 {
		q = q.Where("cafes.id IN ?", filter.IDs)
	}

	var rows []candidateRow
	if err := q.Order("cafes.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find cafe candidates: %w", err)
	}

	candidates := make([]domain.CafeCandidate, 0, len(rows))
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.candidate())
		ids = append(ids, row.ID)
	}

	activity, err := r.recentActivity(ctx, ids, activitySince)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].RecentReviews = activity[candidates[i].ID]
	}

	return candidates, nil
}

func (r *CafeRepository) FindCandidateByID(ctx context.Context, id uint64, activitySince time.Time) (domain.CafeCandidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.CafeCandidate{}, fmt.Errorf("context error: %w", err)
	}

	var rows []candidateRow
	err := r.DB.WithContext(ctx).
		Table("cafes").
		Select(candidateSelect).
		Where("cafes.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return domain.CafeCandidate{}, fmt.Errorf("failed to find cafe: %w", err)
	}
	if len(rows) == 0 {
		return domain.CafeCandidate{}, domain.ErrCafeNotFound
	}

	candidate := rows[0].candidate()
	activity, err := r.recentActivity(ctx, []uint64{id}, activitySince)
	if err != nil {
		return domain.CafeCandidate{}, err
	}
	candidate.RecentReviews = activity[id]

	return candidate, nil
}

// recentActivity loads the reviews created at or after since, grouped by cafe.
func (r *CafeRepository) recentActivity(ctx context.Context, ids []uint64, since time.Time) (map[uint64][]domain.ReviewActivity, error) {
	out := make(map[uint64][]domain.ReviewActivity, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []activityRow
	err := r.DB.WithContext(ctx).
		Model(&domain.Review{}).
		Select("cafe_id, created_at, owner_reply").
		Where("cafe_id IN ? AND created_at >= ?", ids, since).
		Order("created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent reviews: %w", err)
	}

	for _, row := range rows {
		out[row.CafeID] = append(out[row.CafeID], domain.ReviewActivity{
			CreatedAt:     row.CreatedAt,
			HasOwnerReply: row.OwnerReply != nil && *row.OwnerReply != "",
		})
	}

	return out, nil
}

// FindFavoriteAmenities returns the amenities of the user's first favorites,
// oldest favorite first.
func (r *CafeRepository) FindFavoriteAmenities(ctx context.Context, userID uint, limit int) ([]domain.Amenities, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var cafes []domain.Cafe
	q := r.DB.WithContext(ctx).
		Model(&domain.Cafe{}).
		Select("cafes.*").
		Joins("JOIN favorites ON favorites.cafe_id = cafes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at ASC, cafes.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}

	out := make([]domain.Amenities, 0, len(cafes))
	for _, c := range cafes {
		out = append(out, c.Amenities)
	}

	return out, nil
}

func (r *CafeRepository) FindZones(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var zones []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Cafe{}).
		Distinct("location").
		Where("location <> ''").
		Pluck("location", &zones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find zones: %w", err)
	}

	return zones, nil
}

func (r *CafeRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var c domain.Cafe
	err := r.DB.WithContext(ctx).Select("id").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check cafe: %w", err)
	}

	return true, nil
}

// requiredColumns maps the set amenity flags to their cafes columns.
func requiredColumns(a domain.Amenities) []string {
	all := []struct {
		set bool
		col string
	}{
		{a.IsVeganFriendly, "is_vegan_friendly"},
		{a.IsPetFriendly, "is_pet_friendly"},
		{a.HasWifi, "has_wifi"},
		{a.HasOutdoorSeating, "has_outdoor_seating"},
		{a.HasParking, "has_parking"},
		{a.IsAccessible, "is_accessible"},
		{a.HasVegetarianOptions, "has_vegetarian_options"},
		{a.ServesBreakfast, "serves_breakfast"},
		{a.ServesAlcohol, "serves_alcohol"},
		{a.HasBooksOrGames, "has_books_or_games"},
		{a.HasAirConditioning, "has_air_conditioning"},
	}

	cols := make([]string, 0, len(all))
	for _, f := range all {
		if f.set {
			cols = append(cols, f.col)
		}
	}
	return cols
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
