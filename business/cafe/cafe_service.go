package cafe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gota/business/ranking"
	"gota/domain"
	"gota/pkg/logger"

	json "github.com/goccy/go-json"
	"gorm.io/datatypes"
)

const (
	OrderAlgorithm = "algoritmo"
	OrderRating    = "rating"
	OrderReviews   = "reviews_count"
	OrderName      = "name"

	defaultRadiusKm = 5.0
	eventTopN       = 10
)

// ---- Repository interfaces ----

type CafeRepository interface {
	// FindCandidates loads cafes with their aggregates; only reviews created
	// at or after activitySince are attached as RecentReviews.
	FindCandidates(ctx context.Context, filter domain.CafeFilter, activitySince time.Time) ([]domain.CafeCandidate, error)
	FindCandidateByID(ctx context.Context, id uint64, activitySince time.Time) (domain.CafeCandidate, error)
	FindFavoriteAmenities(ctx context.Context, userID uint, limit int) ([]domain.Amenities, error)
	FindZones(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

type ViewHistoryRepository interface {
	RecentlyViewed(ctx context.Context, sessionID string) ([]uint64, error)
	RecordView(ctx context.Context, sessionID string, cafeID uint64) error
}

type RankingEventRepository interface {
	SaveEvent(ctx context.Context, event domain.RankingEvent) error
}

type WeightsLoader interface {
	LoadWeights(ctx context.Context, profile string) ranking.Weights
}

// ListQuery describes one listing request.
type ListQuery struct {
	Zone       string
	Required   domain.Amenities
	Search     string
	Visibility *domain.VisibilityLevel
	Order      string

	// proximity filter and boost; both must be set
	Lat      *float64
	Lon      *float64
	RadiusKm float64

	UserID    uint
	SessionID string
	Limit     int
}

type Config struct {
	Profile         string
	DefaultRadiusKm float64
}

// ---- Service ----

type CafeService struct {
	cafeRepo    CafeRepository
	historyRepo ViewHistoryRepository
	eventRepo   RankingEventRepository
	weights     WeightsLoader
	cfg         Config
	now         func() time.Time
}

func NewCafeService(
	cafeRepo CafeRepository,
	historyRepo ViewHistoryRepository,
	eventRepo RankingEventRepository,
	weights WeightsLoader,
	cfg Config,
) *CafeService {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = defaultRadiusKm
	}
	return &CafeService{
		cafeRepo:    cafeRepo,
		historyRepo: historyRepo,
		eventRepo:   eventRepo,
		weights:     weights,
		cfg:         cfg,
		now:         time.Now,
	}
}

// ListCafes returns the filtered cafes in the requested order. Every cafe
// carries its ranking score whatever the order.
func (s *CafeService) ListCafes(ctx context.Context, q ListQuery) ([]domain.RankedCafe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if q.Order == "" {
		q.Order = OrderAlgorithm
	}

	now := s.now()
	weights := s.loadWeights(ctx)

	candidates, err := s.cafeRepo.FindCandidates(ctx,
		domain.CafeFilter{
			Zone:       q.Zone,
			Required:   q.Required,
			Search:     q.Search,
			Visibility: q.Visibility,
		},
		now.Add(-weights.RecencyWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("load cafe candidates: %w", err)
	}

	if q.Lat != nil && q.Lon != nil {
		radius := q.RadiusKm
		if radius <= 0 {
			radius = s.cfg.DefaultRadiusKm
		}
		candidates = withinRadius(candidates, *q.Lat, *q.Lon, radius)
	}

	opts := s.scoreOptions(ctx, q, now, weights)

	tid := ranking.TraceIDFromContext(ctx)
	logger.Debug("cafe_list",
		"trace_id", tid,
		"user_id", q.UserID,
		"order", q.Order,
		"zone", q.Zone,
		"has_location", q.Lat != nil && q.Lon != nil,
		"candidate_count", len(candidates),
	)

	ranked := ranking.NewScorer(weights).Rank(candidates, opts)
	sortRanked(ranked, q.Order)

	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	s.recordEvent(ctx, q, ranked)

	return ranked, nil
}

// ExplainCafe scores a single cafe in the caller's context and returns every
// stage of the computation.
func (s *CafeService) ExplainCafe(ctx context.Context, cafeID uint64, q ListQuery) (domain.ScoreBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("context error: %w", err)
	}
	if cafeID == 0 {
		return domain.ScoreBreakdown{}, domain.ErrCafeNotFound
	}

	now := s.now()
	weights := s.loadWeights(ctx)

	candidate, err := s.cafeRepo.FindCandidateByID(ctx, cafeID, now.Add(-weights.RecencyWindow))
	if err != nil {
		return domain.ScoreBreakdown{}, err
	}

	return ranking.NewScorer(weights).Explain(candidate, s.scoreOptions(ctx, q, now, weights)), nil
}

// RecordView appends a cafe to the session's view history.
func (s *CafeService) RecordView(ctx context.Context, sessionID string, cafeID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if sessionID == "" {
		return errors.New("session id is required")
	}
	if s.historyRepo == nil {
		return errors.New("view history is not configured")
	}

	ok, err := s.cafeRepo.Exists(ctx, cafeID)
	if err != nil {
		return fmt.Errorf("failed to check cafe: %w", err)
	}
	if !ok {
		return domain.ErrCafeNotFound
	}

	if err := s.historyRepo.RecordView(ctx, sessionID, cafeID); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}

	return nil
}

// RecentlyViewedCafes returns the cafes in the session's view history, most
// recent first. A cafe viewed twice is listed once.
func (s *CafeService) RecentlyViewedCafes(ctx context.Context, sessionID string) ([]domain.CafeCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if sessionID == "" || s.historyRepo == nil {
		return []domain.CafeCandidate{}, nil
	}

	history, err := s.historyRepo.RecentlyViewed(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load view history: %w", err)
	}

	ids := make([]uint64, 0, len(history))
	seen := make(map[uint64]bool, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		if !seen[history[i]] {
			seen[history[i]] = true
			ids = append(ids, history[i])
		}
	}
	if len(ids) == 0 {
		return []domain.CafeCandidate{}, nil
	}

	weights := s.loadWeights(ctx)
	candidates, err := s.cafeRepo.FindCandidates(ctx,
		domain.CafeFilter{IDs: ids},
		s.now().Add(-weights.RecencyWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("load cafe candidates: %w", err)
	}

	byID := make(map[uint64]domain.CafeCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	// deleted cafes drop out of the list
	out := make([]domain.CafeCandidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}

	return out, nil
}

func (s *CafeService) ListZones(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	zones, err := s.cafeRepo.FindZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	sort.Strings(zones)

	return zones, nil
}

func (s *CafeService) loadWeights(ctx context.Context) ranking.Weights {
	if s.weights == nil {
		return ranking.DefaultWeights()
	}
	return s.weights.LoadWeights(ctx, s.cfg.Profile)
}

// scoreOptions gathers the requester context. Missing favorites drop the
// affinity stage.
func (s *CafeService) scoreOptions(ctx context.Context, q ListQuery, now time.Time, weights ranking.Weights) ranking.ScoreOptions {
	opts := ranking.ScoreOptions{Now: now}
	if q.Lat != nil && q.Lon != nil {
		opts.UserLat, opts.UserLon = q.Lat, q.Lon
	}

	tid := ranking.TraceIDFromContext(ctx)

	if q.UserID != 0 {
		favorites, err := s.cafeRepo.FindFavoriteAmenities(ctx, q.UserID, weights.AffinityFavorites)
		if err != nil {
			logger.Warn("favorites unavailable for affinity", "trace_id", tid, "user_id", q.UserID, "error", err.Error())
		}
		opts.Requester = &domain.Requester{UserID: q.UserID, Favorites: favorites}
	}

	// served listings always apply the view stage; no history means every
	// cafe gets the fresh bonus
	opts.RecentlyViewed = []uint64{}
	if q.SessionID != "" && s.historyRepo != nil {
		history, err := s.historyRepo.RecentlyViewed(ctx, q.SessionID)
		if err != nil {
			logger.Warn("view history unavailable", "trace_id", tid, "error", err.Error())
		} else if history != nil {
			opts.RecentlyViewed = history
		}
	}

	return opts
}

func (s *CafeService) recordEvent(ctx context.Context, q ListQuery, ranked []domain.RankedCafe) {
	if s.eventRepo == nil {
		return
	}

	top := make([]uint64, 0, eventTopN)
	for i := 0; i < len(ranked) && i < eventTopN; i++ {
		top = append(top, ranked[i].Cafe.ID)
	}
	raw, err := json.Marshal(top)
	if err != nil {
		logger.Error("failed to encode ranking event", err)
		return
	}

	event := domain.RankingEvent{
		UserID:      q.UserID,
		Order:       q.Order,
		ResultCount: len(ranked),
		TopCafeIDs:  datatypes.JSON(raw),
		Context: datatypes.JSONMap{
			"trace_id":     ranking.TraceIDFromContext(ctx),
			"zone":         q.Zone,
			"search":       q.Search,
			"has_location": q.Lat != nil && q.Lon != nil,
			"has_session":  q.SessionID != "",
			"radius_km":    q.RadiusKm,
		},
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		logger.Error("failed to save ranking event", "trace_id", ranking.TraceIDFromContext(ctx), "error", err.Error())
	}
}

func withinRadius(candidates []domain.CafeCandidate, lat, lon, radiusKm float64) []domain.CafeCandidate {
	out := make([]domain.CafeCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasCoordinates() {
			continue
		}
		if ranking.Distance(lat, lon, *c.Latitude, *c.Longitude) <= radiusKm {
			out = append(out, c)
		}
	}
	return out
}

// sortRanked reorders an already score-ranked list for the non-algorithmic
// orders. Stable, so score order breaks ties.
func sortRanked(ranked []domain.RankedCafe, order string) {
	switch order {
	case OrderRating:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ratingOf(ranked[i].Cafe) > ratingOf(ranked[j].Cafe)
		})
	case OrderReviews:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Cafe.TotalReviews > ranked[j].Cafe.TotalReviews
		})
	case OrderName:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Cafe.Name < ranked[j].Cafe.Name
		})
	}
}

func ratingOf(c domain.CafeCandidate) float64 {
	if c.AverageRating == nil {
		return 0
	}
	return *c.AverageRating
}
