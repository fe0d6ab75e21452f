package ranking

import (
	"math"
	"slices"
	"time"

	"gota/domain"
)

// ScoreOptions is the request context a candidate is scored in.
type ScoreOptions struct {
	Requester *domain.Requester

	UserLat *float64
	UserLon *float64

	// RecentlyViewed is the session view history, oldest first. Nil means no
	// session context and skips the diversity stage entirely.
	RecentlyViewed []uint64

	// Now anchors the recency window; zero means time.Now().
	Now time.Time
}

func (o ScoreOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score is the ranking score of c, rounded to two decimals. Higher ranks first.
func (s *Scorer) Score(c domain.CafeCandidate, opts ScoreOptions) float64 {
	b, _, _ := s.explain(c, opts)
	return b.FinalScore
}

// Explain returns the score of c along with every stage that produced it.
func (s *Scorer) Explain(c domain.CafeCandidate, opts ScoreOptions) domain.ScoreBreakdown {
	b, _, _ := s.explain(c, opts)
	return b
}

// Stages run in order; tier and view factors scale everything accumulated
// before them, proximity and affinity are added afterwards.
func (s *Scorer) explain(c domain.CafeCandidate, opts ScoreOptions) (domain.ScoreBreakdown, float64, bool) {
	w := s.weights
	b := domain.ScoreBreakdown{
		CafeID:     c.ID,
		TierFactor: 1,
		ViewFactor: 1,
	}

	rating := 0.0
	if c.AverageRating != nil {
		rating = *c.AverageRating
	}
	reviews := max(c.TotalReviews, 0)
	b.Quality = rating*w.RatingWeight + float64(min(reviews, w.ReviewCap))*w.ReviewWeight

	b.Popularity = float64(min(max(c.FavoriteCount, 0), w.FavoriteCap)) * w.FavoriteWeight

	photos := c.Photos.Count()
	b.Photos = float64(photos) * w.PhotoWeight
	b.Amenities = float64(c.Amenities.Count()) * w.AmenityWeight
	b.Recency = s.recencyBoost(c, photos, opts.now())

	score := b.Quality + b.Popularity + b.Photos + b.Amenities + b.Recency
	b.Subtotal = score

	b.TierFactor = w.tierFactor(c.Visibility)
	score *= b.TierFactor

	if opts.RecentlyViewed != nil {
		if seenRecently(c.ID, opts.RecentlyViewed, w.ViewHistoryWindow) {
			b.RecentlySeen = true
			b.ViewFactor = w.SeenPenalty
		} else {
			b.ViewFactor = w.FreshBonus
		}
	}
	score *= b.ViewFactor

	dist, hasDist := distanceTo(c, opts)
	if hasDist {
		b.DistanceKm = dist
		b.Proximity = w.proximityBoost(dist)
	}
	score += b.Proximity

	if opts.Requester != nil {
		b.Affinity = w.Affinity(c.Amenities, opts.Requester.Favorites)
	}
	score += b.Affinity

	b.FinalScore = round2(score)
	return b, dist, hasDist
}

// recencyBoost counts reviews and owner replies inside the window. A single
// review may count towards both.
func (s *Scorer) recencyBoost(c domain.CafeCandidate, photos int, now time.Time) float64 {
	w := s.weights
	since := now.Add(-w.RecencyWindow)

	recent := 0
	replied := false
	for _, r := range c.RecentReviews {
		if r.CreatedAt.Before(since) {
			continue
		}
		recent++
		if r.HasOwnerReply {
			replied = true
		}
	}

	boost := float64(min(recent, w.RecentReviewCap)) * w.RecentReviewWeight
	if replied {
		boost += w.OwnerReplyBonus
	}
	if photos > 0 {
		boost += w.PhotoActivityBonus
	}

	return min(boost, w.RecencyCap)
}

func seenRecently(id uint64, history []uint64, window int) bool {
	if window >= 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	return slices.Contains(history, id)
}

func distanceTo(c domain.CafeCandidate, opts ScoreOptions) (float64, bool) {
	if opts.UserLat == nil || opts.UserLon == nil || !c.HasCoordinates() {
		return 0, false
	}
	return Distance(*opts.UserLat, *opts.UserLon, *c.Latitude, *c.Longitude), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
