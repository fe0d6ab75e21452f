package ranking

import (
	"fmt"
	"time"

	"gota/domain"
)

// ProximityBucket grants Boost to cafes at most MaxKm away.
type ProximityBucket struct {
	MaxKm float64
	Boost float64
}

type Weights struct {
	// quality
	RatingWeight float64
	ReviewWeight float64
	ReviewCap    int

	// popularity
	FavoriteWeight float64
	FavoriteCap    int

	// content completeness
	PhotoWeight   float64
	AmenityWeight float64

	// recent activity
	RecencyWindow      time.Duration
	RecentReviewWeight float64
	RecentReviewCap    int
	OwnerReplyBonus    float64
	PhotoActivityBonus float64
	RecencyCap         float64

	// visibility tier multipliers; free is always 1
	FeaturedFactor float64
	PremiumFactor  float64

	// view diversity
	ViewHistoryWindow int
	SeenPenalty       float64
	FreshBonus        float64

	// proximity, buckets sorted by MaxKm ascending
	ProximityBuckets []ProximityBucket
	ProximityCap     float64

	// affinity
	AffinityFavorites int
	AffinityWeights   AffinityWeights
	AffinityCap       float64
}

const (
	defaultRatingWeight       = 3.2
	defaultReviewWeight       = 0.45
	defaultReviewCap          = 20
	defaultFavoriteWeight     = 0.4
	defaultFavoriteCap        = 30
	defaultPhotoWeight        = 1.2
	defaultAmenityWeight      = 0.3
	defaultRecencyWindow      = 14 * 24 * time.Hour
	defaultRecentReviewWeight = 1.0
	defaultRecentReviewCap    = 2
	defaultOwnerReplyBonus    = 1.2
	defaultPhotoActivityBonus = 0.6
	defaultRecencyCap         = 3.0
	defaultFeaturedFactor     = 1.10
	defaultPremiumFactor      = 1.25
	defaultViewHistoryWindow  = 10
	defaultSeenPenalty        = 0.82
	defaultFreshBonus         = 1.08
	defaultProximityCap       = 3.0
	defaultAffinityFavorites  = 5
	defaultAffinityCap        = 2.0
)

func DefaultWeights() Weights {
	return Weights{
		RatingWeight: defaultRatingWeight,
		ReviewWeight: defaultReviewWeight,
		ReviewCap:    defaultReviewCap,

		FavoriteWeight: defaultFavoriteWeight,
		FavoriteCap:    defaultFavoriteCap,

		PhotoWeight:   defaultPhotoWeight,
		AmenityWeight: defaultAmenityWeight,

		RecencyWindow:      defaultRecencyWindow,
		RecentReviewWeight: defaultRecentReviewWeight,
		RecentReviewCap:    defaultRecentReviewCap,
		OwnerReplyBonus:    defaultOwnerReplyBonus,
		PhotoActivityBonus: defaultPhotoActivityBonus,
		RecencyCap:         defaultRecencyCap,

		FeaturedFactor: defaultFeaturedFactor,
		PremiumFactor:  defaultPremiumFactor,

		ViewHistoryWindow: defaultViewHistoryWindow,
		SeenPenalty:       defaultSeenPenalty,
		FreshBonus:        defaultFreshBonus,

		// the 3.5 bucket is still clamped by ProximityCap
		ProximityBuckets: []ProximityBucket{
			{MaxKm: 0.5, Boost: 3.5},
			{MaxKm: 1, Boost: 2.5},
			{MaxKm: 2, Boost: 1.5},
			{MaxKm: 3, Boost: 0.8},
		},
		ProximityCap: defaultProximityCap,

		AffinityFavorites: defaultAffinityFavorites,
		AffinityWeights: AffinityWeights{
			PetFriendly:    0.4,
			VeganFriendly:  0.4,
			Wifi:           0.3,
			OutdoorSeating: 0.3,
			BooksOrGames:   0.2,
		},
		AffinityCap: defaultAffinityCap,
	}
}

// WithOverrides applies a stored weights profile on top of w. Fields the
// profile does not carry keep the value from w.
func (w Weights) WithOverrides(stored domain.RankingWeights) Weights {
	out := w
	out.ProximityBuckets = append([]ProximityBucket(nil), w.ProximityBuckets...)

	out.RatingWeight = stored.RatingWeight
	out.ReviewWeight = stored.ReviewWeight
	out.ReviewCap = stored.ReviewCap
	out.FavoriteWeight = stored.FavoriteWeight
	out.FavoriteCap = stored.FavoriteCap
	out.PhotoWeight = stored.PhotoWeight
	out.AmenityWeight = stored.AmenityWeight
	out.RecencyCap = stored.RecencyCap
	out.FeaturedFactor = stored.FeaturedFactor
	out.PremiumFactor = stored.PremiumFactor
	out.SeenPenalty = stored.SeenPenalty
	out.FreshBonus = stored.FreshBonus
	out.ProximityCap = stored.ProximityCap
	out.AffinityCap = stored.AffinityCap

	return out
}

// Stored is the persistable subset of w under the given profile name.
func (w Weights) Stored(profile string) domain.RankingWeights {
	return domain.RankingWeights{
		Profile:        profile,
		RatingWeight:   w.RatingWeight,
		ReviewWeight:   w.ReviewWeight,
		ReviewCap:      w.ReviewCap,
		FavoriteWeight: w.FavoriteWeight,
		FavoriteCap:    w.FavoriteCap,
		PhotoWeight:    w.PhotoWeight,
		AmenityWeight:  w.AmenityWeight,
		RecencyCap:     w.RecencyCap,
		FeaturedFactor: w.FeaturedFactor,
		PremiumFactor:  w.PremiumFactor,
		SeenPenalty:    w.SeenPenalty,
		FreshBonus:     w.FreshBonus,
		ProximityCap:   w.ProximityCap,
		AffinityCap:    w.AffinityCap,
	}
}

// Validate rejects weights that would make scores negative or unbounded.
func (w Weights) Validate() error {
	nonNegative := map[string]float64{
		"rating_weight":   w.RatingWeight,
		"review_weight":   w.ReviewWeight,
		"favorite_weight": w.FavoriteWeight,
		"photo_weight":    w.PhotoWeight,
		"amenity_weight":  w.AmenityWeight,
		"recency_cap":     w.RecencyCap,
		"proximity_cap":   w.ProximityCap,
		"affinity_cap":    w.AffinityCap,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	positive := map[string]float64{
		"featured_factor": w.FeaturedFactor,
		"premium_factor":  w.PremiumFactor,
		"seen_penalty":    w.SeenPenalty,
		"fresh_bonus":     w.FreshBonus,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}

	if w.ReviewCap < 0 || w.FavoriteCap < 0 {
		return fmt.Errorf("caps must not be negative")
	}

	return nil
}

func (w Weights) tierFactor(level domain.VisibilityLevel) float64 {
	switch level {
	case domain.VisibilityFeatured:
		return w.FeaturedFactor
	case domain.VisibilityPremium:
		return w.PremiumFactor
	default:
		return 1.0
	}
}

func (w Weights) proximityBoost(distKm float64) float64 {
	boost := 0.0
	for _, b := range w.ProximityBuckets {
		if distKm <= b.MaxKm {
			boost = b.Boost
			break
		}
	}
	return min(boost, w.ProximityCap)
}
