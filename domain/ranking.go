package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PhotoSlots records which of the three photo slots are filled.
type PhotoSlots struct {
	Photo1 bool `json:"photo1"`
	Photo2 bool `json:"photo2"`
	Photo3 bool `json:"photo3"`
}

func (p PhotoSlots) Count() int {
	n := 0
	for _, ok := range []bool{p.Photo1, p.Photo2, p.Photo3} {
		if ok {
			n++
		}
	}
	return n
}

// ReviewActivity is a review as seen by the recency signal.
type ReviewActivity struct {
	CreatedAt     time.Time `json:"created_at"`
	HasOwnerReply bool      `json:"has_owner_reply"`
}

// CafeCandidate is a read-only snapshot of a cafe and its aggregates,
// materialized before ranking.
type CafeCandidate struct {
	ID            uint64           `json:"id"`
	Name          string           `json:"name"`
	Location      string           `json:"location"`
	AverageRating *float64         `json:"average_rating"`
	TotalReviews  int              `json:"total_reviews"`
	FavoriteCount int              `json:"favorite_count"`
	Photos        PhotoSlots       `json:"photos"`
	Amenities     Amenities        `json:"amenities"`
	Visibility    VisibilityLevel  `json:"visibility_level"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	RecentReviews []ReviewActivity `json:"recent_reviews,omitempty"`
}

func (c CafeCandidate) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Requester is the user a listing is ranked for.
type Requester struct {
	UserID    uint        `json:"user_id"`
	Favorites []Amenities `json:"favorites"`
}

type RankedCafe struct {
	Cafe       CafeCandidate `json:"cafe"`
	Score      float64       `json:"score"`
	DistanceKm *float64      `json:"distance_km,omitempty"`
}

// ScoreBreakdown shows every stage that produced a score.
type ScoreBreakdown struct {
	CafeID       uint64  `json:"cafe_id"`
	Quality      float64 `json:"quality"`
	Popularity   float64 `json:"popularity"`
	Photos       float64 `json:"photos"`
	Amenities    float64 `json:"amenities"`
	Recency      float64 `json:"recency"`
	Subtotal     float64 `json:"subtotal"`
	TierFactor   float64 `json:"tier_factor"`
	ViewFactor   float64 `json:"view_factor"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
	Proximity    float64 `json:"proximity"`
	Affinity     float64 `json:"affinity"`
	FinalScore   float64 `json:"final_score"`
	RecentlySeen bool    `json:"recently_seen"`
}

// RankingWeights is a stored override of the default scoring weights.
type RankingWeights struct {
	Profile string `json:"profile" gorm:"column:profile;primaryKey"`

	RatingWeight   float64 `json:"rating_weight" gorm:"column:rating_weight"`
	ReviewWeight   float64 `json:"review_weight" gorm:"column:review_weight"`
	ReviewCap      int     `json:"review_cap" gorm:"column:review_cap"`
	FavoriteWeight float64 `json:"favorite_weight" gorm:"column:favorite_weight"`
	FavoriteCap    int     `json:"favorite_cap" gorm:"column:favorite_cap"`
	PhotoWeight    float64 `json:"photo_weight" gorm:"column:photo_weight"`
	AmenityWeight  float64 `json:"amenity_weight" gorm:"column:amenity_weight"`
	RecencyCap     float64 `json:"recency_cap" gorm:"column:recency_cap"`
	FeaturedFactor float64 `json:"featured_factor" gorm:"column:featured_factor"`
	PremiumFactor  float64 `json:"premium_factor" gorm:"column:premium_factor"`
	SeenPenalty    float64 `json:"seen_penalty" gorm:"column:seen_penalty"`
	FreshBonus     float64 `json:"fresh_bonus" gorm:"column:fresh_bonus"`
	ProximityCap   float64 `json:"proximity_cap" gorm:"column:proximity_cap"`
	AffinityCap    float64 `json:"affinity_cap" gorm:"column:affinity_cap"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (RankingWeights) TableName() string {
	return "ranking_weights"
}

// RankingEvent logs one served ranked listing.
type RankingEvent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"column:user_id" json:"user_id"`
	Order       string            `gorm:"column:order_by;not null" json:"order"`
	ResultCount int               `gorm:"column:result_count" json:"result_count"`
	TopCafeIDs  datatypes.JSON    `gorm:"column:top_cafe_ids;type:jsonb" json:"top_cafe_ids"`
	Context     datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RankingEvent) TableName() string {
	return "ranking_events"
}
