package domain

import (
	"errors"
	"time"
)

// CREATE TABLE public.cafes (
//     id                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name                TEXT NOT NULL UNIQUE,
//     address             TEXT NOT NULL,
//     location            TEXT NOT NULL,
//     photo1, photo2, photo3 TEXT,
//     is_vegan_friendly ... has_air_conditioning BOOLEAN DEFAULT FALSE,
//     visibility_level    SMALLINT DEFAULT 0,
//     latitude, longitude DOUBLE PRECISION,
//     owner_id            BIGINT,
//     created_at          TIMESTAMPTZ DEFAULT NOW()
// );

type VisibilityLevel int

const (
	VisibilityFree     VisibilityLevel = 0
	VisibilityFeatured VisibilityLevel = 1
	VisibilityPremium  VisibilityLevel = 2
)

func (v VisibilityLevel) String() string {
	switch v {
	case VisibilityFeatured:
		return "featured"
	case VisibilityPremium:
		return "premium"
	default:
		return "free"
	}
}

// ParseVisibilityLevel accepts the level name or its numeric value.
func ParseVisibilityLevel(s string) (VisibilityLevel, bool) {
	switch s {
	case "free", "0":
		return VisibilityFree, true
	case "featured", "1":
		return VisibilityFeatured, true
	case "premium", "2":
		return VisibilityPremium, true
	default:
		return VisibilityFree, false
	}
}

// Amenities are the boolean features a cafe can advertise.
type Amenities struct {
	IsVeganFriendly      bool `gorm:"column:is_vegan_friendly;default:false" json:"is_vegan_friendly"`
	IsPetFriendly        bool `gorm:"column:is_pet_friendly;default:false" json:"is_pet_friendly"`
	HasWifi              bool `gorm:"column:has_wifi;default:false" json:"has_wifi"`
	HasOutdoorSeating    bool `gorm:"column:has_outdoor_seating;default:false" json:"has_outdoor_seating"`
	HasParking           bool `gorm:"column:has_parking;default:false" json:"has_parking"`
	IsAccessible         bool `gorm:"column:is_accessible;default:false" json:"is_accessible"`
	HasVegetarianOptions bool `gorm:"column:has_vegetarian_options;default:false" json:"has_vegetarian_options"`
	ServesBreakfast      bool `gorm:"column:serves_breakfast;default:false" json:"serves_breakfast"`
	ServesAlcohol        bool `gorm:"column:serves_alcohol;default:false" json:"serves_alcohol"`
	HasBooksOrGames      bool `gorm:"column:has_books_or_games;default:false" json:"has_books_or_games"`
	HasAirConditioning   bool `gorm:"column:has_air_conditioning;default:false" json:"has_air_conditioning"`
}

// Flags lists the amenities in a fixed order.
func (a Amenities) Flags() []bool {
	return []bool{
		a.IsVeganFriendly,
		a.IsPetFriendly,
		a.HasWifi,
		a.HasOutdoorSeating,
		a.HasParking,
		a.IsAccessible,
		a.HasVegetarianOptions,
		a.ServesBreakfast,
		a.ServesAlcohol,
		a.HasBooksOrGames,
		a.HasAirConditioning,
	}
}

func (a Amenities) Count() int {
	n := 0
	for _, f := range a.Flags() {
		if f {
			n++
		}
	}
	return n
}

type Cafe struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"column:name;type:text;unique;not null" json:"name"`
	Address       string          `gorm:"column:address;type:text;not null" json:"address"`
	Location      string          `gorm:"column:location;type:text;not null" json:"location"`
	Description   string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Phone         string          `gorm:"column:phone;type:text" json:"phone,omitempty"`
	GoogleMapsURL string          `gorm:"column:google_maps_url;type:text" json:"google_maps_url,omitempty"`
	Photo1        string          `gorm:"column:photo1;type:text" json:"photo1,omitempty"`
	Photo2        string          `gorm:"column:photo2;type:text" json:"photo2,omitempty"`
	Photo3        string          `gorm:"column:photo3;type:text" json:"photo3,omitempty"`
	Amenities     Amenities       `gorm:"embedded" json:"amenities"`
	Visibility    VisibilityLevel `gorm:"column:visibility_level;default:0" json:"visibility_level"`
	Latitude      *float64        `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude     *float64        `gorm:"column:longitude" json:"longitude,omitempty"`
	OwnerID       *uint           `gorm:"column:owner_id" json:"owner_id,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Cafe) TableName() string {
	return "cafes"
}

func (c Cafe) PhotoSlots() PhotoSlots {
	return PhotoSlots{
		Photo1: c.Photo1 != "",
		Photo2: c.Photo2 != "",
		Photo3: c.Photo3 != "",
	}
}

type Review struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null" json:"user_id"`
	CafeID     uint64    `gorm:"column:cafe_id;not null;index" json:"cafe_id"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	OwnerReply *string   `gorm:"column:owner_reply;type:text" json:"owner_reply,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type Favorite struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	CafeID    uint64    `gorm:"column:cafe_id;primaryKey" json:"cafe_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

var ErrCafeNotFound = errors.New("cafe not found")

// CafeFilter narrows the candidate set before scoring. Every amenity set in
// Required must also be set on the cafe.
type CafeFilter struct {
	Zone     string
	Required Amenities

	// Search matches name, address or location, case-insensitive.
	Search     string
	Visibility *VisibilityLevel
	// IDs restricts the result to these cafes when non-empty.
	IDs []uint64
}
