package ranking

import "gota/domain"

// AffinityWeights is the bonus for each amenity shared between a candidate
// and one of the requester's favorites.
type AffinityWeights struct {
	PetFriendly    float64
	VeganFriendly  float64
	Wifi           float64
	OutdoorSeating float64
	BooksOrGames   float64
}

// Affinity scores a candidate against the requester's favorites with the
// default weights.
func Affinity(cafe domain.Amenities, favorites []domain.Amenities) float64 {
	return DefaultWeights().Affinity(cafe, favorites)
}

// Affinity only looks at the first AffinityFavorites favorites and clamps the
// total to AffinityCap.
func (w Weights) Affinity(cafe domain.Amenities, favorites []domain.Amenities) float64 {
	if len(favorites) == 0 {
		return 0
	}
	if len(favorites) > w.AffinityFavorites {
		favorites = favorites[:w.AffinityFavorites]
	}

	aw := w.AffinityWeights
	affinity := 0.0
	for _, fav := range favorites {
		if cafe.IsPetFriendly && fav.IsPetFriendly {
			affinity += aw.PetFriendly
		}
		if cafe.IsVeganFriendly && fav.IsVeganFriendly {
			affinity += aw.VeganFriendly
		}
		if cafe.HasWifi && fav.HasWifi {
			affinity += aw.Wifi
		}
		if cafe.HasOutdoorSeating && fav.HasOutdoorSeating {
			affinity += aw.OutdoorSeating
		}
		if cafe.HasBooksOrGames && fav.HasBooksOrGames {
			affinity += aw.BooksOrGames
		}
	}

	return min(affinity, w.AffinityCap)
}
