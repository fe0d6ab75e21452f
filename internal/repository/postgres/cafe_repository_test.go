package postgres

import (
	"testing"

	"gota/domain"

	"github.com/stretchr/testify/assert"
)

func TestRequiredColumns(t *testing.T) {
	cols := requiredColumns(domain.Amenities{HasWifi: true, IsPetFriendly: true, HasAirConditioning: true})
	assert.Equal(t, []string{"is_pet_friendly", "has_wifi", "has_air_conditioning"}, cols)
	assert.Empty(t, requiredColumns(domain.Amenities{}))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Palermo", "Palermo"},
		{"100%", `100\%`},
		{"cafe_bar", `cafe\_bar`},
		{`a\b`, `a\\b`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}
