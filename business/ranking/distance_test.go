//go:build !integration

package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{-34.6037, -58.3816},
		{0, 0},
		{89.9, 179.9},
		{-90, -180},
	}
	for _, p := range points {
		assert.InDelta(t, 0.0, Distance(p[0], p[1], p[0], p[1]), 1e-6)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := [2]float64{-34.6037, -58.3816}
	b := [2]float64{-31.4201, -64.1888}

	ab := Distance(a[0], a[1], b[0], b[1])
	ba := Distance(b[0], b[1], a[0], a[1])

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestDistance_BuenosAiresToCordoba(t *testing.T) {
	d := Distance(-34.6037, -58.3816, -31.4201, -64.1888)

	assert.GreaterOrEqual(t, d, 640.0)
	assert.LessOrEqual(t, d, 660.0)
}

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	// one degree along a meridian is 2*pi*R/360
	assert.InDelta(t, 111.195, Distance(10, 20, 11, 20), 0.01)
}
