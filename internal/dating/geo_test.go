package dating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(50.0, 20.0, 50.0, 20.0))
}

func TestHaversineNearbyPoints(t *testing.T) {
	// Two points in the same city, well under a default radius apart.
	d := Haversine(50.883333, 20.616667, 50.87033, 20.62752)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 20.0)
}

func TestHaversineDistantPoints(t *testing.T) {
	// Kielce to Warsaw is roughly 155 km.
	d := Haversine(50.883333, 20.616667, 52.2297, 21.0122)
	assert.Greater(t, d, 20.0)
	assert.InDelta(t, 155, d, 10)
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(50.88, 20.61, 52.22, 21.01)
	b := Haversine(52.22, 21.01, 50.88, 20.61)
	assert.InDelta(t, a, b, 1e-9)
}
