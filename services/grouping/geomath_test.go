package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pawpack/models"
)

func TestDistance(t *testing.T) {
	oneDegree := Distance(models.Coordinate{Lat: 0, Lon: 0}, models.Coordinate{Lat: 1, Lon: 0})
	assert.InDelta(t, 111195.08, oneDegree, 1)

	assert.Zero(t, Distance(base, base))

	for _, meters := range []float64{50, 500, 5000, 20000, 49000} {
		north := offset(base, meters, 0)
		assert.InDelta(t, meters, Distance(base, north), meters*0.001, "north %.0fm", meters)
		assert.InDelta(t, Distance(base, north), Distance(north, base), 1e-9)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]WeightedPoint{
		{Point: models.Coordinate{Lat: 0, Lon: 0}, Weight: 1},
		{Point: models.Coordinate{Lat: 0, Lon: 3}, Weight: 2},
	})
	assert.InDelta(t, 0, got.Lat, 1e-12)
	assert.InDelta(t, 2, got.Lon, 1e-12)

	// non-positive weights count once
	got = Centroid([]WeightedPoint{
		{Point: models.Coordinate{Lat: 2, Lon: 2}, Weight: 0},
		{Point: models.Coordinate{Lat: 4, Lon: 4}, Weight: -3},
	})
	assert.InDelta(t, 3, got.Lat, 1e-12)
	assert.InDelta(t, 3, got.Lon, 1e-12)

	assert.Equal(t, models.Coordinate{}, Centroid(nil))
}

func TestBoundingRadius(t *testing.T) {
	points := []models.Coordinate{offset(base, 100, 0), offset(base, 0, -700), offset(base, 300, 300)}
	assert.InDelta(t, 700, BoundingRadius(base, points), 0.5)
	assert.Zero(t, BoundingRadius(base, nil))
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, base.Valid())
	assert.False(t, models.Coordinate{Lat: 91, Lon: 0}.Valid())
	assert.False(t, models.Coordinate{Lat: 0, Lon: -181}.Valid())
}
