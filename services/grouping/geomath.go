package grouping

import (
	"math"

	"pawpack/models"
)

// earthRadiusMeters is the IUGG mean earth radius.
const earthRadiusMeters = 6371008.8

// metersPerDegreeLat is the length of one degree of latitude on the mean sphere.
const metersPerDegreeLat = earthRadiusMeters * math.Pi / 180

// WeightedPoint is a location weighted by the number of dogs picked up there.
type WeightedPoint struct {
	Point  models.Coordinate
	Weight float64
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Centroid returns the weighted arithmetic mean of the points. Non-positive
// weights count as 1. An empty set yields the zero coordinate.
func Centroid(points []WeightedPoint) models.Coordinate {
	var sumW, sumLat, sumLon float64
	for _, p := range points {
		w := p.Weight
		if w <= 0 {
			w = 1
		}
		sumW += w
		sumLat += p.Point.Lat * w
		sumLon += p.Point.Lon * w
	}
	if sumW == 0 {
		return models.Coordinate{}
	}
	return models.Coordinate{Lat: sumLat / sumW, Lon: sumLon / sumW}
}

// BoundingRadius returns the largest distance from center to any point.
func BoundingRadius(center models.Coordinate, points []models.Coordinate) float64 {
	var radius float64
	for _, p := range points {
		if d := Distance(center, p); d > radius {
			radius = d
		}
	}
	return radius
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// memberGeometry computes centroid and bounding radius for slot members.
func memberGeometry(members []models.SlotMember) (models.Coordinate, float64) {
	weighted := make([]WeightedPoint, len(members))
	points := make([]models.Coordinate, len(members))
	for i, m := range members {
		weighted[i] = WeightedPoint{Point: m.Location, Weight: float64(m.DogCount)}
		points[i] = m.Location
	}
	center := Centroid(weighted)
	return center, BoundingRadius(center, points)
}
