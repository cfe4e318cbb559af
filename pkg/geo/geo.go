// Package geo provides great-circle distance helpers for GPS samples.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineKm returns the great-circle distance in kilometers between
// two points.
func HaversineKm(from, to Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lon1 := from.Longitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	lon2 := to.Longitude * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

// PathLengthKm returns the total length of a time-ordered path as the
// sum of haversine distances between consecutive points. Paths with
// fewer than two points have zero length.
func PathLengthKm(points []Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += HaversineKm(points[i], points[i+1])
	}
	return total
}
