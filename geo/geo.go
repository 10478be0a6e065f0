package geo

import (
	"math"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const EarthRadiusMeters = 6371000

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineDistanceMeters returns the great-circle distance between a and b.
func HaversineDistanceMeters(a, b models.GeoPoint) float64 {
	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// rounding can push h just past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func HaversineDistanceKm(a, b models.GeoPoint) float64 {
	return HaversineDistanceMeters(a, b) / 1000
}

// Bearing returns the initial bearing from a to b in degrees, in [0, 360).
func Bearing(a, b models.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	y := math.Sin(deltaLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLon)
	deg := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(deg+360, 360)
}

// Toward moves from a fraction of the way to target in coordinate space.
func Toward(from, target models.GeoPoint, fraction float64) models.GeoPoint {
	return models.GeoPoint{
		Latitude:  from.Latitude + (target.Latitude-from.Latitude)*fraction,
		Longitude: from.Longitude + (target.Longitude-from.Longitude)*fraction,
	}
}

func ValidCoordinates(p models.GeoPoint) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
