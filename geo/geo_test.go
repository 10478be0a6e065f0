package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

var samplePoints = []models.GeoPoint{
	{Latitude: 17.9757, Longitude: 102.6331},
	{Latitude: 17.9883, Longitude: 102.5633},
	{Latitude: 18.2000, Longitude: 102.6500},
	{Latitude: -33.8688, Longitude: 151.2093},
	{Latitude: 51.5074, Longitude: -0.1278},
	{Latitude: 0, Longitude: 0},
	{Latitude: 89.9, Longitude: 179.9},
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	for _, p := range samplePoints {
		assert.InDelta(t, 0, HaversineDistanceMeters(p, p), 1e-6)
	}
}

func TestHaversineSymmetricAndNonNegative(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			ab := HaversineDistanceMeters(a, b)
			ba := HaversineDistanceMeters(b, a)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-6)
		}
	}
}

func TestHaversineTriangleInequality(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			for _, c := range samplePoints {
				ac := HaversineDistanceMeters(a, c)
				abc := HaversineDistanceMeters(a, b) + HaversineDistanceMeters(b, c)
				assert.LessOrEqual(t, ac, abc+1e-6)
			}
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// one degree of latitude along a meridian
	a := models.GeoPoint{Latitude: 10, Longitude: 100}
	b := models.GeoPoint{Latitude: 11, Longitude: 100}
	want := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, want, HaversineDistanceMeters(a, b), 1e-3)
	assert.InDelta(t, want/1000, HaversineDistanceKm(a, b), 1e-6)
}

func TestBearing(t *testing.T) {
	origin := models.GeoPoint{Latitude: 0, Longitude: 0}
	tests := []struct {
		name string
		to   models.GeoPoint
		want float64
	}{
		{"north", models.GeoPoint{Latitude: 1, Longitude: 0}, 0},
		{"east", models.GeoPoint{Latitude: 0, Longitude: 1}, 90},
		{"south", models.GeoPoint{Latitude: -1, Longitude: 0}, 180},
		{"west", models.GeoPoint{Latitude: 0, Longitude: -1}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Bearing(origin, tt.to), 1e-6)
		})
	}
}

func TestToward(t *testing.T) {
	from := models.GeoPoint{Latitude: 10, Longitude: 20}
	to := models.GeoPoint{Latitude: 20, Longitude: 40}
	got := Toward(from, to, 0.3)
	assert.InDelta(t, 13, got.Latitude, 1e-9)
	assert.InDelta(t, 26, got.Longitude, 1e-9)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(models.GeoPoint{Latitude: 90, Longitude: -180}))
	assert.False(t, ValidCoordinates(models.GeoPoint{Latitude: 90.1, Longitude: 0}))
	assert.False(t, ValidCoordinates(models.GeoPoint{Latitude: 0, Longitude: 180.5}))
}
