package location

import (
	"fmt"
	"sort"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/geo"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const (
	DefaultLandmarkRadiusKm = 2.0
	suggestionRadiusKm      = 1.0
	poorGPSCorrection       = 0.3
)

var estimatedAccuracy = map[models.AreaType]float64{
	models.AreaUrban:    5,
	models.AreaRural:    15,
	models.AreaMountain: 50,
	models.AreaUnknown:  25,
}

var accuracyThreshold = map[models.AreaType]float64{
	models.AreaUrban:    10,
	models.AreaRural:    25,
	models.AreaMountain: 100,
	models.AreaUnknown:  30,
}

type Validator struct {
	registry *Registry
}

func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks a raw GPS reading. Range, country and service-area checks
// run in that order and the first failure is returned.
func (v *Validator) Validate(point models.GeoPoint, accuracy *float64) (*models.GPSReading, error) {
	if !geo.ValidCoordinates(point) {
		return nil, invalid(point, "coordinates out of range")
	}
	if !v.registry.cfg.Country.Contains(point) {
		return nil, invalid(point, "outside serviceable country")
	}
	if _, ok := v.registry.ContainingArea(point); !ok {
		return nil, invalid(point, "outside service city")
	}

	areaType := v.ClassifyArea(point)

	acc := estimatedAccuracy[areaType]
	if accuracy != nil {
		acc = *accuracy
	}

	return &models.GPSReading{
		Point:      point,
		Accuracy:   acc,
		AreaType:   areaType,
		IsAccurate: acc <= accuracyThreshold[areaType],
	}, nil
}

// ClassifyArea checks urban first, then mountain (outside the suburban box),
// and falls back to rural.
func (v *Validator) ClassifyArea(point models.GeoPoint) models.AreaType {
	cfg := v.registry.cfg
	if cfg.UrbanBounds.Contains(point) {
		return models.AreaUrban
	}
	if !cfg.SuburbanBounds.Contains(point) {
		return models.AreaMountain
	}
	return models.AreaRural
}

func (v *Validator) FindNearbyLandmarks(point models.GeoPoint, radiusKm float64) []models.NearbyLandmark {
	if radiusKm <= 0 {
		radiusKm = DefaultLandmarkRadiusKm
	}

	nearby := []models.NearbyLandmark{}
	for _, lm := range v.registry.landmarks {
		d := geo.HaversineDistanceMeters(point, lm.Point)
		if d <= radiusKm*1000 {
			nearby = append(nearby, models.NearbyLandmark{Landmark: lm, DistanceMeters: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	return nearby
}

func (v *Validator) SuggestBetterLocation(point models.GeoPoint) string {
	nearby := v.FindNearbyLandmarks(point, suggestionRadiusKm)
	if len(nearby) == 0 {
		return "We could not find a nearby landmark. Please check that GPS is enabled and try again from an open area."
	}
	closest := nearby[0]
	return fmt.Sprintf("You appear to be near %s (about %.0f m away). Please confirm your delivery location.",
		closest.Landmark.Name, closest.DistanceMeters)
}

// AdjustLocationForPoorGPS pulls rural and mountain readings part of the way
// toward the center of the enclosing delivery area. It is a smoothing
// heuristic only.
func (v *Validator) AdjustLocationForPoorGPS(point models.GeoPoint) models.AdjustedLocation {
	switch v.ClassifyArea(point) {
	case models.AreaMountain, models.AreaRural:
		area, ok := v.registry.ContainingArea(point)
		if !ok {
			return models.AdjustedLocation{Point: point, Confidence: "low"}
		}
		return models.AdjustedLocation{
			Point:      geo.Toward(point, area.CenterPoint, poorGPSCorrection),
			Confidence: "medium",
		}
	default:
		return models.AdjustedLocation{Point: point, Confidence: "high"}
	}
}

func invalid(p models.GeoPoint, reason string) error {
	return &models.InvalidLocationError{Latitude: p.Latitude, Longitude: p.Longitude, Reason: reason}
}
