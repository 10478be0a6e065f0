package location

import (
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/geo"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

// RegistryConfig holds the boundaries used for validation and area-type
// classification. UrbanBounds must sit inside SuburbanBounds.
type RegistryConfig struct {
	Country        models.Bounds
	UrbanBounds    models.Bounds
	SuburbanBounds models.Bounds
	CoreAreaName   string
}

// Registry is the immutable table of delivery areas and landmarks. It is
// built once at startup and shared by reference.
type Registry struct {
	areas     []models.DeliveryArea
	landmarks []models.Landmark
	cfg       RegistryConfig
}

func NewRegistry(cfg RegistryConfig, areas []models.DeliveryArea, landmarks []models.Landmark) *Registry {
	return &Registry{
		areas:     append([]models.DeliveryArea(nil), areas...),
		landmarks: append([]models.Landmark(nil), landmarks...),
		cfg:       cfg,
	}
}

func (r *Registry) Areas() []models.DeliveryArea {
	return append([]models.DeliveryArea(nil), r.areas...)
}

func (r *Registry) Landmarks() []models.Landmark {
	return append([]models.Landmark(nil), r.landmarks...)
}

func (r *Registry) Config() RegistryConfig {
	return r.cfg
}

// ContainingArea returns the first area whose bounding box holds p.
func (r *Registry) ContainingArea(p models.GeoPoint) (models.DeliveryArea, bool) {
	for _, area := range r.areas {
		if area.Bounds.Contains(p) {
			return area, true
		}
	}
	return models.DeliveryArea{}, false
}

// AreaWithinRadius returns the first area, in registry order, whose center is
// within its own max delivery radius of p. This is a different predicate from
// ContainingArea and the two can disagree for the same point.
func (r *Registry) AreaWithinRadius(p models.GeoPoint) (models.DeliveryArea, bool) {
	for _, area := range r.areas {
		if geo.HaversineDistanceKm(area.CenterPoint, p) <= area.MaxDeliveryRadiusKm {
			return area, true
		}
	}
	return models.DeliveryArea{}, false
}

func (r *Registry) IsCoreArea(area models.DeliveryArea) bool {
	return area.Name == r.cfg.CoreAreaName
}

const CoreAreaVientiane = "Vientiane Central"

// DefaultRegistry returns the Vientiane service table.
func DefaultRegistry() *Registry {
	cfg := RegistryConfig{
		Country:        models.Bounds{North: 22.50, South: 13.90, East: 107.70, West: 100.08},
		UrbanBounds:    models.Bounds{North: 18.02, South: 17.93, East: 102.70, West: 102.55},
		SuburbanBounds: models.Bounds{North: 18.15, South: 17.85, East: 102.85, West: 102.45},
		CoreAreaName:   CoreAreaVientiane,
	}

	areas := []models.DeliveryArea{
		{
			Name:                CoreAreaVientiane,
			Bounds:              models.Bounds{North: 18.000, South: 17.940, East: 102.670, West: 102.580},
			CenterPoint:         models.GeoPoint{Latitude: 17.9757, Longitude: 102.6331},
			MaxDeliveryRadiusKm: 5,
			GPSReliability:      models.ReliabilityHigh,
		},
		{
			Name:                "Vientiane Suburbs",
			Bounds:              models.Bounds{North: 18.100, South: 17.850, East: 102.780, West: 102.480},
			CenterPoint:         models.GeoPoint{Latitude: 17.9800, Longitude: 102.6300},
			MaxDeliveryRadiusKm: 15,
			GPSReliability:      models.ReliabilityMedium,
		},
		{
			Name:                "Vientiane Outskirts",
			Bounds:              models.Bounds{North: 18.400, South: 17.800, East: 103.000, West: 102.300},
			CenterPoint:         models.GeoPoint{Latitude: 18.0500, Longitude: 102.6500},
			MaxDeliveryRadiusKm: 40,
			GPSReliability:      models.ReliabilityLow,
		},
	}

	landmarks := []models.Landmark{
		{Name: "Pha That Luang", Point: models.GeoPoint{Latitude: 17.9766, Longitude: 102.6336}},
		{Name: "Patuxay Monument", Point: models.GeoPoint{Latitude: 17.9707, Longitude: 102.6185}},
		{Name: "Talat Sao Morning Market", Point: models.GeoPoint{Latitude: 17.9644, Longitude: 102.6140}},
		{Name: "Chao Anouvong Park", Point: models.GeoPoint{Latitude: 17.9626, Longitude: 102.6052}},
		{Name: "Wattay International Airport", Point: models.GeoPoint{Latitude: 17.9883, Longitude: 102.5633}},
		{Name: "National University of Laos", Point: models.GeoPoint{Latitude: 18.0398, Longitude: 102.6380}},
		{Name: "Thai-Lao Friendship Bridge", Point: models.GeoPoint{Latitude: 17.8783, Longitude: 102.7150}},
	}

	return NewRegistry(cfg, areas, landmarks)
}
