package models

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Latitude <= b.North && p.Latitude >= b.South &&
		p.Longitude <= b.East && p.Longitude >= b.West
}

type GPSReliability string

const (
	ReliabilityHigh   GPSReliability = "high"
	ReliabilityMedium GPSReliability = "medium"
	ReliabilityLow    GPSReliability = "low"
)

type DeliveryArea struct {
	Name                string         `json:"name"`
	Bounds              Bounds         `json:"bounds"`
	CenterPoint         GeoPoint       `json:"center_point"`
	MaxDeliveryRadiusKm float64        `json:"max_delivery_radius_km"`
	GPSReliability      GPSReliability `json:"gps_reliability"`
}

type Landmark struct {
	Name  string   `json:"name"`
	Point GeoPoint `json:"point"`
}

type AreaType string

const (
	AreaUrban    AreaType = "urban"
	AreaRural    AreaType = "rural"
	AreaMountain AreaType = "mountain"
	AreaUnknown  AreaType = "unknown"
)

type GPSReading struct {
	Point      GeoPoint `json:"point"`
	Accuracy   float64  `json:"accuracy"`
	AreaType   AreaType `json:"area_type"`
	IsAccurate bool     `json:"is_accurate"`
}

type NearbyLandmark struct {
	Landmark       Landmark `json:"landmark"`
	DistanceMeters float64  `json:"distance_meters"`
}

type AdjustedLocation struct {
	Point      GeoPoint `json:"point"`
	Confidence string   `json:"confidence"`
}

// DistanceQuote is not persisted; order creation snapshots it onto the order.
type DistanceQuote struct {
	DistanceMeters       int     `json:"distance_meters"`
	EstimatedMinutes     int     `json:"estimated_minutes"`
	IsWithinDeliveryArea bool    `json:"is_within_delivery_area"`
	FeeAmount            float64 `json:"fee_amount"`
	AreaName             string  `json:"area_name,omitempty"`
}
