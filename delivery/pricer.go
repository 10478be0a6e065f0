package delivery

import (
	"math"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/geo"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/location"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const (
	BaseFee            = 6000
	baseHandlingMinute = 15
	coreSpeedKmh       = 20
	defaultSpeedKmh    = 30
)

type feeTier struct {
	maxKm     float64
	surcharge float64
}

// evaluated in order, first match wins
var feeTiers = []feeTier{
	{maxKm: 3, surcharge: 0},
	{maxKm: 6, surcharge: 3000},
	{maxKm: 12, surcharge: 8000},
	{maxKm: 20, surcharge: 12000},
	{maxKm: math.Inf(1), surcharge: 18000},
}

type Pricer struct {
	registry *location.Registry
}

func NewPricer(registry *location.Registry) *Pricer {
	return &Pricer{registry: registry}
}

// Quote prices a delivery from origin to destination. When no area's radius
// covers the destination the quote is flagged out of area and the fee is 0,
// even if the destination passed bounding-box validation.
func (p *Pricer) Quote(origin, destination models.GeoPoint) models.DistanceQuote {
	distance := geo.HaversineDistanceMeters(origin, destination)
	distanceKm := distance / 1000

	area, inArea := p.registry.AreaWithinRadius(destination)

	speed := float64(defaultSpeedKmh)
	if inArea && p.registry.IsCoreArea(area) {
		speed = coreSpeedKmh
	}

	quote := models.DistanceQuote{
		DistanceMeters:       int(math.Round(distance)),
		EstimatedMinutes:     int(math.Ceil(baseHandlingMinute + distanceKm/speed*60)),
		IsWithinDeliveryArea: inArea,
	}
	if inArea {
		quote.FeeAmount = Fee(distanceKm)
		quote.AreaName = area.Name
	}
	return quote
}

// Fee returns the tiered delivery fee for a distance in kilometers.
func Fee(distanceKm float64) float64 {
	for _, tier := range feeTiers {
		if distanceKm <= tier.maxKm {
			return BaseFee + tier.surcharge
		}
	}
	return BaseFee + feeTiers[len(feeTiers)-1].surcharge
}
