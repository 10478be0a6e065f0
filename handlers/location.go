package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/geo"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/location"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/messaging"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/metrics"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	RadiusKm  *float64 `json:"radius_km"`
	OrderID   string   `json:"order_id"`
}

func parseLocation(c *fiber.Ctx) (*locationRequest, models.GeoPoint, error) {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, models.GeoPoint{}, badRequest("body", "invalid JSON body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, models.GeoPoint{}, badRequest("latitude", "latitude and longitude are required")
	}
	if req.Accuracy != nil && *req.Accuracy < 0 {
		return nil, models.GeoPoint{}, badRequest("accuracy", "accuracy must not be negative")
	}
	return &req, models.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}, nil
}

// parseCoordinates is parseLocation plus a range check, for endpoints that do
// not run full validation.
func parseCoordinates(c *fiber.Ctx) (*locationRequest, models.GeoPoint, error) {
	req, point, err := parseLocation(c)
	if err != nil {
		return nil, point, err
	}
	if !geo.ValidCoordinates(point) {
		return nil, point, &models.InvalidLocationError{
			Latitude:  point.Latitude,
			Longitude: point.Longitude,
			Reason:    "coordinates out of range",
		}
	}
	return req, point, nil
}

// validateLocation godoc
// @Summary Validate a GPS reading
// @Tags location
// @Accept json
// @Produce json
// @Param location body handlers.locationRequest true "Coordinates"
// @Success 200 {object} models.GPSReading
// @Failure 400 {object} map[string]string
// @Router /location/validate [post]
func (s *Server) validateLocation(c *fiber.Ctx) error {
	req, point, err := parseLocation(c)
	if err != nil {
		return err
	}

	reading, err := s.validator.Validate(point, req.Accuracy)
	if err != nil {
		metrics.InvalidLocations.Inc()
		return err
	}
	return c.JSON(reading)
}

func (s *Server) nearbyLandmarks(c *fiber.Ctx) error {
	req, point, err := parseCoordinates(c)
	if err != nil {
		return err
	}

	radius := location.DefaultLandmarkRadiusKm
	if req.RadiusKm != nil {
		if *req.RadiusKm <= 0 {
			return badRequest("radius_km", "radius_km must be positive")
		}
		radius = *req.RadiusKm
	}

	return c.JSON(fiber.Map{
		"radius_km": radius,
		"landmarks": s.validator.FindNearbyLandmarks(point, radius),
	})
}

func (s *Server) suggestLocation(c *fiber.Ctx) error {
	_, point, err := parseCoordinates(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"suggestion": s.validator.SuggestBetterLocation(point),
	})
}

func (s *Server) adjustLocation(c *fiber.Ctx) error {
	_, point, err := parseCoordinates(c)
	if err != nil {
		return err
	}
	return c.JSON(s.validator.AdjustLocationForPoorGPS(point))
}

// deliveryAreas godoc
// @Summary List delivery areas
// @Tags delivery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /delivery/areas [get]
func (s *Server) deliveryAreas(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"areas": s.registry.Areas(),
		"store": s.store,
	})
}

// quoteDelivery godoc
// @Summary Price a delivery from the café to a destination
// @Tags delivery
// @Accept json
// @Produce json
// @Param location body handlers.locationRequest true "Coordinates"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /delivery/quote [post]
func (s *Server) quoteDelivery(c *fiber.Ctx) error {
	req, point, err := parseLocation(c)
	if err != nil {
		return err
	}

	reading, err := s.validator.Validate(point, req.Accuracy)
	if err != nil {
		metrics.InvalidLocations.Inc()
		return err
	}

	quote := s.pricer.Quote(s.store, point)
	metrics.ObserveQuote(quote.IsWithinDeliveryArea, quote.FeeAmount)

	s.logEvent(events.QuotePriced, map[string]interface{}{
		"order_id":        req.OrderID,
		"latitude":        point.Latitude,
		"longitude":       point.Longitude,
		"distance_meters": quote.DistanceMeters,
		"fee_amount":      quote.FeeAmount,
		"within_area":     quote.IsWithinDeliveryArea,
	})

	if req.OrderID != "" {
		msg := messaging.QuoteMessage{
			OrderID:     req.OrderID,
			Destination: point,
			Quote:       quote,
			PricedAt:    time.Now().UTC(),
		}
		if err := s.quotes.PublishQuote(c.UserContext(), msg); err != nil {
			s.log.Error("Failed to queue quote", "order_id", req.OrderID, "error", err)
			return fiber.NewError(fiber.StatusBadGateway, "quote could not be queued for order "+req.OrderID)
		}
	}

	return c.JSON(fiber.Map{
		"reading": reading,
		"quote":   quote,
	})
}
