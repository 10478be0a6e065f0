// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seeu_cafe_http_requests_total",
		Help: "The total number of handled HTTP requests",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seeu_cafe_http_request_duration_seconds",
		Help:    "Time spent handling HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DeliveryQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seeu_cafe_delivery_quotes_total",
		Help: "The total number of delivery quotes by whether the destination matched a delivery area",
	}, []string{"within_area"})

	DeliveryFee = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "seeu_cafe_delivery_fee_amount",
		Help:    "Quoted delivery fees",
		Buckets: []float64{0, 6000, 9000, 14000, 18000, 24000},
	})

	InvalidLocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seeu_cafe_invalid_locations_total",
		Help: "The total number of rejected delivery locations",
	})

	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seeu_cafe_cart_mutations_total",
		Help: "The total number of cart mutations by operation",
	}, []string{"operation"})

	SessionsOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seeu_cafe_sessions_online",
		Help: "The number of live sessions seen by the last scan",
	})

	SessionsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seeu_cafe_sessions_pruned_total",
		Help: "The total number of stale session ids pruned from user session lists",
	})
)

// Middleware records request counts and latency per route template.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		route := c.Route().Path
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// ObserveQuote records one priced delivery.
func ObserveQuote(within bool, fee float64) {
	DeliveryQuotes.WithLabelValues(strconv.FormatBool(within)).Inc()
	DeliveryFee.Observe(fee)
}
