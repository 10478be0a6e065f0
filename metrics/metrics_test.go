package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "200"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping/7", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "seeu_cafe_http_requests_total")
}

func TestObserveQuote(t *testing.T) {
	before := testutil.ToFloat64(DeliveryQuotes.WithLabelValues("false"))
	ObserveQuote(false, 0)
	assert.Equal(t, before+1, testutil.ToFloat64(DeliveryQuotes.WithLabelValues("false")))
}
