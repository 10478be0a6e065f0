// Package handlers is the HTTP surface: thin fiber handlers over the location,
// delivery, cart and session components.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/cart"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/delivery"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/location"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/messaging"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/metrics"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/session"

	_ "github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/docs"
)

const (
	defaultOnlineInterval = 10 * time.Second
	defaultTimeout        = 10 * time.Second
)

type Options struct {
	Registry  *location.Registry
	Carts     *cart.Store
	Sessions  *session.Registry
	Events    events.Sink
	Quotes    messaging.Publisher
	Store     models.GeoPoint
	JWTSecret string
	Logger    *logger.Logger

	// OnlineInterval is how often the websocket feed pushes the online count.
	OnlineInterval time.Duration
	// AccessLog enables fiber's request logger.
	AccessLog bool

	// ReadTimeout and WriteTimeout bound each request; zero means 10s.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	registry  *location.Registry
	validator *location.Validator
	pricer    *delivery.Pricer
	carts     *cart.Store
	sessions  *session.Registry
	events    events.Sink
	quotes    messaging.Publisher
	store     models.GeoPoint
	jwtSecret []byte
	log       *logger.Logger

	onlineInterval time.Duration
	accessLog      bool
	readTimeout    time.Duration
	writeTimeout   time.Duration
}

func NewServer(opts Options) *Server {
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Quotes == nil {
		opts.Quotes = messaging.Nop{}
	}
	if opts.OnlineInterval <= 0 {
		opts.OnlineInterval = defaultOnlineInterval
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultTimeout
	}

	return &Server{
		registry:       opts.Registry,
		validator:      location.NewValidator(opts.Registry),
		pricer:         delivery.NewPricer(opts.Registry),
		carts:          opts.Carts,
		sessions:       opts.Sessions,
		events:         opts.Events,
		quotes:         opts.Quotes,
		store:          opts.Store,
		jwtSecret:      []byte(opts.JWTSecret),
		log:            opts.Logger.WithComponent("http"),
		onlineInterval: opts.OnlineInterval,
		accessLog:      opts.AccessLog,
		readTimeout:    opts.ReadTimeout,
		writeTimeout:   opts.WriteTimeout,
	}
}

// App builds the fiber application with every route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		ErrorHandler: s.errorHandler,
	})

	app.Use(recover.New())
	if s.accessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	s.setupRoutes(app)
	return app
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/health", healthCheck)
	app.Get("/metrics", metrics.Handler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")

	loc := v1.Group("/location")
	loc.Post("/validate", s.validateLocation)
	loc.Post("/nearby", s.nearbyLandmarks)
	loc.Post("/suggest", s.suggestLocation)
	loc.Post("/adjust", s.adjustLocation)

	dlv := v1.Group("/delivery")
	dlv.Get("/areas", s.deliveryAreas)
	dlv.Post("/quote", s.quoteDelivery)

	auth := s.authenticate(bearerToken, true)

	// Registering a session is the one authenticated call made before the
	// session exists, so it is mounted ahead of the group middleware.
	v1.Post("/sessions", s.authenticate(bearerToken, false), s.createSession)

	carts := v1.Group("/cart", auth)
	carts.Get("/", s.getCart)
	carts.Get("/details", s.getCartDetails)
	carts.Get("/count", s.getCartCount)
	carts.Get("/validate", s.validateCart)
	carts.Post("/items", s.addCartItem)
	carts.Put("/items/:id", s.updateCartItem)
	carts.Delete("/items/:id", s.removeCartItem)
	carts.Delete("/", s.clearCart)
	carts.Post("/migrate", s.migrateCart)

	sessions := v1.Group("/sessions", auth)
	sessions.Get("/", s.listSessions)
	sessions.Post("/extend", s.extendSession)
	sessions.Delete("/current", s.logout)
	sessions.Delete("/", s.logoutAll)

	admin := v1.Group("/admin", auth, requireRole(roleAdmin))
	admin.Get("/sessions/online", s.onlineSessions)
	admin.Get("/sessions/count", s.onlineCount)
	admin.Delete("/users/:id/sessions", s.revokeUserSessions)
	admin.Post("/sessions/flush", s.flushSessions)
	admin.Post("/sessions/cleanup", s.cleanupSessions)

	app.Use("/ws", requireUpgrade, s.authenticate(queryToken, true), requireRole(roleAdmin))
	app.Get("/ws/online", websocket.New(s.onlineFeed))
}

// healthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now(),
	})
}

// logEvent records an event without failing the request.
func (s *Server) logEvent(event string, fields map[string]interface{}) {
	if err := s.events.LogEvent(event, fields); err != nil {
		s.log.Warn("Failed to log event", "event", event, "error", err)
	}
}
