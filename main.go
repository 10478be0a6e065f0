package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/cache"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/cart"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/catalog"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/config"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/handlers"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/location"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/messaging"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New("seeu-cafe", "info").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New("seeu-cafe", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	menu, err := catalog.NewPostgres(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("Failed to connect to menu database", "error", err)
		os.Exit(1)
	}
	defer menu.Close()
	if err := menu.Ping(ctx); err != nil {
		log.Warn("Menu database is not reachable yet", "error", err)
	}

	var sink events.Sink = events.Nop{}
	if cfg.Kafka.Enabled() {
		k, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("Failed to initialize event log", "error", err)
			os.Exit(1)
		}
		defer k.Close()
		sink = k
	} else {
		log.Warn("KAFKA_BROKER is empty, events are discarded")
	}

	var quotes messaging.Publisher = messaging.Nop{}
	if cfg.RabbitMQ.Enabled() {
		p, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.QuoteQueue, log)
		if err != nil {
			log.Error("Failed to initialize quote publisher", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		quotes = p
	} else {
		log.Warn("RABBITMQ_URL is empty, quotes are not queued")
	}

	sessions := session.NewRegistry(store, cfg.Session.TTL, log)
	sweeper := session.NewSweeper(sessions, cfg.Session.CleanupInterval, sink, log)
	go sweeper.Run(ctx)

	srv := handlers.NewServer(handlers.Options{
		Registry:  location.DefaultRegistry(),
		Carts:     cart.NewStore(store, menu, log),
		Sessions:  sessions,
		Events:    sink,
		Quotes:    quotes,
		Store:     models.GeoPoint{Latitude: cfg.Store.Latitude, Longitude: cfg.Store.Longitude},
		JWTSecret: cfg.JWT.SecretKey,
		Logger:    log,
		AccessLog: true,

		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	app := srv.App()

	go func() {
		<-ctx.Done()
		log.Info("Gracefully shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed", "error", err)
		}
	}()

	log.Info("Server starting", "port", cfg.Server.Port, "cache", cfg.Redis.Driver)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Error("Server stopped", "error", err)
	}
}

func openCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.Cache, func(), error) {
	if cfg.Redis.Driver == "memory" {
		log.Warn("Using in-process cache, state is lost on restart")
		return cache.NewMemory(), func() {}, nil
	}

	rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		rc.Close()
		return nil, nil, err
	}
	return rc, func() { rc.Close() }, nil
}
