// Command quotewatch stands in for the order-creation service during local
// development: it consumes priced delivery quotes and serves the latest quote
// per order.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/config"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/messaging"
)

type quoteBook struct {
	mu     sync.RWMutex
	quotes map[string]messaging.QuoteMessage
}

func (b *quoteBook) put(_ context.Context, msg messaging.QuoteMessage) error {
	if msg.OrderID == "" {
		return errors.New("quote without order id")
	}
	b.mu.Lock()
	b.quotes[msg.OrderID] = msg
	b.mu.Unlock()
	return nil
}

func (b *quoteBook) get(orderID string) (messaging.QuoteMessage, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.quotes[orderID]
	return q, ok
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New("quotewatch", "info").Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New("quotewatch", cfg.Log.Level)

	consumer, err := messaging.DialConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.QuoteQueue, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	book := &quoteBook{quotes: make(map[string]messaging.QuoteMessage)}
	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg messaging.QuoteMessage) error {
			log.Info("Quote received", "order_id", msg.OrderID, "fee", msg.Quote.FeeAmount, "eta_min", msg.Quote.EstimatedMinutes)
			return book.put(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Consumer stopped", "error", err)
			stop()
		}
	}()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	})
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "quotewatch",
		})
	})
	app.Get("/quotes/:order_id", func(c *fiber.Ctx) error {
		q, ok := book.get(c.Params("order_id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no quote for order"})
		}
		return c.JSON(q)
	})

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	port := ":3000"
	log.Info("Quote watcher starting", "port", port)
	if err := app.Listen(port); err != nil {
		log.Error("Server stopped", "error", err)
	}
}
