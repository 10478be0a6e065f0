// Package messaging hands priced delivery quotes to the order-creation
// collaborator over RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const (
	dialAttempts = 5
	dialBackoff  = 5 * time.Second
)

// QuoteMessage is the body published for an order that has been priced.
type QuoteMessage struct {
	OrderID     string               `json:"order_id"`
	Destination models.GeoPoint      `json:"destination"`
	Quote       models.DistanceQuote `json:"quote"`
	PricedAt    time.Time            `json:"priced_at"`
}

type Publisher interface {
	PublishQuote(ctx context.Context, msg QuoteMessage) error
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// QuotePublisher publishes quotes as persistent JSON messages on a durable
// queue through the default exchange.
type QuotePublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    channel
	queue string
	log   *logger.Logger
}

// Dial connects to RabbitMQ and declares the quote queue.
func Dial(url, queue string, log *logger.Logger) (*QuotePublisher, error) {
	log = log.WithComponent("messaging")

	conn, err := dial(url, log)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newQuotePublisher(ch, queue, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// dial retries a few times while the broker starts up.
func dial(url string, log *logger.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < dialAttempts; i++ {
		log.Info("Connecting to RabbitMQ", "attempt", i+1, "max_attempts", dialAttempts)
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		if i < dialAttempts-1 {
			log.Warn("Failed to connect to RabbitMQ, retrying", "error", err, "backoff", dialBackoff)
			time.Sleep(dialBackoff)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", dialAttempts, err)
}

func newQuotePublisher(ch channel, queue string, log *logger.Logger) (*QuotePublisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &QuotePublisher{ch: ch, queue: queue, log: log}, nil
}

func (p *QuotePublisher) PublishQuote(ctx context.Context, msg QuoteMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	p.mu.Lock()
	err = p.ch.Publish(
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.OrderID,
			Timestamp:    msg.PricedAt,
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		p.log.Error("Failed to publish quote", "order_id", msg.OrderID, "error", err)
		return fmt.Errorf("publish quote for order %s: %w", msg.OrderID, err)
	}

	p.log.Debug("Published quote", "order_id", msg.OrderID, "queue", p.queue, "size", len(body))
	return nil
}

func (p *QuotePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop drops every quote. Used when RABBITMQ_URL is empty.
type Nop struct{}

func (Nop) PublishQuote(context.Context, QuoteMessage) error { return nil }
