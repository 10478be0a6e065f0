package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
)

// QuoteHandler processes one quote. Returning an error rejects the message
// without requeueing it.
type QuoteHandler func(ctx context.Context, msg QuoteMessage) error

// QuoteConsumer reads quotes off the queue for the order-creation side.
type QuoteConsumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *logger.Logger
}

func DialConsumer(url, queue string, log *logger.Logger) (*QuoteConsumer, error) {
	log = log.WithComponent("quote-consumer")

	conn, err := dial(url, log)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &QuoteConsumer{conn: conn, ch: ch, queue: queue, log: log}, nil
}

// Consume blocks, handing every delivery to handle until ctx is cancelled or
// the channel closes.
func (c *QuoteConsumer) Consume(ctx context.Context, handle QuoteHandler) error {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	return consumeLoop(ctx, msgs, handle, c.log)
}

func (c *QuoteConsumer) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

func consumeLoop(ctx context.Context, msgs <-chan amqp.Delivery, handle QuoteHandler, log *logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var msg QuoteMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Warn("Rejecting malformed quote", "error", err, "size", len(d.Body))
				_ = d.Reject(false)
				continue
			}

			if err := handle(ctx, msg); err != nil {
				log.Error("Failed to handle quote", "order_id", msg.OrderID, "error", err)
				_ = d.Reject(false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
