package events

import (
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
)

// Kafka publishes every event as a JSON message on a single topic.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaWithProducer(producer, topic), nil
}

func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic}
}

func (k *Kafka) LogEvent(event string, fields map[string]interface{}) error {
	data, err := json.Marshal(payload(event, fields))
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event, err)
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(event),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("send event %s: %w", event, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}
