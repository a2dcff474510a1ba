package storage

import (
	"context"
	"encoding/json"

	"go-fooddelivery/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher sends change events keyed by collection name
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Collection),
		Value: payload,
	})
}
