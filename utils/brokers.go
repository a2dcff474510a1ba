package utils

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and pings it once
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewKafkaWriter returns an asynchronous writer that makes a single delivery attempt
// and logs failed batches.
func NewKafkaWriter(broker, topic string, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:        kafka.TCP(broker),
		Topic:       topic,
		Balancer:    &kafka.Hash{},
		MaxAttempts: 1,
		Async:       true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("change events dropped", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
}
