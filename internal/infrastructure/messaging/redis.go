package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/usecase"
)

// PaymentEventChannel is the pub/sub channel payment state changes go to.
const PaymentEventChannel = "payments.status"

// RedisPublisher publishes payment events over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher connects to Redis and returns a publisher.
func NewRedisPublisher(addr, password string, db int, logger *zap.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPublisher{
		client: client,
		logger: logger,
	}, nil
}

// PublishPaymentEvent publishes a payment state change.
func (p *RedisPublisher) PublishPaymentEvent(ctx context.Context, event usecase.PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	if err := p.client.Publish(ctx, PaymentEventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish payment event: %w", err)
	}

	p.logger.Debug("Published payment event",
		zap.String("order_id", event.OrderID),
		zap.String("status", string(event.Status)))
	return nil
}

// Close closes the underlying Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
