package services

import (
	"context"
	"log/slog"
)

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// publish sends an event when a publisher is configured. Failures are logged
// and never undo the operation that produced the event.
func publish(ctx context.Context, publisher EventPublisher, logger *slog.Logger, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.Error("failed to publish event", "routing_key", routingKey, "error", err)
	}
}
