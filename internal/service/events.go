package service

import (
	"context"
	"time"

	"pharmacy-pos/internal/models"

	"github.com/google/uuid"
)

// EventPublisher is implemented by broker.EventPublisher
type EventPublisher interface {
	PublishOrderCommitted(ctx context.Context, event *models.OrderCommittedEvent) error
	PublishOrderRemoved(ctx context.Context, event *models.OrderRemovedEvent) error
	PublishStockPurged(ctx context.Context, event *models.StockPurgedEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderCommitted(context.Context, *models.OrderCommittedEvent) error {
	return nil
}

func (noopPublisher) PublishOrderRemoved(context.Context, *models.OrderRemovedEvent) error {
	return nil
}

func (noopPublisher) PublishStockPurged(context.Context, *models.StockPurgedEvent) error {
	return nil
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func newBaseEvent(eventType, tenantName string, now time.Time) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Tenant:    tenantName,
		Timestamp: now,
	}
}
