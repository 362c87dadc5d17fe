package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/tenant"
	"pharmacy-pos/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// EventKey keeps every event of one pharmacy on the same partition
func EventKey(displayName string) string {
	return "tenant-" + tenant.Normalize(displayName)
}

// PublishOrderCommitted publishes OrderCommitted event
func (ep *EventPublisher) PublishOrderCommitted(ctx context.Context, event *models.OrderCommittedEvent) error {
	return ep.producer.PublishEvent(ctx, EventKey(event.Tenant), event)
}

// PublishOrderRemoved publishes OrderRemoved event
func (ep *EventPublisher) PublishOrderRemoved(ctx context.Context, event *models.OrderRemovedEvent) error {
	return ep.producer.PublishEvent(ctx, EventKey(event.Tenant), event)
}

// PublishStockPurged publishes StockPurged event
func (ep *EventPublisher) PublishStockPurged(ctx context.Context, event *models.StockPurgedEvent) error {
	return ep.producer.PublishEvent(ctx, EventKey(event.Tenant), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onOrderCommitted func(context.Context, *models.OrderCommittedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderCommitted registers a handler for OrderCommitted events
func (eh *EventHandler) OnOrderCommitted(handler func(context.Context, *models.OrderCommittedEvent) error) {
	eh.onOrderCommitted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderCommitted:
		if eh.onOrderCommitted != nil {
			var event models.OrderCommittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCommitted event: %w", err)
			}
			return eh.onOrderCommitted(ctx, &event)
		}

	case models.EventTypeOrderRemoved, models.EventTypeStockPurged:
		// informational

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
