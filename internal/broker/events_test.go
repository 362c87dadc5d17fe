package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pharmacy-pos/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKeyUsesNormalizedName(t *testing.T) {
	assert.Equal(t, "tenant-city_pharma", EventKey("City  Pharma"))
}

func TestHandleMessageRoutesOrderCommitted(t *testing.T) {
	event := models.OrderCommittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e1",
			EventType: models.EventTypeOrderCommitted,
			Tenant:    "City Pharma",
			Timestamp: time.Now(),
		},
		Order: models.Order{OrderCode: "ORD-1", Total: 47.25},
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)

	var got *models.OrderCommittedEvent
	h := NewEventHandler()
	h.OnOrderCommitted(func(_ context.Context, e *models.OrderCommittedEvent) error {
		got = e
		return nil
	})

	require.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: value}))
	require.NotNil(t, got)
	assert.Equal(t, "ORD-1", got.Order.OrderCode)
	assert.Equal(t, "City Pharma", got.Tenant)
}

func TestHandleMessageIgnoresOtherEvents(t *testing.T) {
	h := NewEventHandler()
	h.OnOrderCommitted(func(context.Context, *models.OrderCommittedEvent) error {
		t.Fatal("unexpected call")
		return nil
	})

	value := []byte(`{"event_type":"STOCK_PURGED","event_id":"e2"}`)
	assert.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: value}))
	assert.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"SOMETHING"}`)}))
	assert.Error(t, h.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{`)}))
}
