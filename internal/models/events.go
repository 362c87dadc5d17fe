package models

import "time"

// Event types
const (
	EventTypeOrderCommitted = "ORDER_COMMITTED"
	EventTypeOrderRemoved   = "ORDER_REMOVED"
	EventTypeStockPurged    = "STOCK_PURGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Tenant    string    `json:"tenant"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCommittedEvent published when an order is appended to the ledger
type OrderCommittedEvent struct {
	BaseEvent
	Order Order `json:"order"`
}

// OrderRemovedEvent published when an order is deleted from the ledger
type OrderRemovedEvent struct {
	BaseEvent
	OrderCode string `json:"order_code"`
}

// StockPurgedEvent published when listing removed expired rows
type StockPurgedEvent struct {
	BaseEvent
	Relation string `json:"relation"`
	Kind     Kind   `json:"kind"`
	Count    int    `json:"count"`
	Before   string `json:"before"`
}
