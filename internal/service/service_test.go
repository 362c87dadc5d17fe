package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"pharmacy-pos/internal/clock"
	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/staging"
	"pharmacy-pos/internal/store"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu        sync.Mutex
	committed []*models.OrderCommittedEvent
	removed   []*models.OrderRemovedEvent
	purged    []*models.StockPurgedEvent
}

func (p *recordingPublisher) PublishOrderCommitted(_ context.Context, e *models.OrderCommittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = append(p.committed, e)
	return nil
}

func (p *recordingPublisher) PublishOrderRemoved(_ context.Context, e *models.OrderRemovedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, e)
	return nil
}

func (p *recordingPublisher) PublishStockPurged(_ context.Context, e *models.StockPurgedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.purged = append(p.purged, e)
	return nil
}

// failingBackend reads through to a real backend and refuses every write
type failingBackend struct {
	staging.Backend
}

func (failingBackend) Apply(context.Context, *staging.Batch) error {
	return fmt.Errorf("%w: disk full", models.ErrPersistence)
}

// brokenBackend fails every call the way an unreachable backend would
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, models.ErrPersistence
}

func (brokenBackend) Apply(context.Context, *staging.Batch) error {
	return models.ErrPersistence
}

type fixture struct {
	store     *store.Store
	backend   staging.Backend
	clock     *clock.MockClock
	publisher *recordingPublisher
	inventory *InventoryService
	carts     *CartService
	orders    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newTestStore(t)
	require.NoError(t, st.Migrate(context.Background()))

	f := &fixture{
		store:     st,
		backend:   staging.NewStoreBackend(st),
		clock:     clock.NewMockClock(testNow),
		publisher: &recordingPublisher{},
	}
	f.inventory = NewInventoryService(st, f.clock, f.publisher)
	f.carts = NewCartService(f.backend)
	f.orders = NewOrderService(f.backend, f.carts, f.clock, f.publisher)
	return f
}

func paracetamol() models.CartLine {
	return models.CartLine{
		Name:     "Paracetamol",
		Type:     models.KindMedicines,
		Quantity: models.QuantityOf(10),
		Price:    5,
		Discount: 10,
	}
}

func soap() models.CartLine {
	return models.CartLine{
		Name:     "Soap",
		Type:     models.KindGeneralItems,
		Quantity: models.QuantityOf(2),
		Price:    20,
	}
}
