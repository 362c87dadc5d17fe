package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pharmacy-pos/internal/clock"
	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/store"
	"pharmacy-pos/internal/tenant"
	"pharmacy-pos/internal/util"

	"go.uber.org/zap"
)

// InventoryService owns the medicines and general items of every pharmacy
type InventoryService struct {
	store     *store.Store
	clock     clock.Clock
	publisher EventPublisher
	logger    *zap.Logger

	mu       sync.Mutex
	migrated bool
	ensured  map[string]bool
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store *store.Store, clk clock.Clock, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		store:     store,
		clock:     clk,
		publisher: publisherOrNoop(publisher),
		logger:    util.GetLogger(),
		ensured:   make(map[string]bool),
	}
}

// EnsureSchema provisions the tenant's relation for kind and returns its name.
// Calls after the first success are no-ops.
func (s *InventoryService) EnsureSchema(ctx context.Context, tenantName string, kind models.Kind) (string, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.EnsureSchema")
	defer span.End()

	if _, err := models.ParseKind(string(kind)); err != nil {
		return "", err
	}
	relation := tenant.Relation(tenantName, string(kind))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured[relation] {
		return relation, nil
	}

	if !s.migrated {
		if err := s.store.Migrate(ctx); err != nil {
			return "", fmt.Errorf("%w: %s: %v", models.ErrSchema, relation, err)
		}
		s.migrated = true
	}

	if err := s.store.RegisterRelation(ctx, relation, tenantName, kind); err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrSchema, relation, err)
	}

	s.ensured[relation] = true
	s.logger.Info("Relation provisioned",
		zap.String("tenant", tenantName),
		zap.String("relation", relation))
	return relation, nil
}

// PartitionByExpiry splits items into those expiring today or later and
// those that already expired. Dates compare as YYYY-MM-DD strings.
func PartitionByExpiry(items []models.StockItem, today string) (active, expired []models.StockItem) {
	active = make([]models.StockItem, 0, len(items))
	for _, item := range items {
		if item.ExpiryDate >= today {
			active = append(active, item)
		} else {
			expired = append(expired, item)
		}
	}
	return active, expired
}

// List returns the unexpired stock of a relation and deletes the expired rows
func (s *InventoryService) List(ctx context.Context, tenantName string, kind models.Kind) ([]models.StockItem, int, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.List")
	defer span.End()

	relation, err := s.EnsureSchema(ctx, tenantName, kind)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	defer func() {
		util.StockListLatency.Observe(time.Since(start).Seconds())
	}()

	rows, err := s.store.ListStockItems(ctx, relation)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list %s: %v", models.ErrStorage, relation, err)
	}

	today := clock.Today(s.clock)
	active, expired := PartitionByExpiry(rows, today)
	if len(expired) == 0 {
		return active, 0, nil
	}

	n, err := s.store.PurgeExpired(ctx, relation, today)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: purge %s: %v", models.ErrStorage, relation, err)
	}
	purged := int(n)

	util.StockItemsPurgedTotal.WithLabelValues(string(kind)).Add(float64(purged))
	s.logger.Info("Purged expired stock",
		zap.String("tenant", tenantName),
		zap.String("relation", relation),
		zap.Int("count", purged))

	event := &models.StockPurgedEvent{
		BaseEvent: newBaseEvent(models.EventTypeStockPurged, tenantName, s.clock.Now()),
		Relation:  relation,
		Kind:      kind,
		Count:     purged,
		Before:    today,
	}
	if err := s.publisher.PublishStockPurged(ctx, event); err != nil {
		s.logger.Error("Failed to publish StockPurged event", zap.Error(err))
	}

	return active, purged, nil
}

// Add inserts a new stock row
func (s *InventoryService) Add(ctx context.Context, tenantName string, kind models.Kind, fields models.StockFields) (*models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Add")
	defer span.End()

	fields = normalizeFields(kind, fields)
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	relation, err := s.EnsureSchema(ctx, tenantName, kind)
	if err != nil {
		return nil, err
	}

	item, err := s.store.InsertStockItem(ctx, relation, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	s.logger.Info("Stock item added",
		zap.String("relation", relation),
		zap.Int64("id", item.ID))
	return item, nil
}

// Update replaces the editable fields of a row and returns the refreshed list
func (s *InventoryService) Update(ctx context.Context, tenantName string, kind models.Kind, id int64, fields models.StockFields) ([]models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Update")
	defer span.End()

	fields = normalizeFields(kind, fields)
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	relation, err := s.EnsureSchema(ctx, tenantName, kind)
	if err != nil {
		return nil, err
	}

	n, err := s.store.UpdateStockItem(ctx, relation, id, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: update %s/%d: %v", models.ErrStorage, relation, id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s item %d", models.ErrNotFound, relation, id)
	}

	active, _, err := s.List(ctx, tenantName, kind)
	return active, err
}

// Delete removes a row and returns the refreshed list
func (s *InventoryService) Delete(ctx context.Context, tenantName string, kind models.Kind, id int64) ([]models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Delete")
	defer span.End()

	relation, err := s.EnsureSchema(ctx, tenantName, kind)
	if err != nil {
		return nil, err
	}

	n, err := s.store.DeleteStockItem(ctx, relation, id)
	if err != nil {
		return nil, fmt.Errorf("%w: delete %s/%d: %v", models.ErrStorage, relation, id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s item %d", models.ErrNotFound, relation, id)
	}

	active, _, err := s.List(ctx, tenantName, kind)
	return active, err
}

// ExpiringSoon returns unexpired items whose expiry falls within the next
// withinDays days. It does not purge.
func (s *InventoryService) ExpiringSoon(ctx context.Context, tenantName string, kind models.Kind, withinDays int) ([]models.StockItem, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.ExpiringSoon")
	defer span.End()

	relation, err := s.EnsureSchema(ctx, tenantName, kind)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	from := now.Format(clock.DateLayout)
	to := now.AddDate(0, 0, withinDays).Format(clock.DateLayout)

	items, err := s.store.ListStockItemsExpiringBetween(ctx, relation, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return items, nil
}

// general items have no subcategory
func normalizeFields(kind models.Kind, f models.StockFields) models.StockFields {
	if kind == models.KindGeneralItems {
		f.Type = ""
	}
	return f
}
