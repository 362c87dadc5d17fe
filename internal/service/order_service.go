package service

import (
	"context"
	"fmt"

	"pharmacy-pos/internal/clock"
	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/pricing"
	"pharmacy-pos/internal/staging"
	"pharmacy-pos/internal/tenant"
	"pharmacy-pos/internal/util"

	"go.uber.org/zap"
)

// LocaleDateLayout formats the order date the way the receipt prints it
const LocaleDateLayout = "1/2/2006"

const orderCodePrefix = "ORD-"

// OrderService is the append-only order ledger of each pharmacy
type OrderService struct {
	backend   staging.Backend
	carts     *CartService
	clock     clock.Clock
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	backend staging.Backend,
	carts *CartService,
	clk clock.Clock,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		backend:   backend,
		carts:     carts,
		clock:     clk,
		publisher: publisherOrNoop(publisher),
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest carries the details entered on the cart screen
type CheckoutRequest struct {
	PatientName string  `json:"patientName"`
	DoctorName  string  `json:"doctorName"`
	GSTNo       string  `json:"gstNo"`
	GSTRate     float64 `json:"gstRate"`
}

func (r CheckoutRequest) order(lines []models.CartLine) models.Order {
	return models.Order{
		PatientName: r.PatientName,
		DoctorName:  r.DoctorName,
		GSTNo:       r.GSTNo,
		GSTRate:     r.GSTRate,
		Items:       lines,
	}
}

// Append commits order to the tenant's ledger and clears the tenant's cart in
// the same staging batch. The order code, pharmacy name and total are
// assigned here; a caller-supplied date is kept.
func (s *OrderService) Append(ctx context.Context, tenantName string, order models.Order) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Append")
	defer span.End()

	if err := ValidateLines(order.Items); err != nil {
		util.OrderCommitFailuresTotal.WithLabelValues("invalid_line").Inc()
		return nil, err
	}

	total, err := pricing.GrandTotal(order.Items, order.GSTRate)
	if err != nil {
		util.OrderCommitFailuresTotal.WithLabelValues("invalid_quantity").Inc()
		return nil, err
	}

	ordersKey := tenant.OrdersKey(tenantName)
	orders, malformed, err := staging.LoadList[models.Order](ctx, s.backend, ordersKey)
	if err != nil {
		util.OrderCommitFailuresTotal.WithLabelValues("persistence").Inc()
		return nil, err
	}
	if malformed {
		// Appending would overwrite whatever is stored there.
		util.OrderCommitFailuresTotal.WithLabelValues("malformed_ledger").Inc()
		return nil, fmt.Errorf("%w: ledger %s is not a list", models.ErrPersistence, ordersKey)
	}

	now := s.clock.Now()
	order.OrderCode = nextOrderCode(orders, now.UnixMilli())
	order.PharmacyName = tenantName
	if order.Date == "" {
		order.Date = now.Format(LocaleDateLayout)
	}
	if order.Items == nil {
		order.Items = []models.CartLine{}
	}
	order.Total = total

	batch := staging.NewBatch()
	if err := batch.Put(ordersKey, append(orders, order)); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	batch.Remove(tenant.CartKey(tenantName))

	if err := s.backend.Apply(ctx, batch); err != nil {
		util.OrderCommitFailuresTotal.WithLabelValues("persistence").Inc()
		s.logger.Error("Order commit failed, cart left staged",
			zap.String("tenant", tenantName),
			zap.Error(err))
		return nil, err
	}

	util.OrdersCommittedTotal.Inc()
	if order.Total > 0 {
		util.OrderValueTotal.Add(order.Total)
	}
	s.logger.Info("Order committed",
		zap.String("tenant", tenantName),
		zap.String("order_code", order.OrderCode),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))

	event := &models.OrderCommittedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderCommitted, tenantName, now),
		Order:     order,
	}
	if err := s.publisher.PublishOrderCommitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCommitted event", zap.Error(err))
	}

	return &order, nil
}

// Checkout commits the staged cart as an order
func (s *OrderService) Checkout(ctx context.Context, tenantName string, req CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	lines, err := s.carts.Get(ctx, tenantName)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		util.OrderCommitFailuresTotal.WithLabelValues("empty_cart").Inc()
		return nil, models.ErrEmptyCart
	}

	return s.Append(ctx, tenantName, req.order(lines))
}

// List returns the tenant's orders oldest first
func (s *OrderService) List(ctx context.Context, tenantName string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	return s.load(ctx, tenantName)
}

// Get returns one order by code
func (s *OrderService) Get(ctx context.Context, tenantName, orderCode string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Get")
	defer span.End()

	orders, err := s.load(ctx, tenantName)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderCode == orderCode {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderCode)
}

// Remove deletes an order from the ledger
func (s *OrderService) Remove(ctx context.Context, tenantName, orderCode string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.Remove")
	defer span.End()

	orders, err := s.load(ctx, tenantName)
	if err != nil {
		return err
	}

	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderCode != orderCode {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return fmt.Errorf("%w: order %s", models.ErrNotFound, orderCode)
	}

	batch := staging.NewBatch()
	if err := batch.Put(tenant.OrdersKey(tenantName), kept); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	if err := s.backend.Apply(ctx, batch); err != nil {
		return err
	}

	util.OrdersRemovedTotal.Inc()
	s.logger.Info("Order removed",
		zap.String("tenant", tenantName),
		zap.String("order_code", orderCode))

	event := &models.OrderRemovedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderRemoved, tenantName, s.clock.Now()),
		OrderCode: orderCode,
	}
	if err := s.publisher.PublishOrderRemoved(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderRemoved event", zap.Error(err))
	}
	return nil
}

// Receipt returns the receipt of a committed order
func (s *OrderService) Receipt(ctx context.Context, tenantName, orderCode string) (*Receipt, error) {
	order, err := s.Get(ctx, tenantName, orderCode)
	if err != nil {
		return nil, err
	}
	return ReceiptFromOrder(*order)
}

// PreviewReceipt prices the staged cart as a receipt without committing it
func (s *OrderService) PreviewReceipt(ctx context.Context, tenantName string, req CheckoutRequest) (*Receipt, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PreviewReceipt")
	defer span.End()

	lines, err := s.carts.Get(ctx, tenantName)
	if err != nil {
		return nil, err
	}

	order := req.order(lines)
	order.PharmacyName = tenantName
	order.Date = s.clock.Now().Format(LocaleDateLayout)
	return ReceiptFromOrder(order)
}

func (s *OrderService) load(ctx context.Context, tenantName string) ([]models.Order, error) {
	key := tenant.OrdersKey(tenantName)
	orders, malformed, err := staging.LoadList[models.Order](ctx, s.backend, key)
	if err != nil {
		return nil, err
	}
	if malformed {
		util.MalformedStagingTotal.WithLabelValues("orders").Inc()
		s.logger.Warn("Ledger payload is malformed, treating as empty", zap.String("key", key))
	}
	return orders, nil
}

// nextOrderCode derives a code from the millisecond timestamp, moving
// forward until it is unused in the ledger
func nextOrderCode(orders []models.Order, millis int64) string {
	used := make(map[string]bool, len(orders))
	for _, o := range orders {
		used[o.OrderCode] = true
	}
	for {
		code := fmt.Sprintf("%s%d", orderCodePrefix, millis)
		if !used[code] {
			return code
		}
		millis++
	}
}
