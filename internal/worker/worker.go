package worker

import (
	"context"

	"pharmacy-pos/internal/broker"
	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/service"
	"pharmacy-pos/internal/util"

	"go.uber.org/zap"
)

// ReceiptSink receives receipts of committed orders for export
type ReceiptSink interface {
	Deliver(ctx context.Context, tenantName string, receipt *service.Receipt) error
}

// LogSink writes receipt totals to the log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink backed by the global logger
func NewLogSink() *LogSink {
	return &LogSink{logger: util.GetLogger()}
}

// Deliver logs the receipt
func (s *LogSink) Deliver(_ context.Context, tenantName string, receipt *service.Receipt) error {
	s.logger.Info("Receipt ready",
		zap.String("tenant", tenantName),
		zap.String("order_code", receipt.OrderCode()),
		zap.String("patient", receipt.PatientName()),
		zap.Float64("medicines", receipt.Subtotal(models.KindMedicines)),
		zap.Float64("general_items", receipt.Subtotal(models.KindGeneralItems)),
		zap.Float64("tax", receipt.TaxAmount()),
		zap.Float64("grand_total", receipt.GrandTotal()))
	return nil
}

// ReceiptWorker turns OrderCommitted events into receipts
type ReceiptWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	sink         ReceiptSink
	logger       *zap.Logger
}

// NewReceiptWorker creates a new receipt worker
func NewReceiptWorker(consumer *broker.Consumer, sink ReceiptSink) *ReceiptWorker {
	w := &ReceiptWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		sink:         sink,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderCommitted(w.HandleOrderCommitted)
	return w
}

// HandleOrderCommitted prices the committed order and delivers its receipt
func (w *ReceiptWorker) HandleOrderCommitted(ctx context.Context, event *models.OrderCommittedEvent) error {
	ctx, span := util.StartSpan(ctx, "ReceiptWorker.HandleOrderCommitted")
	defer span.End()

	receipt, err := service.ReceiptFromOrder(event.Order)
	if err != nil {
		// the order was priced at commit; nothing to retry
		w.logger.Error("Cannot build receipt",
			zap.String("order_code", event.Order.OrderCode),
			zap.Error(err))
		return nil
	}

	if err := w.sink.Deliver(ctx, event.Tenant, receipt); err != nil {
		return err
	}

	util.ReceiptsDeliveredTotal.Inc()
	return nil
}

// Start starts the worker
func (w *ReceiptWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting receipt worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReceiptWorker) Stop() error {
	w.logger.Info("Stopping receipt worker")
	return w.consumer.Close()
}
