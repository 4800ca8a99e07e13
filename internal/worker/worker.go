package worker

import (
	"context"

	"go.uber.org/zap"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// OrderAuditWorker consumes order lifecycle events and records them in the
// log and metrics. It is an observer only; order state never depends on it.
type OrderAuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewOrderAuditWorker creates a new audit worker
func NewOrderAuditWorker(consumer *broker.Consumer) *OrderAuditWorker {
	logger := util.GetLogger()

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(func(_ context.Context, event *models.OrderCreatedEvent) error {
		util.OrderEventsAuditedTotal.WithLabelValues(event.EventType).Inc()
		logger.Info("Order audited",
			zap.String("order_id", event.OrderID),
			zap.String("currency", event.Currency),
			zap.String("total_amount", event.TotalAmount.String()),
			zap.Int("items", len(event.Items)))
		return nil
	})
	eventHandler.OnOrderFailed(func(_ context.Context, event *models.OrderFailedEvent) error {
		util.OrderEventsAuditedTotal.WithLabelValues(event.EventType).Inc()
		logger.Warn("Failed order audited",
			zap.String("order_id", event.OrderID),
			zap.String("reason", event.Reason))
		return nil
	})

	return &OrderAuditWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *OrderAuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order audit worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderAuditWorker) Stop() error {
	w.logger.Info("Stopping order audit worker")
	return w.consumer.Close()
}
