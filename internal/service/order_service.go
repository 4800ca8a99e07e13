package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// OrderTx is one order-creation transaction scope. Either every insert is
// committed or the whole scope is rolled back.
type OrderTx interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
	Commit() error
	Rollback() error
}

// OrderStore is the persistence surface the mutation engine writes through.
type OrderStore interface {
	Begin(ctx context.Context) (OrderTx, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// CreateOrderInput is a validated-on-entry order submission.
type CreateOrderInput struct {
	CustomerEmail string
	Items         []OrderItemInput
	TotalAmount   decimal.Decimal
	Currency      string
}

// OrderItemInput is one submitted order line.
type OrderItemInput struct {
	ProductID          string
	Quantity           int
	SelectedAttributes map[string]string
	Price              decimal.Decimal
}

// OrderService is the transactional write path for orders: it validates a
// submission, writes the header and items inside a single transaction, and
// commits or rolls back atomically.
type OrderService struct {
	store     OrderStore
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. The publisher may be nil, in
// which case no events are emitted.
func NewOrderService(store OrderStore, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrder runs one order submission to completion. It always returns a
// typed result: validation and write failures surface as success=false, never
// as a partial write.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) *models.OrderResult {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if msg, ok := validateOrderInput(input); !ok {
		util.OrdersFailedTotal.WithLabelValues("invalid_input").Inc()
		return &models.OrderResult{Success: false, Message: msg}
	}

	start := time.Now()
	defer func() {
		util.OrderWriteLatency.Observe(time.Since(start).Seconds())
	}()

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	order := &models.Order{
		ID:            newOrderID(),
		CustomerEmail: input.CustomerEmail,
		TotalAmount:   input.TotalAmount,
		Currency:      currency,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("begin_failed").Inc()
		return s.failed(ctx, order.ID, fmt.Errorf("failed to open transaction: %w", err))
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		return s.rollback(ctx, tx, order.ID, fmt.Errorf("failed to create order: %w", err))
	}

	for _, item := range input.Items {
		orderItem := &models.OrderItem{
			OrderID:            order.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			SelectedAttributes: item.SelectedAttributes,
			Price:              item.Price,
		}
		if err := tx.InsertOrderItem(ctx, orderItem); err != nil {
			return s.rollback(ctx, tx, order.ID, fmt.Errorf("failed to create order item: %w", err))
		}
		order.Items = append(order.Items, *orderItem)
	}

	if err := tx.Commit(); err != nil {
		return s.rollback(ctx, tx, order.ID, fmt.Errorf("failed to commit order: %w", err))
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)))

	s.publishCreated(ctx, order)

	orderID := order.ID
	return &models.OrderResult{
		Success: true,
		OrderID: &orderID,
		Message: "Order created successfully",
	}
}

// GetOrder retrieves an order with its items by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.store.GetOrder(ctx, id)
}

func (s *OrderService) rollback(ctx context.Context, tx OrderTx, orderID string, cause error) *models.OrderResult {
	if err := tx.Rollback(); err != nil {
		s.logger.Error("Order rollback failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
	util.OrdersFailedTotal.WithLabelValues("write_failed").Inc()
	return s.failed(ctx, orderID, cause)
}

func (s *OrderService) failed(ctx context.Context, orderID string, cause error) *models.OrderResult {
	s.logger.Error("Order creation failed",
		zap.String("order_id", orderID),
		zap.Error(cause))

	s.publishFailed(ctx, orderID, cause.Error())

	return &models.OrderResult{
		Success: false,
		Message: "Failed to create order: " + cause.Error(),
	}
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	items := make([]models.OrderItemData, len(order.Items))
	for i, it := range order.Items {
		items[i] = models.OrderItemData{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		Items:         items,
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func (s *OrderService) publishFailed(ctx context.Context, orderID, reason string) {
	if s.publisher == nil {
		return
	}

	event := &models.OrderFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderFailed,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Reason:  reason,
	}

	if err := s.publisher.PublishOrderFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderFailed event", zap.Error(err))
	}
}

// newOrderID generates a collision-resistant order id. Uniqueness is also
// enforced by the primary key on the orders table.
func newOrderID() string {
	return "order_" + uuid.New().String()
}

// validateOrderInput checks the submission before any transaction is opened.
func validateOrderInput(input *CreateOrderInput) (string, bool) {
	if input.CustomerEmail == "" {
		return "customerEmail is required", false
	}
	if len(input.Items) == 0 {
		return "order must contain at least one item", false
	}
	for i, item := range input.Items {
		if item.ProductID == "" {
			return fmt.Sprintf("items[%d]: productId is required", i), false
		}
		if item.Quantity < 1 {
			return fmt.Sprintf("items[%d]: quantity must be at least 1", i), false
		}
		if item.Price.IsNegative() {
			return fmt.Sprintf("items[%d]: price must not be negative", i), false
		}
	}
	if input.TotalAmount.IsNegative() {
		return "totalAmount must not be negative", false
	}
	return "", true
}
