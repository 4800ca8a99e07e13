package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

type fakeTx struct {
	order      *models.Order
	items      []*models.OrderItem
	committed  bool
	rolledBack bool

	insertOrderErr error
	// fails the nth item insert (1-based), 0 disables
	failItemAt int
	commitErr  error
}

func (tx *fakeTx) InsertOrder(_ context.Context, order *models.Order) error {
	if tx.insertOrderErr != nil {
		return tx.insertOrderErr
	}
	tx.order = order
	return nil
}

func (tx *fakeTx) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	if tx.failItemAt > 0 && len(tx.items)+1 == tx.failItemAt {
		return errors.New("insert failed")
	}
	tx.items = append(tx.items, item)
	return nil
}

func (tx *fakeTx) Commit() error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

type fakeOrderStore struct {
	mu       sync.Mutex
	tx       *fakeTx
	beginErr error
	begun    int
}

func (s *fakeOrderStore) Begin(_ context.Context) (OrderTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begun++
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	if s.tx == nil {
		s.tx = &fakeTx{}
	}
	return s.tx, nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	return nil, errors.New("order not found: " + id)
}

func validInput() *CreateOrderInput {
	return &CreateOrderInput{
		CustomerEmail: "jane@example.com",
		TotalAmount:   decimal.NewFromFloat(149.90),
		Items: []OrderItemInput{
			{
				ProductID:          "huarache-x",
				Quantity:           1,
				Price:              decimal.NewFromFloat(144.69),
				SelectedAttributes: map[string]string{"Size": "41"},
			},
			{
				ProductID: "jacket-canada",
				Quantity:  2,
				Price:     decimal.NewFromFloat(2.60),
			},
		},
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewOrderService(store, nil)

	result := svc.CreateOrder(context.Background(), validInput())

	require.True(t, result.Success)
	require.NotNil(t, result.OrderID)
	assert.True(t, strings.HasPrefix(*result.OrderID, "order_"))

	tx := store.tx
	require.NotNil(t, tx)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	require.NotNil(t, tx.order)
	assert.Equal(t, *result.OrderID, tx.order.ID)
	assert.Equal(t, models.OrderStatusPending, tx.order.Status)
	assert.Equal(t, "USD", tx.order.Currency)

	require.Len(t, tx.items, 2)
	assert.Equal(t, tx.order.ID, tx.items[0].OrderID)
	assert.Equal(t, "huarache-x", tx.items[0].ProductID)
	assert.Equal(t, map[string]string{"Size": "41"}, tx.items[0].SelectedAttributes)
}

func TestCreateOrderKeepsExplicitCurrency(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewOrderService(store, nil)

	input := validInput()
	input.Currency = "EUR"

	result := svc.CreateOrder(context.Background(), input)

	require.True(t, result.Success)
	assert.Equal(t, "EUR", store.tx.order.Currency)
}

func TestCreateOrderValidationSkipsTransaction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateOrderInput)
		message string
	}{
		{
			name:    "missing email",
			mutate:  func(in *CreateOrderInput) { in.CustomerEmail = "" },
			message: "customerEmail is required",
		},
		{
			name:    "no items",
			mutate:  func(in *CreateOrderInput) { in.Items = nil },
			message: "order must contain at least one item",
		},
		{
			name:    "missing product id",
			mutate:  func(in *CreateOrderInput) { in.Items[1].ProductID = "" },
			message: "items[1]: productId is required",
		},
		{
			name:    "zero quantity",
			mutate:  func(in *CreateOrderInput) { in.Items[0].Quantity = 0 },
			message: "items[0]: quantity must be at least 1",
		},
		{
			name:    "negative price",
			mutate:  func(in *CreateOrderInput) { in.Items[0].Price = decimal.NewFromInt(-1) },
			message: "items[0]: price must not be negative",
		},
		{
			name:    "negative total",
			mutate:  func(in *CreateOrderInput) { in.TotalAmount = decimal.NewFromInt(-5) },
			message: "totalAmount must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeOrderStore{}
			svc := NewOrderService(store, nil)

			input := validInput()
			tt.mutate(input)

			result := svc.CreateOrder(context.Background(), input)

			assert.False(t, result.Success)
			assert.Nil(t, result.OrderID)
			assert.Equal(t, tt.message, result.Message)
			assert.Zero(t, store.begun, "no transaction should be opened for invalid input")
		})
	}
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	store := &fakeOrderStore{tx: &fakeTx{failItemAt: 2}}
	svc := NewOrderService(store, nil)

	result := svc.CreateOrder(context.Background(), validInput())

	assert.False(t, result.Success)
	assert.Nil(t, result.OrderID)
	assert.True(t, store.tx.rolledBack)
	assert.False(t, store.tx.committed)
}

func TestCreateOrderRollsBackOnCommitFailure(t *testing.T) {
	store := &fakeOrderStore{tx: &fakeTx{commitErr: errors.New("commit failed")}}
	svc := NewOrderService(store, nil)

	result := svc.CreateOrder(context.Background(), validInput())

	assert.False(t, result.Success)
	assert.True(t, store.tx.rolledBack)
}

func TestCreateOrderBeginFailure(t *testing.T) {
	store := &fakeOrderStore{beginErr: errors.New("connection refused")}
	svc := NewOrderService(store, nil)

	result := svc.CreateOrder(context.Background(), validInput())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Failed to create order")
}

func TestConcurrentCreatesGetUniqueIDs(t *testing.T) {
	const n = 20

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := NewOrderService(&fakeOrderStore{}, nil)
			result := svc.CreateOrder(context.Background(), validInput())
			if result.Success {
				ids <- *result.OrderID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
