package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
	"catalog-service/internal/service"
)

// OrderTx is one order write transaction over the relational store.
type OrderTx struct {
	tx *sqlx.Tx
}

// Begin opens the transaction scope for one order creation.
func (s *Store) Begin(ctx context.Context) (service.OrderTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &OrderTx{tx: tx}, nil
}

// InsertOrder writes the order header row.
func (t *OrderTx) InsertOrder(ctx context.Context, order *models.Order) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_email, total_amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.CustomerEmail, order.TotalAmount, order.Currency, order.Status, order.CreatedAt)
	return err
}

// InsertOrderItem writes one line item, serializing the attribute selection
// as a JSON blob.
func (t *OrderTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	selected, err := json.Marshal(item.SelectedAttributes)
	if err != nil {
		return fmt.Errorf("failed to serialize selected attributes: %w", err)
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, selected_attributes, price)
		 VALUES ($1, $2, $3, $4, $5)`,
		item.OrderID, item.ProductID, item.Quantity, selected, item.Price)
	return err
}

func (t *OrderTx) Commit() error {
	return t.tx.Commit()
}

func (t *OrderTx) Rollback() error {
	return t.tx.Rollback()
}

type orderItemRow struct {
	OrderID            string          `db:"order_id"`
	ProductID          string          `db:"product_id"`
	Quantity           int             `db:"quantity"`
	SelectedAttributes []byte          `db:"selected_attributes"`
	Price              decimal.Decimal `db:"price"`
}

// GetOrder retrieves an order header with its items by ID
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT id, customer_email, total_amount, currency, status, created_at FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var rows []orderItemRow
	err = s.db.SelectContext(ctx, &rows,
		"SELECT order_id, product_id, quantity, selected_attributes, price FROM order_items WHERE order_id = $1", id)
	if err != nil {
		return nil, err
	}

	order.Items = make([]models.OrderItem, len(rows))
	for i, r := range rows {
		item, err := rowToOrderItem(r)
		if err != nil {
			return nil, err
		}
		order.Items[i] = item
	}
	return &order, nil
}

func rowToOrderItem(r orderItemRow) (models.OrderItem, error) {
	item := models.OrderItem{
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}

	if len(r.SelectedAttributes) > 0 {
		if err := json.Unmarshal(r.SelectedAttributes, &item.SelectedAttributes); err != nil {
			return models.OrderItem{}, fmt.Errorf("failed to decode selected attributes: %w", err)
		}
	}

	item.Price = r.Price
	return item, nil
}
