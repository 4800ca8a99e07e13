package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Only the initial state is assigned by this service; later
// transitions belong to downstream fulfillment.
const (
	OrderStatusPending = "pending"
)

// Order is a customer order header with its line items.
type Order struct {
	ID            string          `db:"id" json:"id"`
	CustomerEmail string          `db:"customer_email" json:"customerEmail"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Currency      string          `db:"currency" json:"currency"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	Items         []OrderItem     `db:"-" json:"items"`
}

// OrderItem is one line of an order. SelectedAttributes maps attribute set id
// to the chosen item id and is persisted as a JSON blob.
type OrderItem struct {
	OrderID            string            `db:"order_id" json:"-"`
	ProductID          string            `db:"product_id" json:"productId"`
	Quantity           int               `db:"quantity" json:"quantity"`
	SelectedAttributes map[string]string `db:"-" json:"selectedAttributes"`
	Price              decimal.Decimal   `db:"price" json:"price"`
}

// OrderResult is the typed outcome of an order mutation.
type OrderResult struct {
	Success bool    `json:"success"`
	OrderID *string `json:"orderId"`
	Message string  `json:"message"`
}
