package domain

import "time"

// Order status values. The only legal transitions are
// PENDING -> PAID and PENDING -> FAILED; terminal states never change.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)

type Order struct {
	OrderID   string    `json:"id" dynamodbav:"order_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Amount    int64     `json:"amount" dynamodbav:"amount"` // currency units, immutable after creation
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Terminal reports whether the order status admits no further transition.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFailed
}

type CreateOrderRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
