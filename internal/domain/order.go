package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of order states. The update endpoint permits
// a direct overwrite to any of the four values; no transition graph is
// enforced.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the defined statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is the closed set of payment methods.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
)

// ValidPaymentMethod reports whether m is one of the defined methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCard || m == PaymentPaypal
}

// OrderItem is a line item: a product reference and a quantity. Product
// references are unique within one order. Unit prices are not stored here;
// line totals are recomputed from the current product price on every read.
type OrderItem struct {
	ProductID int64
	Qty       int
}

// Order is created with its items frozen; only the status is mutable
// afterwards.
type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Status        OrderStatus
	CreatedAt     time.Time
	PaymentMethod PaymentMethod
	Notes         string
	Items         []OrderItem
}
