package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// QteInStock never goes negative; the order placement transaction is the
// only writer allowed to decrement it.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	QteInStock  int             `json:"qteInStock" db:"qte_in_stock"`
	CategoryID  *string         `json:"categoryId,omitempty" db:"category_id"`
	Images      []string        `json:"images,omitempty" db:"-"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusReturned  OrderStatus = "RETURNED"
)

// OrderStatuses lists every valid status in declaration order.
var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusShipped,
	StatusDelivered, StatusCancelled, StatusReturned,
}

// ParseOrderStatus normalizes a status token to uppercase and reports
// whether it names a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	up := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == up {
			return st, true
		}
	}
	return "", false
}

// Order represents a placed order. Total is immutable after creation and
// equals the sum of item price*qte at creation time.
type Order struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	UserName  string          `json:"userName,omitempty" db:"user_name"`
	Status    OrderStatus     `json:"status" db:"status"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Items     []OrderItem     `json:"items" db:"-"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one line of an order. Duplicate product references stay
// independent lines, never merged.
type OrderItem struct {
	ProductID string          `json:"productId" db:"product_id"`
	Qte       int             `json:"qte" db:"qte"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// Role is the access level carried by a session.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// Session is the per-request identity injected by the auth edge.
// Read-only input to authorization checks; not owned by this service.
type Session struct {
	UserID string
	Name   string
	Role   Role
}
