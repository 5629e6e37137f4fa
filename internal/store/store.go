// Package store defines the persistence client consumed by the resolvers
// and its MySQL implementation. Resolvers depend only on the interfaces;
// tests substitute fakes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/souqlab/storefront-api/internal/models"
	"github.com/souqlab/storefront-api/internal/query"
)

// ErrNotFound is returned when a uniquely addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductStore is the read/write surface for products outside transactions.
type ProductStore interface {
	FindUnique(ctx context.Context, id string) (*models.Product, error)
	FindMany(ctx context.Context, plan query.Plan) ([]models.Product, error)
	Count(ctx context.Context, plan query.Plan) (int64, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
}

// OrderStore is the read/write surface for orders outside transactions.
type OrderStore interface {
	FindUnique(ctx context.Context, id string) (*models.Order, error)
	FindMany(ctx context.Context, plan query.Plan) ([]models.Order, error)
	Count(ctx context.Context, plan query.Plan) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// ProductTx is the product surface inside an open transaction.
type ProductTx interface {
	// FindUniqueForUpdate reads a product under a row lock so a concurrent
	// order placement cannot oversell the same stock.
	FindUniqueForUpdate(ctx context.Context, id string) (*models.Product, error)
	DecrementStock(ctx context.Context, id string, qte int) error
}

// OrderTx is the order surface inside an open transaction.
type OrderTx interface {
	Create(ctx context.Context, o *models.Order) error
}

// Tx scopes all writes of one atomic unit.
type Tx interface {
	Products() ProductTx
	Orders() OrderTx
}

// Store is the persistence client handed to the resolvers.
type Store interface {
	Products() ProductStore
	Orders() OrderStore
	// InTx runs fn inside one database transaction. A non-nil error from fn
	// rolls back every staged write.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
