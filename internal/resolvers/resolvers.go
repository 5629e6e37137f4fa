// Package resolvers implements the storefront operation surface. Every
// operation follows the same sequence: authorization gate, input validation,
// then query building or the order transaction. Denied or invalid requests
// never reach the store.
package resolvers

import (
	"errors"
	"time"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/cache"
	"github.com/souqlab/storefront-api/internal/metrics"
	"github.com/souqlab/storefront-api/internal/store"
)

// Clock supplies the current time; substitutable in tests and used for
// future-date validation and record timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Resolver carries the explicit dependency bundle shared by all operations.
type Resolver struct {
	store   store.Store
	cache   *cache.ProductCache
	metrics *metrics.AppMetrics
	clock   Clock
}

// New builds a resolver. cache and m may be nil (caching and metrics are
// then skipped); clock defaults to the system clock.
func New(st store.Store, c *cache.ProductCache, m *metrics.AppMetrics, clk Clock) *Resolver {
	if clk == nil {
		clk = SystemClock()
	}
	return &Resolver{store: st, cache: c, metrics: m, clock: clk}
}

// storeErr maps a persistence failure to a structured error, naming the
// resource for the not-found case.
func storeErr(err error, resource string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Translate(err)
}
