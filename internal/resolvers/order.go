package resolvers

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/auth"
	"github.com/souqlab/storefront-api/internal/models"
	"github.com/souqlab/storefront-api/internal/query"
	"github.com/souqlab/storefront-api/internal/store"
	"github.com/souqlab/storefront-api/internal/validation"
)

// OrderPage is the result of a paginated order listing.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// Order returns one order. The owner and admins may read it; anyone else
// gets a FORBIDDEN denial.
func (r *Resolver) Order(ctx context.Context, sess *models.Session, id string) (*models.Order, error) {
	if err := auth.RequireSession(sess); err != nil {
		return nil, err
	}
	o, err := r.store.Orders().FindUnique(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order")
	}
	if err := auth.RequireOwner(sess, o.UserID); err != nil {
		return nil, err
	}
	return o, nil
}

// MyOrders lists the session user's own orders, newest first.
func (r *Resolver) MyOrders(ctx context.Context, sess *models.Session) ([]models.Order, error) {
	if err := auth.RequireSession(sess); err != nil {
		return nil, err
	}
	plan := query.Plan{Where: query.Cond{Field: "userId", Op: query.OpEq, Value: sess.UserID}}
	orders, err := r.store.Orders().FindMany(ctx, plan)
	if err != nil {
		return nil, apperr.Translate(err)
	}
	return orders, nil
}

// Orders lists all orders for a validated filter descriptor. Admin only.
func (r *Resolver) Orders(ctx context.Context, sess *models.Session, rawFilters map[string]any) (*OrderPage, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	f, ferrs := validation.ValidateOrderFilters(rawFilters, r.clock.Now())
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}

	plan := query.BuildOrderPlan(f)
	orders, err := r.store.Orders().FindMany(ctx, plan)
	if err != nil {
		return nil, apperr.Translate(err)
	}
	total, err := r.store.Orders().Count(ctx, plan)
	if err != nil {
		return nil, apperr.Translate(err)
	}
	return &OrderPage{Orders: orders, Total: total}, nil
}

// OrdersCount returns the total number of orders. Admin only.
func (r *Resolver) OrdersCount(ctx context.Context, sess *models.Session) (int64, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return 0, err
	}
	n, err := r.store.Orders().Count(ctx, query.Plan{})
	if err != nil {
		return 0, apperr.Translate(err)
	}
	return n, nil
}

// AddOrder places an order atomically: every product is read under a row
// lock, stock is checked per line, the supplied total must equal the
// computed total exactly, and only then are the decrements and the order
// insert staged. Any failure rolls the whole transaction back.
func (r *Resolver) AddOrder(ctx context.Context, sess *models.Session, raw map[string]any) (*models.Order, error) {
	if err := auth.RequireRole(sess, models.RoleCustomer); err != nil {
		return nil, err
	}

	// Empty item lists and malformed totals fail here, before any DB
	// round-trip.
	in, ferrs := validation.ValidateAddOrder(raw)
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}

	now := r.clock.Now()
	var created *models.Order
	touched := make([]string, 0, len(in.Items))

	err := r.store.InTx(ctx, func(tx store.Tx) error {
		computed := decimal.Zero
		lines := make([]models.OrderItem, 0, len(in.Items))

		for _, item := range in.Items {
			p, err := tx.Products().FindUniqueForUpdate(ctx, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.New(apperr.CodeProductNotFound, "Product not found")
			}
			if err != nil {
				return err
			}
			if p.QteInStock < item.Qte {
				return apperr.New(apperr.CodeNotEnoughStock, "Not enough stock")
			}
			computed = computed.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Qte))))
			lines = append(lines, models.OrderItem{ProductID: p.ID, Qte: item.Qte, Price: p.Price})
		}

		// Compared only after every stock check passed, still inside the
		// transaction.
		if !computed.Equal(in.Total) {
			return apperr.New(apperr.CodeTotalPriceMismatch, "Total price does not match")
		}

		for _, item := range in.Items {
			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Qte); err != nil {
				return err
			}
			touched = append(touched, item.ProductID)
		}

		created = &models.Order{
			ID:        uuid.NewString(),
			UserID:    sess.UserID,
			UserName:  sess.Name,
			Status:    models.StatusPending,
			Total:     computed,
			Items:     lines,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Orders().Create(ctx, created)
	})
	if err != nil {
		return nil, apperr.Translate(err)
	}

	r.cache.Invalidate(ctx, touched...)
	r.recordOrderPlaced(ctx, created)
	log.Printf("[ORDER] Order created: order_id=%s, user_id=%s, total=%s, items=%d",
		created.ID, created.UserID, created.Total.String(), len(created.Items))
	return created, nil
}

// UpdateOrder sets an order's status. Admin only.
func (r *Resolver) UpdateOrder(ctx context.Context, sess *models.Session, id string, rawStatus any) (*models.Order, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	status, ferrs := validation.ValidateOrderStatus(rawStatus)
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}
	if err := r.store.Orders().UpdateStatus(ctx, id, status, r.clock.Now()); err != nil {
		return nil, storeErr(err, "Order")
	}
	o, err := r.store.Orders().FindUnique(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order")
	}
	return o, nil
}

// DeleteOrder removes an order record. Admin only; stock is not re-credited.
func (r *Resolver) DeleteOrder(ctx context.Context, sess *models.Session, id string) error {
	if err := auth.RequireAdmin(sess); err != nil {
		return err
	}
	if err := r.store.Orders().Delete(ctx, id); err != nil {
		return storeErr(err, "Order")
	}
	log.Printf("[ORDER] Order deleted: order_id=%s", id)
	return nil
}

func (r *Resolver) recordOrderPlaced(ctx context.Context, o *models.Order) {
	if r.metrics == nil {
		return
	}
	attrs := r.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("order_status", string(o.Status)),
	})
	r.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.metrics.RevenueTotal.Add(ctx, o.Total.InexactFloat64(), metric.WithAttributes(attrs...))
}
