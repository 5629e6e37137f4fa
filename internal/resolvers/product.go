package resolvers

import (
	"context"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/auth"
	"github.com/souqlab/storefront-api/internal/models"
	"github.com/souqlab/storefront-api/internal/query"
	"github.com/souqlab/storefront-api/internal/validation"
)

// ProductPage is the result of a paginated product listing.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// Product returns one product by id, served from the cache when possible.
func (r *Resolver) Product(ctx context.Context, sess *models.Session, id string) (*models.Product, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return nil, err
	}

	if p, ok := r.cache.Get(ctx, id); ok {
		r.recordCache(ctx, true)
		r.recordProductView(ctx, p)
		return p, nil
	}
	r.recordCache(ctx, false)

	p, err := r.store.Products().FindUnique(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	r.cache.Set(ctx, p)
	r.recordProductView(ctx, p)
	return p, nil
}

// PaginatedProducts lists products for a validated filter descriptor.
// Filtering or sorting without pagination is a validation failure.
func (r *Resolver) PaginatedProducts(ctx context.Context, sess *models.Session, rawFilters map[string]any) (*ProductPage, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return nil, err
	}

	f, ferrs := validation.ValidateProductFilters(rawFilters, r.clock.Now())
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}

	plan := query.BuildProductPlan(f)
	products, err := r.store.Products().FindMany(ctx, plan)
	if err != nil {
		return nil, apperr.Translate(err)
	}
	total, err := r.store.Products().Count(ctx, plan)
	if err != nil {
		return nil, apperr.Translate(err)
	}
	return &ProductPage{Products: products, Total: total}, nil
}

// InfiniteProducts lists products with an explicit offset window, for
// infinite-scroll clients that manage their own pagination. The window
// values arrive untyped and coerce like every other numeric input.
func (r *Resolver) InfiniteProducts(ctx context.Context, sess *models.Session, rawLimit, rawOffset any, rawFilters map[string]any) ([]models.Product, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return nil, err
	}
	limit, offset, ferrs := validation.ValidateWindow(rawLimit, rawOffset)
	f, fieldErrs := validation.ValidateProductFilterFields(rawFilters, r.clock.Now())
	ferrs = append(ferrs, fieldErrs...)
	if len(ferrs) > 0 {
		return nil, apperr.Validation(ferrs)
	}

	products, err := r.store.Products().FindMany(ctx, query.BuildProductPlan(f).Window(offset, limit))
	if err != nil {
		return nil, apperr.Translate(err)
	}
	return products, nil
}

// ProductsCount returns the total catalog size.
func (r *Resolver) ProductsCount(ctx context.Context, sess *models.Session) (int64, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return 0, err
	}
	n, err := r.store.Products().Count(ctx, query.Plan{})
	if err != nil {
		return 0, apperr.Translate(err)
	}
	return n, nil
}

// AvailableProductsCount counts products with stock remaining.
func (r *Resolver) AvailableProductsCount(ctx context.Context, sess *models.Session) (int64, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return 0, err
	}
	plan := query.Plan{Where: query.Cond{Field: "qteInStock", Op: query.OpGt, Value: 0}}
	n, err := r.store.Products().Count(ctx, plan)
	if err != nil {
		return 0, apperr.Translate(err)
	}
	return n, nil
}

// FilteredProductsCount counts products matching a filter descriptor.
// Counting needs no pagination window, so only the filter fields validate.
func (r *Resolver) FilteredProductsCount(ctx context.Context, sess *models.Session, rawFilters map[string]any) (int64, error) {
	if err := auth.RequireRole(sess, models.RoleAdmin, models.RoleCustomer); err != nil {
		return 0, err
	}
	f, ferrs := validation.ValidateProductFilterFields(rawFilters, r.clock.Now())
	if ferrs != nil {
		return 0, apperr.Validation(ferrs)
	}
	n, err := r.store.Products().Count(ctx, query.BuildProductPlan(f))
	if err != nil {
		return 0, apperr.Translate(err)
	}
	return n, nil
}

// AddNewProduct creates a product. Admin only.
func (r *Resolver) AddNewProduct(ctx context.Context, sess *models.Session, raw map[string]any) (*models.Product, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	in, ferrs := validation.ValidateAddProduct(raw)
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}

	now := r.clock.Now()
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		QteInStock:  in.QteInStock,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.store.Products().Create(ctx, p); err != nil {
		return nil, apperr.Translate(err)
	}
	r.recordStockLevel(ctx, p)
	log.Printf("[PRODUCT] Created product %s (%s)", p.ID, p.Name)
	return p, nil
}

// UpdateProduct replaces a product's attributes. Admin only.
func (r *Resolver) UpdateProduct(ctx context.Context, sess *models.Session, id string, raw map[string]any) (*models.Product, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	in, ferrs := validation.ValidateUpdateProduct(raw)
	if ferrs != nil {
		return nil, apperr.Validation(ferrs)
	}

	p := &models.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		QteInStock:  in.QteInStock,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
		UpdatedAt:   r.clock.Now(),
	}
	if err := r.store.Products().Update(ctx, p); err != nil {
		return nil, storeErr(err, "Product")
	}
	r.cache.Invalidate(ctx, id)
	r.recordStockLevel(ctx, p)

	updated, err := r.store.Products().FindUnique(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	return updated, nil
}

func (r *Resolver) recordCache(ctx context.Context, hit bool) {
	if r.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(r.metrics.WithServiceName(nil)...)
	if hit {
		r.metrics.CacheHits.Add(ctx, 1, attrs)
	} else {
		r.metrics.CacheMisses.Add(ctx, 1, attrs)
	}
}

func (r *Resolver) recordProductView(ctx context.Context, p *models.Product) {
	if r.metrics == nil {
		return
	}
	attrs := r.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("product_id", p.ID),
	})
	r.metrics.ProductsViewed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (r *Resolver) recordStockLevel(ctx context.Context, p *models.Product) {
	if r.metrics == nil {
		return
	}
	attrs := r.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("product_id", p.ID),
	})
	r.metrics.StockLevel.Record(ctx, int64(p.QteInStock), metric.WithAttributes(attrs...))
}
