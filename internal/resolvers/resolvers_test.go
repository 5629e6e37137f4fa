package resolvers

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/metrics"
	"github.com/souqlab/storefront-api/internal/models"
	"github.com/souqlab/storefront-api/internal/query"
	"github.com/souqlab/storefront-api/internal/store"
	"github.com/souqlab/storefront-api/internal/validation"
)

var frozenNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return frozenNow }

// fakeStore is an in-memory store.Store that counts every persistence call,
// so tests can assert that denied or invalid requests never touch it.
type fakeStore struct {
	products map[string]*models.Product
	orders   map[string]*models.Order

	calls   int
	txCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*models.Product{},
		orders:   map[string]*models.Order{},
	}
}

func (s *fakeStore) Products() store.ProductStore { return &fakeProducts{s} }
func (s *fakeStore) Orders() store.OrderStore     { return &fakeOrders{s} }

func (s *fakeStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.txCalls++
	tx := &fakeTx{
		store:  s,
		stocks: map[string]int{},
	}
	for id, p := range s.products {
		tx.stocks[id] = p.QteInStock
	}
	if err := fn(tx); err != nil {
		return err
	}
	for id, qte := range tx.stocks {
		s.products[id].QteInStock = qte
	}
	for i := range tx.created {
		o := tx.created[i]
		s.orders[o.ID] = &o
	}
	return nil
}

type fakeProducts struct{ s *fakeStore }

func (f *fakeProducts) FindUnique(ctx context.Context, id string) (*models.Product, error) {
	f.s.calls++
	p, ok := f.s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) FindMany(ctx context.Context, plan query.Plan) ([]models.Product, error) {
	f.s.calls++
	out := make([]models.Product, 0, len(f.s.products))
	for _, p := range f.s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) Count(ctx context.Context, plan query.Plan) (int64, error) {
	f.s.calls++
	if cond, ok := plan.Where.(query.Cond); ok &&
		cond.Field == "qteInStock" && cond.Op == query.OpGt {
		var n int64
		for _, p := range f.s.products {
			if p.QteInStock > cond.Value.(int) {
				n++
			}
		}
		return n, nil
	}
	return int64(len(f.s.products)), nil
}

func (f *fakeProducts) Create(ctx context.Context, p *models.Product) error {
	f.s.calls++
	cp := *p
	f.s.products[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p *models.Product) error {
	f.s.calls++
	existing, ok := f.s.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cp := *p
	cp.CreatedAt = existing.CreatedAt
	f.s.products[p.ID] = &cp
	return nil
}

type fakeOrders struct{ s *fakeStore }

func (f *fakeOrders) FindUnique(ctx context.Context, id string) (*models.Order, error) {
	f.s.calls++
	o, ok := f.s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) FindMany(ctx context.Context, plan query.Plan) ([]models.Order, error) {
	f.s.calls++
	var userID string
	if cond, ok := plan.Where.(query.Cond); ok && cond.Field == "userId" {
		userID = cond.Value.(string)
	}
	out := make([]models.Order, 0, len(f.s.orders))
	for _, o := range f.s.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrders) Count(ctx context.Context, plan query.Plan) (int64, error) {
	f.s.calls++
	return int64(len(f.s.orders)), nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, now time.Time) error {
	f.s.calls++
	o, ok := f.s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, id string) error {
	f.s.calls++
	if _, ok := f.s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.s.orders, id)
	return nil
}

// fakeTx stages stock changes and order inserts; InTx applies them only when
// the callback succeeds, mirroring the rollback-on-error contract.
type fakeTx struct {
	store   *fakeStore
	stocks  map[string]int
	created []models.Order
}

func (t *fakeTx) Products() store.ProductTx { return &fakeProductTx{t} }
func (t *fakeTx) Orders() store.OrderTx     { return &fakeOrderTx{t} }

type fakeProductTx struct{ tx *fakeTx }

func (f *fakeProductTx) FindUniqueForUpdate(ctx context.Context, id string) (*models.Product, error) {
	f.tx.store.calls++
	p, ok := f.tx.store.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductTx) DecrementStock(ctx context.Context, id string, qte int) error {
	f.tx.store.calls++
	if f.tx.stocks[id] < qte {
		return apperr.New(apperr.CodeNotEnoughStock, "Not enough stock")
	}
	f.tx.stocks[id] -= qte
	return nil
}

type fakeOrderTx struct{ tx *fakeTx }

func (f *fakeOrderTx) Create(ctx context.Context, o *models.Order) error {
	f.tx.store.calls++
	f.tx.created = append(f.tx.created, *o)
	return nil
}

func adminSession() *models.Session {
	return &models.Session{UserID: "admin-1", Name: "Alex", Role: models.RoleAdmin}
}

func customerSession() *models.Session {
	return &models.Session{UserID: "cust-1", Name: "Marie", Role: models.RoleCustomer}
}

func seedProduct(s *fakeStore, id string, price string, stock int) {
	s.products[id] = &models.Product{
		ID:         id,
		Name:       "Product " + id,
		Price:      decimal.RequireFromString(price),
		QteInStock: stock,
		CreatedAt:  frozenNow.Add(-24 * time.Hour),
		UpdatedAt:  frozenNow.Add(-24 * time.Hour),
	}
}

func seedOrder(s *fakeStore, id, userID string) {
	s.orders[id] = &models.Order{
		ID:     id,
		UserID: userID,
		Status: models.StatusPending,
		Total:  decimal.RequireFromString("10.00"),
	}
}

func newTestResolver(s *fakeStore) *Resolver {
	return New(s, nil, nil, fixedClock{})
}

func requireCode(t *testing.T, err error, code apperr.Code) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	e := apperr.As(err)
	require.NotNil(t, e, "expected a structured error, got %v", err)
	assert.Equal(t, code, e.Code)
	return e
}

func TestProduct_ReturnsRecord(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	p, err := r.Product(context.Background(), customerSession(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("25.50")))
}

func TestProduct_NotFound(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.Product(context.Background(), customerSession(), "missing")
	e := requireCode(t, err, apperr.CodeNotFound)
	assert.Equal(t, "Product not found", e.Message)
}

func TestProduct_DeniedBeforeStore(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	_, err := r.Product(context.Background(), nil, "p1")
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)
}

func TestPaginatedProducts_FilteringWithoutPagination(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	_, err := r.PaginatedProducts(context.Background(), customerSession(),
		map[string]any{"searchQuery": "test", "stock": "In Stock"})

	e := requireCode(t, err, apperr.CodeValidationFailed)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "pagination", e.Fields[0].Field)
	assert.Zero(t, s.calls)
}

func TestPaginatedProducts_ReturnsPage(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	seedProduct(s, "p2", "9.90", 0)
	r := newTestResolver(s)

	page, err := r.PaginatedProducts(context.Background(), customerSession(),
		map[string]any{"currentPage": "1", "limit": "10"})

	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestInfiniteProducts_WindowValidation(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.InfiniteProducts(context.Background(), customerSession(), 0, -1, nil)

	e := requireCode(t, err, apperr.CodeValidationFailed)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "limit must be a positive integer", e.Fields[0].Message)
	assert.Equal(t, "offset cannot be negative", e.Fields[1].Message)
	assert.Zero(t, s.calls)
}

func TestInfiniteProducts_NonNumericWindow(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.InfiniteProducts(context.Background(), customerSession(), "abc", "xyz", nil)

	e := requireCode(t, err, apperr.CodeValidationFailed)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "limit is required as number", e.Fields[0].Message)
	assert.Equal(t, "offset is required as number", e.Fields[1].Message)
	assert.Zero(t, s.calls)
}

func TestInfiniteProducts_MissingLimit(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	// Offset is optional the way limit is not.
	_, err := r.InfiniteProducts(context.Background(), customerSession(), nil, nil, nil)

	e := requireCode(t, err, apperr.CodeValidationFailed)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "limit is required as number", e.Fields[0].Message)
}

func TestInfiniteProducts_CoercesNumericStrings(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	products, err := r.InfiniteProducts(context.Background(), customerSession(), "5", "0", nil)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestInfiniteProducts_FiltersWithoutPaginationAllowed(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	products, err := r.InfiniteProducts(context.Background(), customerSession(), 5, 0,
		map[string]any{"stock": "In Stock"})

	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAvailableProductsCount_ExcludesOutOfStock(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	seedProduct(s, "p2", "9.90", 0)
	seedProduct(s, "p3", "3.20", 1)
	r := newTestResolver(s)

	n, err := r.AvailableProductsCount(context.Background(), customerSession())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFilteredProductsCount_NoPaginationRequired(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	n, err := r.FilteredProductsCount(context.Background(), customerSession(),
		map[string]any{"searchQuery": "test", "stock": "In Stock"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAddNewProduct_AdminOnly(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.AddNewProduct(context.Background(), customerSession(), map[string]any{
		"name": "Clavier", "price": 25.50, "qteInStock": 10,
	})
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)
}

func TestAddNewProduct_CreatesWithTimestamps(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	p, err := r.AddNewProduct(context.Background(), adminSession(), map[string]any{
		"name": "Clavier", "price": 25.50, "qteInStock": 10,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, frozenNow, p.CreatedAt)
	assert.Equal(t, frozenNow, p.UpdatedAt)
	assert.Contains(t, s.products, p.ID)
}

func TestAddNewProduct_InvalidPayload(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.AddNewProduct(context.Background(), adminSession(), map[string]any{
		"name": "ab", "price": -1, "qteInStock": 10.5,
	})

	e := requireCode(t, err, apperr.CodeValidationFailed)
	assert.Len(t, e.Fields, 3)
	assert.Zero(t, s.calls)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.UpdateProduct(context.Background(), adminSession(), "missing", map[string]any{
		"name": "Clavier", "price": 25.50, "qteInStock": 0,
	})
	requireCode(t, err, apperr.CodeNotFound)
}

func TestUpdateProduct_AllowsZeroStock(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	p, err := r.UpdateProduct(context.Background(), adminSession(), "p1", map[string]any{
		"name": "Clavier", "price": 25.50, "qteInStock": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p.QteInStock)
}

func TestOrder_OwnerReads(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	o, err := r.Order(context.Background(), customerSession(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestOrder_NonOwnerForbidden(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-2")
	r := newTestResolver(s)

	_, err := r.Order(context.Background(), customerSession(), "o1")
	requireCode(t, err, apperr.CodeForbidden)
}

func TestOrder_AdminReadsAny(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-2")
	r := newTestResolver(s)

	o, err := r.Order(context.Background(), adminSession(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestOrder_AnonymousDeniedBeforeStore(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	_, err := r.Order(context.Background(), nil, "o1")
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)
}

func TestMyOrders_FiltersByOwner(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	seedOrder(s, "o2", "cust-2")
	seedOrder(s, "o3", "cust-1")
	r := newTestResolver(s)

	orders, err := r.MyOrders(context.Background(), customerSession())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "cust-1", o.UserID)
	}
}

func TestOrders_AdminOnly(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	_, err := r.Orders(context.Background(), customerSession(), nil)
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)

	page, err := r.Orders(context.Background(), adminSession(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestOrdersCount_AdminOnly(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	_, err := r.OrdersCount(context.Background(), customerSession())
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)

	n, err := r.OrdersCount(context.Background(), adminSession())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAddOrder_Success(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	o, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{map[string]any{"productId": "p1", "qte": 1}},
		"total": 25.50,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, "cust-1", o.UserID)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("25.50")))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ProductID)

	assert.Equal(t, 9, s.products["p1"].QteInStock)
	assert.Contains(t, s.orders, o.ID)
}

func TestAddOrder_TotalMismatchLeavesStockUnchanged(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	_, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{map[string]any{"productId": "p1", "qte": 1}},
		"total": 20.00,
	})

	e := requireCode(t, err, apperr.CodeTotalPriceMismatch)
	assert.Equal(t, "Total price does not match", e.Message)
	assert.Equal(t, 10, s.products["p1"].QteInStock)
	assert.Empty(t, s.orders)
}

func TestAddOrder_EmptyItemsRejectedBeforeTransaction(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{},
		"total": 10.00,
	})

	e := requireCode(t, err, apperr.CodeValidationFailed)
	assert.Equal(t, validation.ErrNoSelectedProduct, e.Message)
	assert.Zero(t, s.txCalls)
	assert.Zero(t, s.calls)
}

func TestAddOrder_UnknownProduct(t *testing.T) {
	s := newFakeStore()
	r := newTestResolver(s)

	_, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{map[string]any{"productId": "ghost", "qte": 1}},
		"total": 10.00,
	})

	e := requireCode(t, err, apperr.CodeProductNotFound)
	assert.Equal(t, "Product not found", e.Message)
	assert.Empty(t, s.orders)
}

func TestAddOrder_NotEnoughStock(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "10.00", 2)
	r := newTestResolver(s)

	_, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{map[string]any{"productId": "p1", "qte": 3}},
		"total": 30.00,
	})

	e := requireCode(t, err, apperr.CodeNotEnoughStock)
	assert.Equal(t, "Not enough stock", e.Message)
	assert.Equal(t, 2, s.products["p1"].QteInStock)
	assert.Empty(t, s.orders)
}

func TestAddOrder_DuplicateLinesShareStock(t *testing.T) {
	// Each line passes its own stock check against the committed quantity,
	// but the decrement guard rejects the second line's overdraw and the
	// whole transaction rolls back.
	s := newFakeStore()
	seedProduct(s, "p1", "10.00", 5)
	r := newTestResolver(s)

	_, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{
			map[string]any{"productId": "p1", "qte": 3},
			map[string]any{"productId": "p1", "qte": 3},
		},
		"total": 60.00,
	})

	e := requireCode(t, err, apperr.CodeNotEnoughStock)
	assert.Equal(t, "Not enough stock", e.Message)
	assert.Equal(t, 5, s.products["p1"].QteInStock)
	assert.Empty(t, s.orders)
}

func TestAddOrder_RecordsPlacementMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	m := &metrics.AppMetrics{}
	var err error
	m.OrdersCreated, err = meter.Int64Counter("orders_created_total")
	require.NoError(t, err)
	m.RevenueTotal, err = meter.Float64Counter("revenue_total")
	require.NoError(t, err)

	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := New(s, nil, m, fixedClock{})

	o, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{map[string]any{"productId": "p1", "qte": 2}},
		"total": 51.00,
	})

	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("51")))
	assert.Equal(t, 8, s.products["p1"].QteInStock)
}

func TestAddOrder_DuplicateLinesWithinStock(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "10.00", 5)
	r := newTestResolver(s)

	o, err := r.AddOrder(context.Background(), customerSession(), map[string]any{
		"items": []any{
			map[string]any{"productId": "p1", "qte": 3},
			map[string]any{"productId": "p1", "qte": 2},
		},
		"total": 50.00,
	})

	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 0, s.products["p1"].QteInStock)
}

func TestAddOrder_CustomerOnly(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, "p1", "25.50", 10)
	r := newTestResolver(s)

	for _, sess := range []*models.Session{nil, adminSession()} {
		_, err := r.AddOrder(context.Background(), sess, map[string]any{
			"items": []any{map[string]any{"productId": "p1", "qte": 1}},
			"total": 25.50,
		})
		requireCode(t, err, apperr.CodeUnauthorized)
	}
	assert.Zero(t, s.calls)
	assert.Zero(t, s.txCalls)
}

func TestUpdateOrder_SetsStatus(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	o, err := r.UpdateOrder(context.Background(), adminSession(), "o1", "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, o.Status)
	assert.Equal(t, frozenNow, o.UpdatedAt)
}

func TestUpdateOrder_InvalidStatus(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	_, err := r.UpdateOrder(context.Background(), adminSession(), "o1", "EATEN")
	requireCode(t, err, apperr.CodeValidationFailed)
	assert.Zero(t, s.calls)
}

func TestUpdateOrder_AdminOnly(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	_, err := r.UpdateOrder(context.Background(), customerSession(), "o1", "SHIPPED")
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)
}

func TestDeleteOrder(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	require.NoError(t, r.DeleteOrder(context.Background(), adminSession(), "o1"))
	assert.Empty(t, s.orders)

	err := r.DeleteOrder(context.Background(), adminSession(), "o1")
	requireCode(t, err, apperr.CodeNotFound)
}

func TestDeleteOrder_AdminOnly(t *testing.T) {
	s := newFakeStore()
	seedOrder(s, "o1", "cust-1")
	r := newTestResolver(s)

	err := r.DeleteOrder(context.Background(), customerSession(), "o1")
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.Zero(t, s.calls)
	assert.Contains(t, s.orders, "o1")
}
