package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/db"
	"github.com/souqlab/storefront-api/internal/metrics"
	"github.com/souqlab/storefront-api/internal/models"
	"github.com/souqlab/storefront-api/internal/query"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQL implements Store on the instrumented MySQL pool.
type MySQL struct {
	db      *db.DB
	metrics *metrics.AppMetrics
}

func NewMySQL(database *db.DB, m *metrics.AppMetrics) *MySQL {
	return &MySQL{db: database, metrics: m}
}

func (s *MySQL) Products() ProductStore {
	return &productStore{q: s.db.DB, m: s.metrics}
}

func (s *MySQL) Orders() OrderStore {
	return &orderStore{q: s.db.DB, m: s.metrics}
}

// InTx runs fn in one transaction; any error from fn rolls everything back.
func (s *MySQL) InTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&mysqlTx{tx: sqlTx, m: s.metrics}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type mysqlTx struct {
	tx *sql.Tx
	m  *metrics.AppMetrics
}

func (t *mysqlTx) Products() ProductTx { return &productTx{q: t.tx, m: t.m} }
func (t *mysqlTx) Orders() OrderTx     { return &orderTx{q: t.tx, m: t.m} }

func record(m *metrics.AppMetrics, ctx context.Context, op, table, stmt string, start time.Time, ok bool) {
	if m != nil {
		m.RecordDBQuery(ctx, op, table, stmt, start, ok)
	}
}

// ---- products ----

type productStore struct {
	q dbtx
	m *metrics.AppMetrics
}

const productSelect = `SELECT p.id, p.name, p.description, p.price, p.qte_in_stock, p.category_id, p.created_at, p.updated_at FROM products p`

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	var p models.Product
	var category sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.QteInStock, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if category.Valid {
		p.CategoryID = &category.String
	}
	return &p, nil
}

func (s *productStore) FindUnique(ctx context.Context, id string) (*models.Product, error) {
	start := time.Now()
	q := productSelect + " WHERE p.id = ?"
	p, err := scanProduct(s.q.QueryRowContext(ctx, q, id))
	record(s.m, ctx, "SELECT", "products", q, start, err == nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if err := s.attachImages(ctx, []*models.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productStore) FindMany(ctx context.Context, plan query.Plan) ([]models.Product, error) {
	where, args, err := renderWhere(plan.Where, productColumns)
	if err != nil {
		return nil, err
	}
	orderBy, err := renderOrderBy(plan.OrderBy, productColumns, "p.created_at DESC, p.id")
	if err != nil {
		return nil, err
	}
	window, windowArgs := renderWindow(plan)

	q := productSelect
	if where != "" {
		q += " WHERE " + where
	}
	q += orderBy + window
	args = append(args, windowArgs...)

	start := time.Now()
	rows, err := s.q.QueryContext(ctx, q, args...)
	record(s.m, ctx, "SELECT", "products", q, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	var refs []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range products {
		refs = append(refs, &products[i])
	}
	if err := s.attachImages(ctx, refs); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productStore) Count(ctx context.Context, plan query.Plan) (int64, error) {
	where, args, err := renderWhere(plan.Where, productColumns)
	if err != nil {
		return 0, err
	}
	q := "SELECT COUNT(*) FROM products p"
	if where != "" {
		q += " WHERE " + where
	}

	start := time.Now()
	var n int64
	err = s.q.QueryRowContext(ctx, q, args...).Scan(&n)
	record(s.m, ctx, "SELECT", "products", q, start, err == nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (s *productStore) Create(ctx context.Context, p *models.Product) error {
	start := time.Now()
	q := "INSERT INTO products (id, name, description, price, qte_in_stock, category_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := s.q.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.Price, p.QteInStock, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	record(s.m, ctx, "INSERT", "products", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return s.replaceImages(ctx, p.ID, p.Images)
}

func (s *productStore) Update(ctx context.Context, p *models.Product) error {
	start := time.Now()
	q := "UPDATE products SET name = ?, description = ?, price = ?, qte_in_stock = ?, category_id = ?, updated_at = ? WHERE id = ?"
	res, err := s.q.ExecContext(ctx, q, p.Name, p.Description, p.Price, p.QteInStock, p.CategoryID, p.UpdatedAt, p.ID)
	record(s.m, ctx, "UPDATE", "products", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return s.replaceImages(ctx, p.ID, p.Images)
}

func (s *productStore) replaceImages(ctx context.Context, productID string, urls []string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", productID); err != nil {
		return fmt.Errorf("failed to clear product images: %w", err)
	}
	for i, url := range urls {
		q := "INSERT INTO product_images (product_id, position, url) VALUES (?, ?, ?)"
		if _, err := s.q.ExecContext(ctx, q, productID, i, url); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}

func (s *productStore) attachImages(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]any, len(products))
	placeholders := make([]string, len(products))
	byID := make(map[string]*models.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		placeholders[i] = "?"
		byID[p.ID] = p
	}

	q := fmt.Sprintf("SELECT product_id, url FROM product_images WHERE product_id IN (%s) ORDER BY product_id, position",
		strings.Join(placeholders, ","))
	rows, err := s.q.QueryContext(ctx, q, ids...)
	if err != nil {
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, url string
		if err := rows.Scan(&productID, &url); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Images = append(p.Images, url)
		}
	}
	return rows.Err()
}

type productTx struct {
	q dbtx
	m *metrics.AppMetrics
}

func (t *productTx) FindUniqueForUpdate(ctx context.Context, id string) (*models.Product, error) {
	start := time.Now()
	q := productSelect + " WHERE p.id = ? FOR UPDATE"
	p, err := scanProduct(t.q.QueryRowContext(ctx, q, id))
	record(t.m, ctx, "SELECT", "products", q, start, err == nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product for update: %w", err)
	}
	return p, nil
}

func (t *productTx) DecrementStock(ctx context.Context, id string, qte int) error {
	start := time.Now()
	// The qte_in_stock >= ? guard keeps stock non-negative even if a caller
	// skipped the read-check.
	q := "UPDATE products SET qte_in_stock = qte_in_stock - ?, updated_at = NOW() WHERE id = ? AND qte_in_stock >= ?"
	res, err := t.q.ExecContext(ctx, q, qte, id, qte)
	record(t.m, ctx, "UPDATE", "products", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// The row exists (callers read it under lock first), so zero rows
		// means the guard rejected an overdraw.
		return apperr.New(apperr.CodeNotEnoughStock, "Not enough stock")
	}
	return nil
}

// ---- orders ----

type orderStore struct {
	q dbtx
	m *metrics.AppMetrics
}

const orderSelect = `SELECT o.id, o.user_id, COALESCE(u.name, ''), o.status, o.total, o.created_at, o.updated_at FROM orders o LEFT JOIN users u ON o.user_id = u.id`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderStore) FindUnique(ctx context.Context, id string) (*models.Order, error) {
	start := time.Now()
	q := orderSelect + " WHERE o.id = ?"
	o, err := scanOrder(s.q.QueryRowContext(ctx, q, id))
	record(s.m, ctx, "SELECT", "orders", q, start, err == nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := s.attachItems(ctx, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderStore) FindMany(ctx context.Context, plan query.Plan) ([]models.Order, error) {
	where, args, err := renderWhere(plan.Where, orderColumns)
	if err != nil {
		return nil, err
	}
	orderBy, err := renderOrderBy(plan.OrderBy, orderColumns, "o.created_at DESC, o.id")
	if err != nil {
		return nil, err
	}
	window, windowArgs := renderWindow(plan)

	q := orderSelect
	if where != "" {
		q += " WHERE " + where
	}
	q += orderBy + window
	args = append(args, windowArgs...)

	start := time.Now()
	rows, err := s.q.QueryContext(ctx, q, args...)
	record(s.m, ctx, "SELECT", "orders", q, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	refs := make([]*models.Order, 0, len(orders))
	for i := range orders {
		refs = append(refs, &orders[i])
	}
	if err := s.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderStore) Count(ctx context.Context, plan query.Plan) (int64, error) {
	where, args, err := renderWhere(plan.Where, orderColumns)
	if err != nil {
		return 0, err
	}
	q := "SELECT COUNT(*) FROM orders o LEFT JOIN users u ON o.user_id = u.id"
	if where != "" {
		q += " WHERE " + where
	}

	start := time.Now()
	var n int64
	err = s.q.QueryRowContext(ctx, q, args...).Scan(&n)
	record(s.m, ctx, "SELECT", "orders", q, start, err == nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, now time.Time) error {
	start := time.Now()
	q := "UPDATE orders SET status = ?, updated_at = ? WHERE id = ?"
	res, err := s.q.ExecContext(ctx, q, status, now, id)
	record(s.m, ctx, "UPDATE", "orders", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *orderStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	// order_items cascade on delete.
	q := "DELETE FROM orders WHERE id = ?"
	res, err := s.q.ExecContext(ctx, q, id)
	record(s.m, ctx, "DELETE", "orders", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *orderStore) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]any, len(orders))
	placeholders := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		placeholders[i] = "?"
		byID[o.ID] = o
	}

	q := fmt.Sprintf("SELECT order_id, product_id, qte, price FROM order_items WHERE order_id IN (%s) ORDER BY order_id, position",
		strings.Join(placeholders, ","))
	rows, err := s.q.QueryContext(ctx, q, ids...)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item models.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Qte, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

type orderTx struct {
	q dbtx
	m *metrics.AppMetrics
}

func (t *orderTx) Create(ctx context.Context, o *models.Order) error {
	start := time.Now()
	q := "INSERT INTO orders (id, user_id, status, total, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := t.q.ExecContext(ctx, q, o.ID, o.UserID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt)
	record(t.m, ctx, "INSERT", "orders", q, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQ := "INSERT INTO order_items (order_id, position, product_id, qte, price) VALUES (?, ?, ?, ?, ?)"
	for i, item := range o.Items {
		start = time.Now()
		_, err := t.q.ExecContext(ctx, itemQ, o.ID, i, item.ProductID, item.Qte, item.Price)
		record(t.m, ctx, "INSERT", "order_items", itemQ, start, err == nil)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}
