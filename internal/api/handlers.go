package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/metrics"
	"github.com/souqlab/storefront-api/internal/middleware"
	"github.com/souqlab/storefront-api/internal/resolvers"
	"github.com/souqlab/storefront-api/pkg/config"
)

// App holds application dependencies.
type App struct {
	config   *config.Config
	metrics  *metrics.AppMetrics
	resolver *resolvers.Resolver
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, m *metrics.AppMetrics, r *resolvers.Resolver) *App {
	return &App{config: cfg, metrics: m, resolver: r}
}

// SetupRoutes configures the HTTP routes.
func (a *App) SetupRoutes(r *mux.Router) {
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.SessionMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Products. Fixed paths register before the {id} wildcard.
	api.HandleFunc("/products/count", a.ProductsCountHandler).Methods("GET")
	api.HandleFunc("/products/count/available", a.AvailableProductsCountHandler).Methods("GET")
	api.HandleFunc("/products/count/filtered", a.FilteredProductsCountHandler).Methods("GET")
	api.HandleFunc("/products/infinite", a.InfiniteProductsHandler).Methods("GET")
	api.HandleFunc("/products", a.PaginatedProductsHandler).Methods("GET")
	api.HandleFunc("/products", a.AddNewProductHandler).Methods("POST")
	api.HandleFunc("/products/{id}", a.GetProductHandler).Methods("GET")
	api.HandleFunc("/products/{id}", a.UpdateProductHandler).Methods("PUT")

	// Orders
	api.HandleFunc("/orders/count", a.OrdersCountHandler).Methods("GET")
	api.HandleFunc("/orders/mine", a.MyOrdersHandler).Methods("GET")
	api.HandleFunc("/orders", a.OrdersHandler).Methods("GET")
	api.HandleFunc("/orders", a.AddOrderHandler).Methods("POST")
	api.HandleFunc("/orders/{id}", a.GetOrderHandler).Methods("GET")
	api.HandleFunc("/orders/{id}/status", a.UpdateOrderHandler).Methods("PUT")
	api.HandleFunc("/orders/{id}", a.DeleteOrderHandler).Methods("DELETE")

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

// HealthHandler handles health check requests.
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// queryFilters copies the query string into the loose filter payload the
// validation schemas coerce from.
func queryFilters(r *http.Request) map[string]any {
	raw := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw
}

// decodeBody decodes a JSON object body into a loose payload.
func decodeBody(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "Invalid JSON payload")
	}
	return raw, nil
}

func (a *App) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := a.resolver.Product(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) PaginatedProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := a.resolver.PaginatedProducts(r.Context(), middleware.SessionFrom(r.Context()), queryFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *App) InfiniteProductsHandler(w http.ResponseWriter, r *http.Request) {
	raw := queryFilters(r)
	limit, offset := raw["limit"], raw["offset"]
	delete(raw, "limit")
	delete(raw, "offset")

	products, err := a.resolver.InfiniteProducts(r.Context(), middleware.SessionFrom(r.Context()), limit, offset, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *App) ProductsCountHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.resolver.ProductsCount(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (a *App) AvailableProductsCountHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.resolver.AvailableProductsCount(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (a *App) FilteredProductsCountHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.resolver.FilteredProductsCount(r.Context(), middleware.SessionFrom(r.Context()), queryFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (a *App) AddNewProductHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := a.resolver.AddNewProduct(r.Context(), middleware.SessionFrom(r.Context()), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *App) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := a.resolver.UpdateProduct(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"], raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, err := a.resolver.Order(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *App) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.resolver.MyOrders(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *App) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := a.resolver.Orders(r.Context(), middleware.SessionFrom(r.Context()), queryFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *App) OrdersCountHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.resolver.OrdersCount(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (a *App) AddOrderHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o, err := a.resolver.AddOrder(r.Context(), middleware.SessionFrom(r.Context()), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *App) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o, err := a.resolver.UpdateOrder(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"], raw["status"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *App) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.resolver.DeleteOrder(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
