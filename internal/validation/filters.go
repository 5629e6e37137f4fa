package validation

import (
	"time"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/models"
)

// Stock bucket tokens accepted by the product list filter.
const (
	StockAny = ""
	StockIn  = "In Stock"
	StockLow = "Low Stock"
	StockOut = "Out Stock"
)

var stockOptions = []string{StockAny, StockIn, StockLow, StockOut}

var sortDirectionOptions = []string{"", "asc", "desc"}

// Sortable fields per entity. Dotted entries traverse one relationship level.
var (
	productSortOptions = []string{"", "name", "price", "qteInStock", "createdAt"}
	orderSortOptions   = []string{"", "total", "status", "createdAt", "user.name"}
)

// ProductFilters is the validated, request-scoped filter descriptor for
// product listings.
type ProductFilters struct {
	SearchQuery   string
	Stock         string
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortDirection string
	CurrentPage   *int
	Limit         *int
}

// OrderFilters is the validated filter descriptor for order listings.
// Status is empty when unset.
type OrderFilters struct {
	SearchQuery   string
	Status        models.OrderStatus
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortDirection string
	CurrentPage   *int
	Limit         *int
}

// ValidateProductFilters validates a product listing filter set, including
// the pagination-presence rule: any filter or sort field demands both
// currentPage and limit.
func ValidateProductFilters(raw map[string]any, now time.Time) (*ProductFilters, []apperr.FieldError) {
	return validateProductFilters(raw, now, true)
}

// ValidateProductFilterFields validates only the filter fields themselves,
// for callers that supply their own pagination window (infinite scroll).
func ValidateProductFilterFields(raw map[string]any, now time.Time) (*ProductFilters, []apperr.FieldError) {
	return validateProductFilters(raw, now, false)
}

func validateProductFilters(raw map[string]any, now time.Time, requirePagination bool) (*ProductFilters, []apperr.FieldError) {
	var fe fieldErrors
	f := &ProductFilters{}

	f.SearchQuery = parseSearchQuery(raw, &fe)

	if present(raw, "stock") {
		stock, ok := asString(raw["stock"])
		if !ok || !contains(stockOptions, stock) {
			fe.add("stock", "%s", enumMessage(stockOptions))
		} else {
			f.Stock = stock
		}
	}

	// Product filters reject same-day ranges: end must be strictly after start.
	f.StartDate, f.EndDate = parseDateRange(raw, now, &fe, func(start, end time.Time) (bool, string) {
		return end.After(start), "endDate must be after startDate"
	})

	f.SortBy, f.SortDirection = parseSort(raw, productSortOptions, &fe)
	f.CurrentPage, f.Limit = parsePagination(raw, &fe)

	// Pagination presence is layered after the field-level checks.
	if len(fe.list) > 0 {
		return nil, fe.list
	}
	if requirePagination && productFiltersActive(f) && (f.CurrentPage == nil || f.Limit == nil) {
		fe.add("pagination", "currentPage and limit are required when filtering or sorting")
		return nil, fe.list
	}
	return f, nil
}

// ValidateOrderFilters validates an order listing filter set. Unlike product
// filters, a same-day date range is legal: only an inverted range fails.
func ValidateOrderFilters(raw map[string]any, now time.Time) (*OrderFilters, []apperr.FieldError) {
	var fe fieldErrors
	f := &OrderFilters{}

	f.SearchQuery = parseSearchQuery(raw, &fe)

	if present(raw, "status") {
		s, ok := asString(raw["status"])
		if !ok {
			fe.add("status", "%s", enumMessage(statusOptions(true)))
		} else if status, valid := models.ParseOrderStatus(s); !valid {
			fe.add("status", "%s", enumMessage(statusOptions(true)))
		} else {
			f.Status = status
		}
	}

	f.StartDate, f.EndDate = parseDateRange(raw, now, &fe, func(start, end time.Time) (bool, string) {
		return !end.Before(start), "endDate cannot be before startDate"
	})

	f.SortBy, f.SortDirection = parseSort(raw, orderSortOptions, &fe)
	f.CurrentPage, f.Limit = parsePagination(raw, &fe)

	if len(fe.list) > 0 {
		return nil, fe.list
	}
	if orderFiltersActive(f) && (f.CurrentPage == nil || f.Limit == nil) {
		fe.add("pagination", "currentPage and limit are required when filtering or sorting")
		return nil, fe.list
	}
	return f, nil
}

func parseSearchQuery(raw map[string]any, fe *fieldErrors) string {
	if !present(raw, "searchQuery") {
		return ""
	}
	q, ok := asString(raw["searchQuery"])
	if !ok {
		fe.add("searchQuery", "searchQuery should be a string")
		return ""
	}
	if !validText(q) {
		fe.add("searchQuery", "searchQuery contains invalid characters")
		return ""
	}
	return q
}

// parseDateRange parses both bounds, rejects future dates, and applies the
// entity-specific range rule when both bounds are supplied. Either bound may
// also be supplied alone.
func parseDateRange(raw map[string]any, now time.Time, fe *fieldErrors, rangeOK func(start, end time.Time) (bool, string)) (*time.Time, *time.Time) {
	var start, end *time.Time

	if present(raw, "startDate") {
		if t, ok := asDate(raw["startDate"]); !ok {
			fe.add("startDate", "startDate is not a valid date")
		} else if t.After(now) {
			fe.add("startDate", "startDate cannot be in the future")
		} else {
			start = &t
		}
	}
	if present(raw, "endDate") {
		if t, ok := asDate(raw["endDate"]); !ok {
			fe.add("endDate", "endDate is not a valid date")
		} else if t.After(now) {
			fe.add("endDate", "endDate cannot be in the future")
		} else {
			end = &t
		}
	}
	if start != nil && end != nil {
		if ok, msg := rangeOK(*start, *end); !ok {
			fe.add("endDate", "%s", msg)
			return nil, nil
		}
	}
	return start, end
}

// parseSort validates the sort pair: both fields present or both absent.
func parseSort(raw map[string]any, options []string, fe *fieldErrors) (string, string) {
	var sortBy, sortDir string

	haveBy := present(raw, "sortBy")
	haveDir := present(raw, "sortDirection")

	if haveBy {
		if s, ok := asString(raw["sortBy"]); !ok || !contains(options, s) {
			fe.add("sortBy", "%s", enumMessage(options))
			haveBy = false
		} else {
			sortBy = s
		}
	}
	if haveDir {
		if s, ok := asString(raw["sortDirection"]); !ok || !contains(sortDirectionOptions, s) {
			fe.add("sortDirection", "%s", enumMessage(sortDirectionOptions))
			haveDir = false
		} else {
			sortDir = s
		}
	}
	if haveBy != haveDir {
		fe.add("sortBy", "sortBy and sortDirection must be provided together")
		return "", ""
	}
	return sortBy, sortDir
}

// ValidateWindow validates the explicit limit/offset pair used by
// offset-based (infinite scroll) listings. limit is required; offset
// defaults to 0 when absent.
func ValidateWindow(rawLimit, rawOffset any) (int, int, []apperr.FieldError) {
	var fe fieldErrors
	var limit, offset int

	if n, isNum, isInt := asInt(rawLimit); !isNum {
		fe.add("limit", "limit is required as number")
	} else if !isInt || n < 1 {
		fe.add("limit", "limit must be a positive integer")
	} else {
		limit = n
	}

	if rawOffset != nil {
		if n, isNum, isInt := asInt(rawOffset); !isNum {
			fe.add("offset", "offset is required as number")
		} else if !isInt || n < 0 {
			fe.add("offset", "offset cannot be negative")
		} else {
			offset = n
		}
	}
	return limit, offset, fe.list
}

func parsePagination(raw map[string]any, fe *fieldErrors) (*int, *int) {
	var page, limit *int

	if present(raw, "currentPage") {
		if n, isNum, isInt := asInt(raw["currentPage"]); !isNum {
			fe.add("currentPage", "currentPage is required as number")
		} else if !isInt || n < 1 {
			fe.add("currentPage", "currentPage must be a positive integer")
		} else {
			page = &n
		}
	}
	if present(raw, "limit") {
		if n, isNum, isInt := asInt(raw["limit"]); !isNum {
			fe.add("limit", "limit is required as number")
		} else if !isInt || n < 1 {
			fe.add("limit", "limit must be a positive integer")
		} else {
			limit = &n
		}
	}
	return page, limit
}

func productFiltersActive(f *ProductFilters) bool {
	return f.SearchQuery != "" || f.Stock != "" ||
		f.StartDate != nil || f.EndDate != nil || f.SortBy != ""
}

func orderFiltersActive(f *OrderFilters) bool {
	return f.SearchQuery != "" || f.Status != "" ||
		f.StartDate != nil || f.EndDate != nil || f.SortBy != ""
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
