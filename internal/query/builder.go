package query

import (
	"strings"
	"time"

	"github.com/souqlab/storefront-api/internal/validation"
)

// BuildProductPlan translates a validated product filter descriptor into a
// query plan. Identical input always yields an identical plan.
func BuildProductPlan(f *validation.ProductFilters) Plan {
	var preds []Predicate

	if f.SearchQuery != "" {
		preds = append(preds, Or{Preds: []Predicate{
			Cond{Field: "id", Op: OpContains, Value: f.SearchQuery},
			Cond{Field: "name", Op: OpContains, Value: f.SearchQuery},
			Cond{Field: "description", Op: OpContains, Value: f.SearchQuery},
		}})
	}

	// Stock buckets are mutually exclusive numeric ranges on quantity.
	switch f.Stock {
	case validation.StockIn:
		preds = append(preds, Cond{Field: "qteInStock", Op: OpGt, Value: 10})
	case validation.StockLow:
		preds = append(preds,
			Cond{Field: "qteInStock", Op: OpGt, Value: 0},
			Cond{Field: "qteInStock", Op: OpLte, Value: 10},
		)
	case validation.StockOut:
		preds = append(preds, Cond{Field: "qteInStock", Op: OpEq, Value: 0})
	}

	preds = appendDateRange(preds, f.StartDate, f.EndDate)

	return Plan{
		Where:   combine(preds),
		OrderBy: sortKeys(f.SortBy, f.SortDirection),
		Skip:    skip(f.CurrentPage, f.Limit),
		Take:    take(f.Limit),
	}
}

// BuildOrderPlan translates a validated order filter descriptor into a query
// plan. The search expands over the order id and the owner's display name.
func BuildOrderPlan(f *validation.OrderFilters) Plan {
	var preds []Predicate

	if f.SearchQuery != "" {
		preds = append(preds, Or{Preds: []Predicate{
			Cond{Field: "id", Op: OpContains, Value: f.SearchQuery},
			Cond{Field: "user.name", Op: OpContains, Value: f.SearchQuery},
		}})
	}

	if f.Status != "" {
		preds = append(preds, Cond{Field: "status", Op: OpEq, Value: string(f.Status)})
	}

	preds = appendDateRange(preds, f.StartDate, f.EndDate)

	return Plan{
		Where:   combine(preds),
		OrderBy: sortKeys(f.SortBy, f.SortDirection),
		Skip:    skip(f.CurrentPage, f.Limit),
		Take:    take(f.Limit),
	}
}

// appendDateRange merges the date bounds into the where tree as an
// on/after-start AND on/before-end condition on the creation timestamp.
// Either bound may be supplied alone.
func appendDateRange(preds []Predicate, start, end *time.Time) []Predicate {
	if start != nil {
		preds = append(preds, Cond{Field: "createdAt", Op: OpGte, Value: *start})
	}
	if end != nil {
		preds = append(preds, Cond{Field: "createdAt", Op: OpLte, Value: *end})
	}
	return preds
}

func combine(preds []Predicate) Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return And{Preds: preds}
	}
}

// sortKeys decomposes a sort field into a path; dotted fields traverse one
// relationship level. No sort fields means the store's stable default order.
func sortKeys(sortBy, direction string) []SortKey {
	if sortBy == "" {
		return nil
	}
	return []SortKey{{
		Path: strings.Split(sortBy, "."),
		Desc: strings.EqualFold(direction, "desc"),
	}}
}

// skip computes (currentPage-1)*limit; nil when the request is unpaginated.
func skip(currentPage, limit *int) *int {
	if currentPage == nil || limit == nil {
		return nil
	}
	n := (*currentPage - 1) * *limit
	return &n
}

func take(limit *int) *int {
	if limit == nil {
		return nil
	}
	n := *limit
	return &n
}

// Window overrides the pagination window on a plan; used by offset-based
// (infinite scroll) listings that carry explicit limit/offset arguments.
func (p Plan) Window(offset, limit int) Plan {
	p.Skip = &offset
	p.Take = &limit
	return p
}
