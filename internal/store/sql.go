package store

import (
	"fmt"
	"strings"

	"github.com/souqlab/storefront-api/internal/query"
)

// Logical field -> column maps per entity. Dotted fields traverse the
// one-level relationship the query builder supports.
var (
	productColumns = map[string]string{
		"id":          "p.id",
		"name":        "p.name",
		"description": "p.description",
		"price":       "p.price",
		"qteInStock":  "p.qte_in_stock",
		"createdAt":   "p.created_at",
	}
	orderColumns = map[string]string{
		"id":        "o.id",
		"userId":    "o.user_id",
		"status":    "o.status",
		"total":     "o.total",
		"createdAt": "o.created_at",
		"user.name": "u.name",
	}
)

// renderWhere renders a predicate tree into a SQL condition and its args.
// A nil predicate renders to the empty string.
func renderWhere(p query.Predicate, cols map[string]string) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	return renderPredicate(p, cols)
}

func renderPredicate(p query.Predicate, cols map[string]string) (string, []any, error) {
	switch node := p.(type) {
	case query.Cond:
		return renderCond(node, cols)
	case query.And:
		return renderGroup(node.Preds, " AND ", cols)
	case query.Or:
		return renderGroup(node.Preds, " OR ", cols)
	default:
		return "", nil, fmt.Errorf("unknown predicate node %T", p)
	}
}

func renderGroup(preds []query.Predicate, sep string, cols map[string]string) (string, []any, error) {
	parts := make([]string, 0, len(preds))
	var args []any
	for _, child := range preds {
		sql, childArgs, err := renderPredicate(child, cols)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, childArgs...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}

func renderCond(c query.Cond, cols map[string]string) (string, []any, error) {
	col, ok := cols[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q", c.Field)
	}
	switch c.Op {
	case query.OpContains:
		pattern := "%" + strings.ToLower(fmt.Sprint(c.Value)) + "%"
		return "LOWER(" + col + ") LIKE ?", []any{pattern}, nil
	case query.OpEq:
		return col + " = ?", []any{c.Value}, nil
	case query.OpGt:
		return col + " > ?", []any{c.Value}, nil
	case query.OpGte:
		return col + " >= ?", []any{c.Value}, nil
	case query.OpLt:
		return col + " < ?", []any{c.Value}, nil
	case query.OpLte:
		return col + " <= ?", []any{c.Value}, nil
	default:
		return "", nil, fmt.Errorf("unknown operator %q", c.Op)
	}
}

// renderOrderBy renders the sort keys, falling back to a stable default
// (newest first, id as tiebreaker) when no sort was requested.
func renderOrderBy(keys []query.SortKey, cols map[string]string, defaultOrder string) (string, error) {
	if len(keys) == 0 {
		return " ORDER BY " + defaultOrder, nil
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		field := strings.Join(k.Path, ".")
		col, ok := cols[field]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q", field)
		}
		dir := " ASC"
		if k.Desc {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// renderWindow renders the pagination window. Take without Skip is legal;
// Skip without Take never reaches here (validation requires both).
func renderWindow(plan query.Plan) (string, []any) {
	if plan.Take == nil {
		return "", nil
	}
	if plan.Skip == nil || *plan.Skip == 0 {
		return " LIMIT ?", []any{*plan.Take}
	}
	return " LIMIT ? OFFSET ?", []any{*plan.Take, *plan.Skip}
}
