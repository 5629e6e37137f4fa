// Package query turns validated filter descriptors into structured query
// plans. Building a plan performs no I/O; the store layer renders plans to
// SQL at the edge.
package query

// Op is a comparison operator in a predicate leaf.
type Op string

const (
	OpContains Op = "contains" // case-insensitive substring
	OpEq       Op = "eq"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
)

// Predicate is a node of the where tree: a Cond leaf or an And/Or branch.
type Predicate interface {
	isPredicate()
}

// Cond compares a logical field against a value. Field names are logical
// ("qteInStock", "user.name"); the store maps them to columns.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// And is satisfied when every child predicate is.
type And struct {
	Preds []Predicate
}

// Or is satisfied when at least one child predicate is.
type Or struct {
	Preds []Predicate
}

func (Cond) isPredicate() {}
func (And) isPredicate()  {}
func (Or) isPredicate()   {}

// SortKey is one order-by entry. Path holds the decomposed field path; a
// dotted sort field like "user.name" becomes ["user", "name"].
type SortKey struct {
	Path []string
	Desc bool
}

// Plan is the complete query description: a where tree (nil means
// unfiltered), an ordering, and an optional pagination window. Skip and Take
// are both nil for an unbounded fetch.
type Plan struct {
	Where   Predicate
	OrderBy []SortKey
	Skip    *int
	Take    *int
}
