package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/models"
)

// ErrNoSelectedProduct is the message returned when an order payload carries
// no items. It is raised before any transaction opens.
const ErrNoSelectedProduct = "It's impossible to create order with no selected product"

// OrderItemInput is one validated order line.
type OrderItemInput struct {
	ProductID string
	Qte       int
}

// AddOrderInput is the normalized result of a validated order payload.
type AddOrderInput struct {
	Items []OrderItemInput
	Total decimal.Decimal
}

// ValidateAddOrder validates an order-creation payload: a non-empty item
// list and a well-formed positive total. Duplicate product references are
// legal and kept as independent lines.
func ValidateAddOrder(raw map[string]any) (*AddOrderInput, []apperr.FieldError) {
	var fe fieldErrors
	in := &AddOrderInput{}

	items, ok := rawItems(raw["items"])
	if !ok || len(items) == 0 {
		fe.add("items", ErrNoSelectedProduct)
	} else {
		for i, item := range items {
			entry, isMap := item.(map[string]any)
			if !isMap {
				fe.add("items", "items[%d] is malformed", i)
				continue
			}
			line := OrderItemInput{}
			if id, isStr := asString(entry["productId"]); !isStr || strings.TrimSpace(id) == "" {
				fe.add("items", "items[%d].productId is required as string", i)
			} else {
				line.ProductID = strings.TrimSpace(id)
			}
			qte, isNum, isInt := asInt(entry["qte"])
			switch {
			case !isNum:
				fe.add("items", "items[%d].qte is required as number", i)
			case !isInt || qte <= 0:
				fe.add("items", "items[%d].qte must be a positive integer", i)
			default:
				line.Qte = qte
			}
			in.Items = append(in.Items, line)
		}
	}

	if total, isNum := asNumber(raw["total"]); !isNum {
		fe.add("total", "total is required as number")
	} else if total.Sign() <= 0 {
		fe.add("total", "total must be greater than 0")
	} else {
		in.Total = total
	}

	if len(fe.list) > 0 {
		return nil, fe.list
	}
	return in, nil
}

// ValidateOrderStatus validates a status-update value: one of the six known
// statuses, case-insensitive, normalized to uppercase.
func ValidateOrderStatus(v any) (models.OrderStatus, []apperr.FieldError) {
	var fe fieldErrors
	s, ok := asString(v)
	if !ok {
		fe.add("status", "status is required as string")
		return "", fe.list
	}
	status, valid := models.ParseOrderStatus(s)
	if !valid {
		fe.add("status", "%s", enumMessage(statusOptions(false)))
		return "", fe.list
	}
	return status, nil
}

// statusOptions returns the valid status tokens, optionally with the
// empty-string "unset" sentinel used by order filters.
func statusOptions(withUnset bool) []string {
	opts := make([]string, 0, len(models.OrderStatuses)+1)
	if withUnset {
		opts = append(opts, "")
	}
	for _, st := range models.OrderStatuses {
		opts = append(opts, string(st))
	}
	return opts
}

func rawItems(v any) ([]any, bool) {
	switch list := v.(type) {
	case nil:
		return nil, true
	case []any:
		return list, true
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
