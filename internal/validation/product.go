package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/souqlab/storefront-api/internal/apperr"
)

const (
	nameMinLen        = 3
	nameMaxLen        = 255
	descriptionMaxLen = 2000
	maxImages         = 10
)

// ProductInput is the normalized result of a validated product payload.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	QteInStock  int
	CategoryID  *string
	Images      []string
}

// ValidateAddProduct validates a product-creation payload. Stock must be a
// positive integer: zero, negatives and fractional values are all rejected.
func ValidateAddProduct(raw map[string]any) (*ProductInput, []apperr.FieldError) {
	return validateProduct(raw, 1)
}

// ValidateUpdateProduct validates a product-update payload. Stock may be
// zero (sold out) but still must be a non-negative integer.
func ValidateUpdateProduct(raw map[string]any) (*ProductInput, []apperr.FieldError) {
	return validateProduct(raw, 0)
}

func validateProduct(raw map[string]any, minStock int) (*ProductInput, []apperr.FieldError) {
	var fe fieldErrors
	in := &ProductInput{}

	if name, ok := asString(raw["name"]); !ok {
		fe.add("name", "name is required as string")
	} else {
		name = strings.TrimSpace(name)
		switch {
		case !validText(name):
			fe.add("name", "name contains invalid characters")
		case utf8.RuneCountInString(name) < nameMinLen || utf8.RuneCountInString(name) > nameMaxLen:
			fe.add("name", "name must be between %d and %d characters", nameMinLen, nameMaxLen)
		default:
			in.Name = name
		}
	}

	if v, ok := raw["description"]; ok && v != nil {
		if desc, isStr := asString(v); !isStr {
			fe.add("description", "description should be a string")
		} else if !validText(desc) {
			fe.add("description", "description contains invalid characters")
		} else if utf8.RuneCountInString(desc) > descriptionMaxLen {
			fe.add("description", "description must be at most %d characters", descriptionMaxLen)
		} else {
			in.Description = desc
		}
	}

	if price, ok := asNumber(raw["price"]); !ok {
		fe.add("price", "price is required as number")
	} else if price.Sign() <= 0 {
		fe.add("price", "price must be greater than 0")
	} else {
		in.Price = price
	}

	// Integer-only everywhere: fractional stock is rejected on both creation
	// and update paths.
	qte, isNum, isInt := asInt(raw["qteInStock"])
	switch {
	case !isNum:
		fe.add("qteInStock", "qteInStock is required as number")
	case !isInt:
		fe.add("qteInStock", "qteInStock must be an integer")
	case qte < minStock && minStock > 0:
		fe.add("qteInStock", "qteInStock must be a positive integer")
	case qte < 0:
		fe.add("qteInStock", "qteInStock cannot be negative")
	default:
		in.QteInStock = qte
	}

	if v, ok := raw["categoryId"]; ok && v != nil {
		if id, isStr := asString(v); !isStr {
			fe.add("categoryId", "categoryId should be a string")
		} else if id = strings.TrimSpace(id); id != "" {
			in.CategoryID = &id
		}
	}

	if v, ok := raw["images"]; ok && v != nil {
		if urls, msg := parseImages(v); msg != "" {
			fe.add("images", "%s", msg)
		} else {
			in.Images = urls
		}
	}

	if len(fe.list) > 0 {
		return nil, fe.list
	}
	return in, nil
}

func parseImages(v any) ([]string, string) {
	list, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]string); isTyped {
			list = make([]any, len(typed))
			for i, s := range typed {
				list[i] = s
			}
		} else {
			return nil, "images should be a list of URLs"
		}
	}
	if len(list) > maxImages {
		return nil, "images cannot contain more than 10 entries"
	}
	urls := make([]string, 0, len(list))
	for _, item := range list {
		url, isStr := asString(item)
		if !isStr || strings.TrimSpace(url) == "" {
			return nil, "images should be a list of URLs"
		}
		urls = append(urls, strings.TrimSpace(url))
	}
	return urls, ""
}
