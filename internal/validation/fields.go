// Package validation implements the typed-parsing input validators used by
// every resolver. Each schema collects all field failures before returning,
// so a caller can report every invalid field in one response.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/souqlab/storefront-api/internal/apperr"
)

// searchTextRe is the accepted character class for free-text input: Latin
// letters (with French accents), Arabic letters, digits, spaces and a fixed
// punctuation set. Everything else (notably <, >, {, }) is rejected; this is
// the injection defense for search and name fields.
var searchTextRe = regexp.MustCompile(`^[0-9A-Za-zÀ-ÖØ-öø-ÿŒœ\x{0600}-\x{06FF} .,;:!?'"()\-_/&@+%*]*$`)

// fieldErrors accumulates per-field failures in encounter order.
type fieldErrors struct {
	list []apperr.FieldError
}

func (fe *fieldErrors) add(field, format string, args ...any) {
	fe.list = append(fe.list, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// asNumber coerces a loosely typed value into a decimal. Numeric-looking
// strings count ("5" -> 5); nil, booleans and non-numeric strings do not.
func asNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// asInt coerces like asNumber but additionally requires an integral value.
// The second result reports "was a number", the third "was an integer".
func asInt(v any) (int, bool, bool) {
	d, ok := asNumber(v)
	if !ok {
		return 0, false, false
	}
	if !d.IsInteger() {
		return 0, true, false
	}
	return int(d.IntPart()), true, true
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asDate parses a date value supplied as an RFC 3339 timestamp or a plain
// YYYY-MM-DD day.
func asDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// present reports whether the raw map carries a usable value for key.
// nil and the empty string both count as "unset".
func present(raw map[string]any, key string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// enumMessage renders the fixed failure message for enumerated fields,
// quoting every valid option verbatim.
func enumMessage(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = strconv.Quote(o)
	}
	return "Invalid option: expected one of " + strings.Join(quoted, "|")
}

func validText(s string) bool {
	return searchTextRe.MatchString(s)
}
