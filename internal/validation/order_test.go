package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqlab/storefront-api/internal/models"
)

func TestValidateAddOrder_Valid(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"productId": "P1", "qte": float64(2)},
			map[string]any{"productId": "P2", "qte": "3"},
		},
		"total": "49.90",
	}

	in, ferrs := ValidateAddOrder(raw)
	require.Nil(t, ferrs)
	require.Len(t, in.Items, 2)
	assert.Equal(t, OrderItemInput{ProductID: "P1", Qte: 2}, in.Items[0])
	assert.Equal(t, OrderItemInput{ProductID: "P2", Qte: 3}, in.Items[1])
	assert.True(t, in.Total.Equal(decimal.RequireFromString("49.9")))
}

func TestValidateAddOrder_DuplicateProductsStayIndependent(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"productId": "P1", "qte": float64(2)},
			map[string]any{"productId": "P1", "qte": float64(3)},
		},
		"total": float64(50),
	}

	in, ferrs := ValidateAddOrder(raw)
	require.Nil(t, ferrs)
	require.Len(t, in.Items, 2)
	assert.Equal(t, 2, in.Items[0].Qte)
	assert.Equal(t, 3, in.Items[1].Qte)
}

func TestValidateAddOrder_EmptyItems(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"missing items", map[string]any{"total": float64(10)}},
		{"empty list", map[string]any{"items": []any{}, "total": float64(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ferrs := ValidateAddOrder(tt.raw)
			require.NotEmpty(t, ferrs)
			assert.Equal(t, "items", ferrs[0].Field)
			assert.Equal(t, ErrNoSelectedProduct, ferrs[0].Message)
		})
	}
}

func TestValidateAddOrder_ItemRules(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"qte": float64(1)},
			map[string]any{"productId": "P2", "qte": float64(0)},
			map[string]any{"productId": "P3", "qte": 1.5},
			map[string]any{"productId": "P4"},
		},
		"total": float64(10),
	}

	_, ferrs := ValidateAddOrder(raw)
	require.Len(t, ferrs, 4)
	assert.Equal(t, "items[0].productId is required as string", ferrs[0].Message)
	assert.Equal(t, "items[1].qte must be a positive integer", ferrs[1].Message)
	assert.Equal(t, "items[2].qte must be a positive integer", ferrs[2].Message)
	assert.Equal(t, "items[3].qte is required as number", ferrs[3].Message)
}

func TestValidateAddOrder_TotalRules(t *testing.T) {
	items := []any{map[string]any{"productId": "P1", "qte": float64(1)}}

	tests := []struct {
		name    string
		total   any
		message string
	}{
		{"missing", nil, "total is required as number"},
		{"not numeric", "ten", "total is required as number"},
		{"zero", float64(0), "total must be greater than 0"},
		{"negative", float64(-5), "total must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ferrs := ValidateAddOrder(map[string]any{"items": items, "total": tt.total})
			require.Len(t, ferrs, 1)
			assert.Equal(t, "total", ferrs[0].Field)
			assert.Equal(t, tt.message, ferrs[0].Message)
		})
	}
}

func TestValidateOrderStatus_NormalizesCase(t *testing.T) {
	for _, input := range []string{"shipped", "Shipped", "SHIPPED", " shipped "} {
		status, ferrs := ValidateOrderStatus(input)
		require.Nil(t, ferrs, "input %q", input)
		assert.Equal(t, models.StatusShipped, status)
	}
}

func TestValidateOrderStatus_RejectsUnknownToken(t *testing.T) {
	_, ferrs := ValidateOrderStatus("EATING")
	require.Len(t, ferrs, 1)
	assert.Equal(t, "status", ferrs[0].Field)
	assert.Equal(t,
		`Invalid option: expected one of "PENDING"|"CONFIRMED"|"SHIPPED"|"DELIVERED"|"CANCELLED"|"RETURNED"`,
		ferrs[0].Message)
}

func TestValidateOrderStatus_RejectsNonString(t *testing.T) {
	_, ferrs := ValidateOrderStatus(float64(3))
	require.Len(t, ferrs, 1)
	assert.Equal(t, "status is required as string", ferrs[0].Message)
}
