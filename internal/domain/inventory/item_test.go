package inventory

import (
	"testing"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, stock int64) *Item {
	t.Helper()
	item, err := NewItem("Copper Wire", valueobject.UnitMetre, decimal.NewFromInt(stock), decimal.NewFromInt(5))
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := newTestItem(t, 10)
		assert.Equal(t, ItemStatusActive, item.Status)
		assert.Equal(t, 1, item.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem("  ", valueobject.UnitPieces, decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewItem("Bolt", valueobject.Unit("dozen"), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestItem_ApplyStockDelta(t *testing.T) {
	t.Run("decrement and restore", func(t *testing.T) {
		item := newTestItem(t, 10)
		require.NoError(t, item.ApplyStockDelta(decimal.NewFromInt(-3), false))
		assert.True(t, item.QuantityInStock.Equal(decimal.NewFromInt(7)))
		require.NoError(t, item.ApplyStockDelta(decimal.NewFromInt(3), false))
		assert.True(t, item.QuantityInStock.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 3, item.Version)
	})

	t.Run("oversell rejected when negative stock disallowed", func(t *testing.T) {
		item := newTestItem(t, 2)
		err := item.ApplyStockDelta(decimal.NewFromInt(-5), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient stock")
		assert.True(t, item.QuantityInStock.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, 1, item.Version)
	})

	t.Run("oversell allowed goes negative", func(t *testing.T) {
		item := newTestItem(t, 2)
		require.NoError(t, item.ApplyStockDelta(decimal.NewFromInt(-5), true))
		assert.True(t, item.QuantityInStock.Equal(decimal.NewFromInt(-3)))
	})
}

func TestItem_IsLowStock(t *testing.T) {
	item := newTestItem(t, 5)
	assert.True(t, item.IsLowStock())
	require.NoError(t, item.ApplyStockDelta(decimal.NewFromInt(1), false))
	assert.False(t, item.IsLowStock())
	assert.True(t, item.CanSupply(decimal.NewFromInt(6)))
	assert.False(t, item.CanSupply(decimal.NewFromInt(7)))
}

func TestItem_Update(t *testing.T) {
	t.Run("applies fields and bumps version once", func(t *testing.T) {
		item := newTestItem(t, 10)
		name := "  Copper Wire 2mm "
		unit := valueobject.UnitPieces
		stock := decimal.NewFromInt(42)
		price := decimal.RequireFromString("12.50")
		category := uuid.New()

		require.NoError(t, item.Update(ItemUpdate{
			Name:            &name,
			Unit:            &unit,
			QuantityInStock: &stock,
			SellingPrice:    &price,
			CategoryID:      &category,
		}))

		assert.Equal(t, "Copper Wire 2mm", item.Name)
		assert.Equal(t, valueobject.UnitPieces, item.Unit)
		assert.True(t, item.QuantityInStock.Equal(stock))
		assert.True(t, item.SellingPrice.Equal(price))
		require.NotNil(t, item.CategoryID)
		assert.Equal(t, category, *item.CategoryID)
		assert.Equal(t, 2, item.Version)
	})

	t.Run("clears category", func(t *testing.T) {
		item := newTestItem(t, 10)
		category := uuid.New()
		item.CategoryID = &category
		require.NoError(t, item.Update(ItemUpdate{ClearCategory: true}))
		assert.Nil(t, item.CategoryID)
	})

	t.Run("status round trip", func(t *testing.T) {
		item := newTestItem(t, 10)
		inactive := ItemStatusInactive
		require.NoError(t, item.Update(ItemUpdate{Status: &inactive}))
		assert.False(t, item.IsActive())
		active := ItemStatusActive
		require.NoError(t, item.Update(ItemUpdate{Status: &active}))
		assert.True(t, item.IsActive())
		assert.Equal(t, 3, item.Version)
	})

	negative := decimal.NewFromInt(-1)
	fine := decimal.RequireFromString("9.999")
	blank := " "
	bogus := ItemStatus("archived")
	tests := []struct {
		name   string
		update ItemUpdate
		code   string
	}{
		{"blank name", ItemUpdate{Name: &blank}, "INVALID_INPUT"},
		{"negative stock", ItemUpdate{QuantityInStock: &negative}, "INVALID_QUANTITY"},
		{"negative alert", ItemUpdate{MinimumStockAlert: &negative}, "INVALID_INPUT"},
		{"negative price", ItemUpdate{SellingPrice: &negative}, "INVALID_RATE"},
		{"sub-paisa price", ItemUpdate{SellingPrice: &fine}, "INVALID_RATE"},
		{"unknown status", ItemUpdate{Status: &bogus}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newTestItem(t, 10)
			stock := decimal.NewFromInt(99)
			tt.update.QuantityInStock = firstNonNil(tt.update.QuantityInStock, &stock)

			err := item.Update(tt.update)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
			assert.True(t, item.QuantityInStock.Equal(decimal.NewFromInt(10)), "nothing applied on failure")
			assert.Equal(t, 1, item.Version)
		})
	}
}

func firstNonNil(a, b *decimal.Decimal) *decimal.Decimal {
	if a != nil {
		return a
	}
	return b
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory(" Fasteners ", " nuts and bolts ")
	require.NoError(t, err)
	assert.Equal(t, "Fasteners", c.Name)
	assert.Equal(t, "nuts and bolts", c.Description)

	_, err = NewCategory("", "")
	assert.Equal(t, "INVALID_CATEGORY", shared.ErrorCode(err))
}

func TestCategory_Rename(t *testing.T) {
	c, err := NewCategory("Fasteners", "")
	require.NoError(t, err)

	blank := ""
	assert.Equal(t, "INVALID_CATEGORY", shared.ErrorCode(c.Rename(&blank, nil)))
	assert.Equal(t, 1, c.Version)

	name := "Hardware"
	require.NoError(t, c.Rename(&name, nil))
	assert.Equal(t, "Hardware", c.Name)
	assert.Equal(t, 2, c.Version)
}
