package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRow(saleID, itemID int64, name string, qty int, price string, addons *string) OrderRow {
	return OrderRow{
		SaleID:              saleID,
		OrderType:           "Dine-in",
		PaymentMethod:       "Cash",
		CashierName:         "ana",
		CreatedAt:           time.Date(2025, 3, 7, 14, 5, 0, 0, time.UTC),
		TotalDiscountAmount: decimal.RequireFromString("10"),
		Status:              "processing",
		SaleItemID:          &itemID,
		ItemName:            &name,
		Quantity:            &qty,
		UnitPrice:           decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Category:            strPtr("Coffee"),
		Addons:              addons,
	}
}

func strPtr(v string) *string { return &v }

func TestAggregateFoldsRowsPerSale(t *testing.T) {
	rows := []OrderRow{
		itemRow(7, 1, "Latte", 2, "100", strPtr(`{"espressoShots":1}`)),
		itemRow(3, 4, "Mocha", 1, "120", nil),
		itemRow(7, 2, "Croissant", 1, "55.50", nil),
	}

	views := NewAggregator("SO-").Aggregate(rows)
	require.Len(t, views, 2)

	first := views[0]
	assert.Equal(t, "SO-7", first.ID)
	assert.Equal(t, int64(7), first.SaleID())
	assert.Equal(t, "March 07, 2025 02:05 PM", first.Date)
	assert.Equal(t, 3, first.ItemCount)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Latte", first.Items[0].Name)
	assert.Equal(t, map[string]any{"espressoShots": float64(1)}, first.Items[0].Addons)
	assert.Equal(t, "Croissant", first.Items[1].Name)
	assert.Equal(t, 55.5, first.Items[1].Price)
	assert.Equal(t, 245.5, first.Total)

	assert.Equal(t, "SO-3", views[1].ID)
	assert.Equal(t, 110.0, views[1].Total)
}

func TestAggregateOrderWithoutItems(t *testing.T) {
	row := OrderRow{
		SaleID:              9,
		CreatedAt:           time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC),
		TotalDiscountAmount: decimal.RequireFromString("15"),
		Status:              "completed",
	}

	views := NewAggregator("SO-").Aggregate([]OrderRow{row})
	require.Len(t, views, 1)
	assert.Zero(t, views[0].ItemCount)
	assert.NotNil(t, views[0].Items)
	assert.Empty(t, views[0].Items)
	assert.Equal(t, -15.0, views[0].Total)
}

func TestAggregateTolerantAddonDecoding(t *testing.T) {
	rows := []OrderRow{
		itemRow(1, 1, "Latte", 1, "100", strPtr(`not json`)),
		itemRow(1, 2, "Mocha", 1, "100", strPtr(`null`)),
		itemRow(1, 3, "Tea", 1, "100", strPtr(``)),
	}

	views := NewAggregator("SO-").Aggregate(rows)
	require.Len(t, views, 1)
	for _, item := range views[0].Items {
		assert.NotNil(t, item.Addons, item.Name)
		assert.Empty(t, item.Addons, item.Name)
	}
}

func TestAggregateEmpty(t *testing.T) {
	views := NewAggregator("SO-").Aggregate(nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
