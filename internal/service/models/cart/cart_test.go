package cart

import (
	"testing"

	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, priceCents int64) catalogitem.CatalogItem {
	return catalogitem.CatalogItem{
		ID:            id,
		RestaurantID:  1,
		Name:          "item",
		PriceCents:    priceCents,
		PriceCurrency: currency.CurrencyBRL,
	}
}

func TestCart_AddItemMergesSameItem(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(item(1, 2590), 1))
	require.NoError(t, c.AddItem(item(1, 2590), 2))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestCart_AddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.AddItem(item(1, 100), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(item(1, 100), -3), ErrInvalidQuantity)
	assert.True(t, c.Empty())
}

func TestCart_Subtotal(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(item(1, 2590), 2))
	require.NoError(t, c.AddItem(item(3, 1290), 1))

	assert.Equal(t, int64(6470), c.SubtotalCents())
	assert.Equal(t, 3, c.Count())
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantLines    int
		wantSubtotal int64
	}{
		{name: "positive replaces", quantity: 5, wantLines: 1, wantSubtotal: 500},
		{name: "zero removes", quantity: 0, wantLines: 0, wantSubtotal: 0},
		{name: "negative removes", quantity: -1, wantLines: 0, wantSubtotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.AddItem(item(1, 100), 2))

			c.UpdateQuantity(1, tt.quantity)

			assert.Len(t, c.Lines(), tt.wantLines)
			assert.Equal(t, tt.wantSubtotal, c.SubtotalCents())
		})
	}
}

func TestCart_UpdateQuantityUnknownItemIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 100), 2))

	c.UpdateQuantity(99, 7)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCart_RemoveItem(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 100), 1))
	require.NoError(t, c.AddItem(item(2, 200), 1))

	c.RemoveItem(1)
	c.RemoveItem(42) // absent, no-op

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Item.ID)
}

func TestCart_Clear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 100), 3))

	c.Clear()

	assert.True(t, c.Empty())
	assert.Equal(t, int64(0), c.SubtotalCents())
	assert.Equal(t, 0, c.Count())
}

func TestCart_LinesPreserveInsertionOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(3, 100), 1))
	require.NoError(t, c.AddItem(item(1, 100), 1))
	require.NoError(t, c.AddItem(item(2, 100), 1))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].Item.ID)
	assert.Equal(t, int64(1), lines[1].Item.ID)
	assert.Equal(t, int64(2), lines[2].Item.ID)
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 100), 1))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestCart_RemoveLinesSubtractsSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 2590), 2))
	require.NoError(t, c.AddItem(item(3, 1290), 1))

	snapshot := c.Lines()

	// Additions after the snapshot must survive its removal.
	require.NoError(t, c.AddItem(item(1, 2590), 1))
	require.NoError(t, c.AddItem(item(7, 890), 2))

	c.RemoveLines(snapshot)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].Item.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(7), lines[1].Item.ID)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestCart_RemoveLinesWholeSnapshotEmptiesCart(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 2590), 2))
	require.NoError(t, c.AddItem(item(3, 1290), 1))

	c.RemoveLines(c.Lines())

	assert.True(t, c.Empty())
	assert.Equal(t, int64(0), c.SubtotalCents())
}

func TestCart_RemoveLinesUnknownItemIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(item(1, 100), 1))

	c.RemoveLines([]LineItem{{Item: item(99, 500), Quantity: 3}})

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
