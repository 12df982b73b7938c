package cart

import (
	"testing"

	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.CartConfig {
	return config.CartConfig{ShippingFee: 10}
}

func item(id string, price float64, stock int) domain.CatalogItem {
	return domain.CatalogItem{
		ID:        id,
		Code:      "SKU-" + id,
		Name:      "Item " + id,
		UnitPrice: price,
		Category:  domain.CategorySupplies,
		Inventory: &domain.InventorySummary{TotalQuantity: stock, AvailableQuantity: stock},
	}
}

func TestAddItemCoalescesAndClamps(t *testing.T) {
	s := NewStore(testConfig())

	s.AddItem(item("x", 5, 4), 2)
	s.AddItem(item("x", 5, 4), 3)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, "SKU-x", lines[0].SKU)
}

func TestAddItemDefaultsToOne(t *testing.T) {
	s := NewStore(testConfig())

	s.AddItem(item("x", 5, 10), 0)

	assert.Equal(t, 1, s.Quantity("x"))
}

func TestAddItemWithoutStockIsIgnored(t *testing.T) {
	s := NewStore(testConfig())

	s.AddItem(item("x", 5, 0), 1)
	out := domain.CatalogItem{ID: "y", UnitPrice: 3}
	s.AddItem(out, 1)

	assert.Empty(t, s.Lines())
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("x", 5, 3), 1)

	s.UpdateQuantity("x", 99)
	assert.Equal(t, 3, s.Quantity("x"))

	s.UpdateQuantity("x", 2)
	assert.Equal(t, 2, s.Quantity("x"))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("x", 5, 3), 2)

	s.UpdateQuantity("x", 0)

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.Quantity("x"))
}

func TestQuantityInvariantUnderMixedOperations(t *testing.T) {
	s := NewStore(testConfig())
	ops := []func(){
		func() { s.AddItem(item("a", 2, 5), 3) },
		func() { s.AddItem(item("b", 7, 2), 10) },
		func() { s.UpdateQuantity("a", -4) },
		func() { s.AddItem(item("a", 2, 5), 1) },
		func() { s.UpdateQuantity("b", 1) },
		func() { s.AddItem(item("b", 7, 2), 4) },
		func() { s.UpdateQuantity("a", 100) },
	}

	for _, op := range ops {
		op()
		for _, line := range s.Lines() {
			require.GreaterOrEqual(t, line.Quantity, 1)
			require.LessOrEqual(t, line.Quantity, line.Stock)
		}
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("a", 2, 5), 1)
	s.AddItem(item("b", 3, 5), 1)

	s.RemoveItem("a")
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "b", s.Lines()[0].ItemID)

	s.Clear()
	assert.Empty(t, s.Lines())
	assert.Equal(t, Totals{}, s.Totals())
}

func TestTotals(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("a", 20, 10), 2) // 40
	s.AddItem(item("b", 15, 10), 1) // 15

	totals := s.Totals()
	assert.Equal(t, 3, totals.Items)
	assert.InDelta(t, 55, totals.Subtotal, 1e-9)
	assert.InDelta(t, 10, totals.Shipping, 1e-9)
	assert.InDelta(t, 65, totals.Total, 1e-9)
}

func TestShippingChargedOnEveryNonEmptyCart(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("a", 150, 10), 1)

	totals := s.Totals()
	assert.InDelta(t, 10, totals.Shipping, 1e-9)
	assert.InDelta(t, 160, totals.Total, 1e-9)
}

func TestShippingThresholdExemptsSmallOrders(t *testing.T) {
	s := NewStore(config.CartConfig{ShippingFee: 10, ShippingFeeThreshold: 100})

	s.AddItem(item("a", 100, 10), 1)
	assert.InDelta(t, 0, s.Totals().Shipping, 1e-9, "fee applies strictly above the threshold")

	s.AddItem(item("b", 1, 10), 1)
	assert.InDelta(t, 10, s.Totals().Shipping, 1e-9)
}

func TestEmptyCartHasNoShipping(t *testing.T) {
	s := NewStore(testConfig())

	assert.InDelta(t, 0, s.Totals().Shipping, 1e-9)
}

func TestStockCeilingIsSnapshotFromFirstAdd(t *testing.T) {
	s := NewStore(testConfig())
	s.AddItem(item("x", 5, 3), 1)

	// A later snapshot with more stock does not lift the recorded ceiling.
	s.AddItem(item("x", 5, 50), 10)

	assert.Equal(t, 3, s.Quantity("x"))
}
