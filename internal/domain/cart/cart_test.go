package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

func fixedProduct(name string, price int64) *entity.Product {
	return &entity.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
	}
}

func weightedProduct(name string, perUnit int64) *entity.Product {
	unit := enum.WeightUnitKilogram
	return &entity.Product{
		ID:           uuid.New(),
		Name:         name,
		IsWeighted:   true,
		PricePerUnit: &perUnit,
		WeightUnit:   &unit,
	}
}

func TestCartMixedBasketTotals(t *testing.T) {
	t.Parallel()

	c := New(0.10)

	soda := fixedProduct("Soda", 999)
	_, err := c.AddProduct(soda)
	require.NoError(t, err)
	_, err = c.AddProduct(soda)
	require.NoError(t, err)

	apples := weightedProduct("Apples", 350)
	_, err = c.AddWeightedProduct(apples, 1.2)
	require.NoError(t, err)

	totals := c.Totals()
	require.Equal(t, int64(2418), totals.Subtotal)
	require.Equal(t, int64(242), totals.Tax)
	require.Equal(t, int64(2660), totals.Total)

	// Two adds of the same product merge into one line, weighted readings
	// stay separate
	require.Len(t, c.Lines(), 2)
}

func TestCartAddProductMergesQuantity(t *testing.T) {
	t.Parallel()

	c := New(0)
	p := fixedProduct("Bread", 250)

	id1, err := c.AddProduct(p)
	require.NoError(t, err)
	id2, err := c.AddProduct(p)
	require.NoError(t, err)

	require.Equal(t, id1, id2)
	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestCartWeightedReadingsNeverMerge(t *testing.T) {
	t.Parallel()

	c := New(0)
	p := weightedProduct("Oranges", 200)

	_, err := c.AddWeightedProduct(p, 0.5)
	require.NoError(t, err)
	_, err = c.AddWeightedProduct(p, 0.8)
	require.NoError(t, err)

	require.Len(t, c.Lines(), 2)
	require.Equal(t, int64(100+160), c.Totals().Subtotal)
}

func TestCartAddWeightedRejectsNonPositiveWeight(t *testing.T) {
	t.Parallel()

	c := New(0)
	p := weightedProduct("Oranges", 200)

	_, err := c.AddWeightedProduct(p, 0)
	require.ErrorIs(t, err, ErrInvalidWeight)
	_, err = c.AddWeightedProduct(p, -1.5)
	require.ErrorIs(t, err, ErrInvalidWeight)
	require.True(t, c.Empty())
}

func TestCartStockCheckVetoesAdd(t *testing.T) {
	t.Parallel()

	c := New(0, WithStockCheck(func(p *entity.Product, requested int) bool {
		return requested <= 1
	}))
	p := fixedProduct("Milk", 150)

	_, err := c.AddProduct(p)
	require.NoError(t, err)

	_, err = c.AddProduct(p)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Milk", stockErr.Product)
	require.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	c := New(0)
	p := fixedProduct("Eggs", 400)
	id, err := c.AddProduct(p)
	require.NoError(t, err)

	require.NoError(t, c.UpdateQuantity(id, 3))
	require.Equal(t, 3, c.Lines()[0].Quantity)

	require.NoError(t, c.UpdateQuantity(id, 0))
	require.True(t, c.Empty())

	require.ErrorIs(t, c.UpdateQuantity(id, 1), ErrLineNotFound)
}

func TestCartUpdateWeightOnUnitLineFails(t *testing.T) {
	t.Parallel()

	c := New(0)
	id, err := c.AddProduct(fixedProduct("Bread", 250))
	require.NoError(t, err)

	require.ErrorIs(t, c.UpdateWeight(id, 1.5), ErrNotWeighted)
}

func TestCartUpdateWeightRecalculates(t *testing.T) {
	t.Parallel()

	c := New(0)
	id, err := c.AddWeightedProduct(weightedProduct("Apples", 300), 1.0)
	require.NoError(t, err)
	require.Equal(t, int64(300), c.Totals().Subtotal)

	require.NoError(t, c.UpdateWeight(id, 2.0))
	require.Equal(t, int64(600), c.Totals().Subtotal)

	// Non-positive weight removes the line
	require.NoError(t, c.UpdateWeight(id, 0))
	require.True(t, c.Empty())
}

func TestCartDiscountBounds(t *testing.T) {
	t.Parallel()

	c := New(0)
	_, err := c.AddProduct(fixedProduct("Soda", 1000))
	require.NoError(t, err)

	require.NoError(t, c.SetDiscount(1000))
	require.Equal(t, int64(0), c.Totals().Total)

	var discountErr *InvalidDiscountError
	require.ErrorAs(t, c.SetDiscount(1001), &discountErr)
	require.ErrorAs(t, c.SetDiscount(-1), &discountErr)

	// Failed discount leaves the previous one in effect
	require.Equal(t, int64(1000), c.Totals().Discount)
}

func TestCartSideBusinessPricing(t *testing.T) {
	t.Parallel()

	c := New(0)

	unpriced := &entity.SideBusinessItem{ID: uuid.New(), Name: "Key cutting"}
	_, err := c.AddSideBusinessItem(unpriced, nil)
	var pricingErr *PricingError
	require.ErrorAs(t, err, &pricingErr)
	require.Equal(t, "Key cutting", pricingErr.LineName)

	custom := int64(500)
	_, err = c.AddSideBusinessItem(unpriced, &custom)
	require.NoError(t, err)
	require.Equal(t, int64(500), c.Totals().Subtotal)

	// Custom price overrides the catalog price
	catalog := int64(300)
	priced := &entity.SideBusinessItem{ID: uuid.New(), Name: "Engraving", Price: &catalog}
	override := int64(250)
	_, err = c.AddSideBusinessItem(priced, &override)
	require.NoError(t, err)
	require.Equal(t, int64(750), c.Totals().Subtotal)
}

func TestCartSideBusinessMergeRequiresSamePrice(t *testing.T) {
	t.Parallel()

	c := New(0)
	catalog := int64(300)
	item := &entity.SideBusinessItem{ID: uuid.New(), Name: "Engraving", Price: &catalog}

	_, err := c.AddSideBusinessItem(item, nil)
	require.NoError(t, err)
	_, err = c.AddSideBusinessItem(item, nil)
	require.NoError(t, err)
	require.Len(t, c.Lines(), 1)
	require.Equal(t, 2, c.Lines()[0].Quantity)

	custom := int64(200)
	_, err = c.AddSideBusinessItem(item, &custom)
	require.NoError(t, err)
	require.Len(t, c.Lines(), 2)
}

func TestCartQuickServiceItem(t *testing.T) {
	t.Parallel()

	c := New(0)

	_, err := c.AddQuickServiceItem(ItemDraft{Name: "Gift wrap"}, nil)
	var pricingErr *PricingError
	require.ErrorAs(t, err, &pricingErr)

	price := int64(150)
	id, err := c.AddQuickServiceItem(ItemDraft{Name: "Gift wrap", Price: &price}, nil)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, RefPendingItem, lines[0].Ref.Kind)
	require.NotNil(t, lines[0].Ref.Draft)
	require.Equal(t, int64(150), c.Totals().Subtotal)

	require.NoError(t, c.Remove(id))
	require.True(t, c.Empty())
}

func TestCartReset(t *testing.T) {
	t.Parallel()

	c := New(0.05)
	_, err := c.AddProduct(fixedProduct("Soda", 999))
	require.NoError(t, err)
	require.NoError(t, c.SetDiscount(100))

	c.Reset()
	require.True(t, c.Empty())
	require.Equal(t, Totals{}, c.Totals())
}

func TestComputeTotalsTaxRounding(t *testing.T) {
	t.Parallel()

	lines := []Line{{Kind: LineUnit, Quantity: 1, UnitPrice: 333}}

	totals, err := ComputeTotals(lines, 0, 0.07)
	require.NoError(t, err)
	// 333 * 0.07 = 23.31, rounds to 23
	require.Equal(t, int64(23), totals.Tax)
	require.Equal(t, int64(356), totals.Total)
}
