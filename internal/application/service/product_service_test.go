package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
)

func TestCreateProductRoundsDecimalPrices(t *testing.T) {
	t.Parallel()

	products := newFakeProductRepo()
	svc := NewProductService(products, &fakeInventoryRepo{})
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	// 29.99 is not exactly representable; truncation would store 2998
	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:  "Olive oil",
		Price: 29.99,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2999), product.Price)

	perUnit := 3.50
	newPrice := 19.99
	updated, err := svc.UpdateProduct(ctx, product.ID, &UpdateProductInput{
		Price:        &newPrice,
		PricePerUnit: &perUnit,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1999), updated.Price)
	require.Equal(t, int64(350), *updated.PricePerUnit)
}

func TestAdjustStockWritesMovement(t *testing.T) {
	t.Parallel()

	products := newFakeProductRepo()
	inventory := &fakeInventoryRepo{}
	svc := NewProductService(products, inventory)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	product, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Soda", Price: 9.99, StockQty: 5})
	require.NoError(t, err)

	actor := uuid.New()
	require.NoError(t, svc.AdjustStock(ctx, &AdjustStockInput{ProductID: product.ID, Change: 3, ActorID: actor}))
	require.Equal(t, 8, products.products[product.ID].StockQty)
	require.Len(t, inventory.movements, 1)
	require.Equal(t, 3, inventory.movements[0].QuantityChange)

	// A decrement past zero is rejected and journals nothing
	err = svc.AdjustStock(ctx, &AdjustStockInput{ProductID: product.ID, Change: -20, ActorID: actor})
	require.Error(t, err)
	require.Equal(t, 8, products.products[product.ID].StockQty)
	require.Len(t, inventory.movements, 1)
}
