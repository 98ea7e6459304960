package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/pos-api/internal/domain/cart"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
)

type checkoutEnv struct {
	svc       *CheckoutService
	products  *fakeProductRepo
	sales     *fakeSaleRepo
	side      *fakeSideRepo
	customers *fakeCustomerRepo
	inventory *fakeInventoryRepo
	tenants   *fakeTenantRepo
	users     *fakeUserRepo

	ctx       context.Context
	tenantID  uuid.UUID
	cashierID uuid.UUID
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	env := &checkoutEnv{
		products:  newFakeProductRepo(),
		sales:     newFakeSaleRepo(),
		side:      newFakeSideRepo(),
		customers: newFakeCustomerRepo(),
		inventory: &fakeInventoryRepo{},
		tenants:   newFakeTenantRepo(),
		users:     newFakeUserRepo(),
		tenantID:  uuid.New(),
	}

	tenant := &entity.Tenant{
		ID:      env.tenantID,
		Name:    "Corner Store",
		Address: "12 Main Rd",
		Phone:   "0211234567",
		TaxID:   "VAT-99887",
	}
	require.NoError(t, env.tenants.Create(context.Background(), tenant))

	cashier := &entity.User{TenantID: env.tenantID, Username: "ayanda", Email: "ayanda@example.com"}
	require.NoError(t, env.users.Create(context.Background(), cashier))
	env.cashierID = cashier.ID

	env.svc = NewCheckoutService(
		env.sales,
		env.products,
		env.side,
		env.customers,
		env.inventory,
		env.tenants,
		env.users,
		0.10,
		true,
	)
	env.ctx = infraRepo.WithTenant(context.Background(), env.tenantID)
	return env
}

func (e *checkoutEnv) addProduct(name string, price int64, stock int) *entity.Product {
	return e.products.add(&entity.Product{
		TenantID: e.tenantID,
		Name:     name,
		Price:    price,
		StockQty: stock,
	})
}

func (e *checkoutEnv) addWeightedProduct(name string, perUnit int64, stock int) *entity.Product {
	unit := enum.WeightUnitKilogram
	return e.products.add(&entity.Product{
		TenantID:     e.tenantID,
		Name:         name,
		IsWeighted:   true,
		PricePerUnit: &perUnit,
		WeightUnit:   &unit,
		StockQty:     stock,
	})
}

// basketLines builds cart lines the way the handler does: through the cart.
func basketLines(t *testing.T, build func(c *cart.Cart)) []cart.Line {
	t.Helper()
	c := cart.New(0)
	build(c)
	return c.Lines()
}

func TestCommitSaleCashHappyPath(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 10)
	apples := env.addWeightedProduct("Apples", 350, 5)

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
		_, err = c.AddProduct(soda)
		require.NoError(t, err)
		_, err = c.AddWeightedProduct(apples, 1.2)
		require.NoError(t, err)
	})

	cashGiven := int64(3000)
	result, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
		CashGiven:     &cashGiven,
	})
	require.NoError(t, err)

	// 2x999 + round(1.2*350) = 2418 subtotal, 10% tax = 242
	require.Equal(t, int64(2660), result.Sale.OrderTotal)
	require.Equal(t, int64(2660), result.Sale.AmountTendered)
	require.Equal(t, int64(340), result.Change)
	require.False(t, result.Sale.PartialPayment)
	require.NotEmpty(t, result.Sale.ReceiptNo)

	// Stock moved before the header landed
	require.Equal(t, 8, env.products.products[soda.ID].StockQty)
	require.Equal(t, 4, env.products.products[apples.ID].StockQty)

	require.Len(t, env.sales.items, 2)
	require.Len(t, env.inventory.movements, 2)
	for _, m := range env.inventory.movements {
		require.Equal(t, enum.MovementTypeSale, m.MovementType)
		require.Less(t, m.QuantityChange, 0)
		require.Equal(t, result.Sale.ID, *m.ReferenceID)
	}

	require.NotNil(t, result.Receipt)
	require.Equal(t, "Corner Store", result.Receipt.Header.StoreName)
	require.Equal(t, "12 Main Rd", result.Receipt.Header.Address)
	require.Equal(t, "0211234567", result.Receipt.Header.Phone)
	require.Equal(t, "VAT-99887", result.Receipt.Header.TaxID)
	require.Equal(t, "ayanda", result.Receipt.Cashier)
	require.InDelta(t, 26.60, result.Receipt.Total, 0.001)
	require.InDelta(t, 3.40, result.Receipt.Change, 0.001)
	require.Len(t, result.Receipt.Items, 2)
}

func TestCommitSaleInsufficientStockRejectsBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 1)

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
		_, err = c.AddProduct(soda)
		require.NoError(t, err)
	})

	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCard,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Insufficient stock")

	require.Equal(t, 1, env.products.products[soda.ID].StockQty)
	require.Empty(t, env.sales.sales)
	require.Empty(t, env.sales.items)
	require.Empty(t, env.inventory.movements)
}

func TestCommitSalePartialPayment(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	tv := env.addProduct("Television", 100000, 3)

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(tv)
		require.NoError(t, err)
	})

	// 100000 + 10% tax = 110000 total; pay 40000 now
	partial := int64(40000)
	result, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCard,
		PartialAmount: &partial,
	})
	require.NoError(t, err)

	require.Equal(t, int64(110000), result.Sale.OrderTotal)
	require.Equal(t, int64(40000), result.Sale.AmountTendered)
	require.True(t, result.Sale.PartialPayment)
	require.Equal(t, int64(40000), *result.Sale.PartialAmount)
	require.Equal(t, int64(70000), *result.Sale.RemainingAmount)
}

func TestCommitSalePartialAmountAtTotalRejects(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	tv := env.addProduct("Television", 100000, 3)

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(tv)
		require.NoError(t, err)
	})

	partial := int64(110000)
	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCard,
		PartialAmount: &partial,
	})
	require.ErrorIs(t, err, cart.ErrInvalidPartialAmount)
	require.Equal(t, 3, env.products.products[tv.ID].StockQty)
	require.Empty(t, env.sales.sales)
}

func TestCommitSaleEmptyCartRejects(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		PaymentMethod: enum.PaymentMethodCash,
	})
	require.Error(t, err)
	require.Empty(t, env.sales.sales)
}

func TestCommitSaleInvalidPaymentMethodRejects(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 10)
	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
	})

	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethod("cheque"),
	})
	require.Error(t, err)
	require.Empty(t, env.sales.sales)
}

func TestCommitSaleInsufficientCashRejects(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 10)
	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
	})

	// 999 + 10% = 1099 due; 1000 tendered is short
	cashGiven := int64(1000)
	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
		CashGiven:     &cashGiven,
	})
	require.ErrorIs(t, err, cart.ErrInsufficientCash)
	require.Equal(t, 10, env.products.products[soda.ID].StockQty)
	require.Empty(t, env.sales.sales)
}

func TestCommitSaleQuickServiceItemMaterialized(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)

	price := int64(150)
	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddQuickServiceItem(cart.ItemDraft{Name: "Gift wrap", Price: &price}, nil)
		require.NoError(t, err)
	})

	result, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	// The pending item became a catalog entry and a side-business sale row
	require.Len(t, env.side.items, 1)
	require.Len(t, env.side.sales, 1)
	row := env.side.sales[0]
	require.Equal(t, result.Sale.ID, row.SaleID)
	require.Equal(t, int64(150), row.PriceEach)
	require.Equal(t, int64(150), row.TotalAmount)

	for _, item := range env.side.items {
		require.Equal(t, "Gift wrap", item.Name)
		require.Equal(t, int64(150), *item.Price)
	}
}

func TestCommitSaleSideBusinessStockDecrement(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	stock := 3
	catalogPrice := int64(500)
	item := &entity.SideBusinessItem{
		TenantID: env.tenantID,
		Name:     "Engraving",
		Price:    &catalogPrice,
		StockQty: &stock,
	}
	require.NoError(t, env.side.CreateItem(context.Background(), item))

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddSideBusinessItem(item, nil)
		require.NoError(t, err)
		_, err = c.AddSideBusinessItem(item, nil)
		require.NoError(t, err)
	})

	_, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 1, *env.side.items[item.ID].StockQty)
}

func TestCommitSaleLoyaltyAccrual(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 10)
	customer := &entity.Customer{TenantID: env.tenantID, Name: "Thandi"}
	require.NoError(t, env.customers.Create(context.Background(), customer))

	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
		_, err = c.AddProduct(soda)
		require.NoError(t, err)
	})

	result, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCard,
		CustomerID:    &customer.ID,
	})
	require.NoError(t, err)

	// 1998 + 10% tax = 2198 total, one point per full 100 cents
	require.Equal(t, customer.ID, *result.Sale.CustomerID)
	require.Equal(t, 21, env.customers.customers[customer.ID].LoyaltyPoints)
}

func TestCommitSaleResolvesCustomerByName(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	soda := env.addProduct("Soda", 999, 10)
	lines := basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
	})

	result, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
		CustomerName:  "Walk-in Joe",
		CustomerPhone: "0712345678",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sale.CustomerID)

	created, err := env.customers.GetByName(context.Background(), "Walk-in Joe")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, created.ID, *result.Sale.CustomerID)
	require.Equal(t, "0712345678", created.Phone)

	// A second sale under the same name reuses the customer
	lines = basketLines(t, func(c *cart.Cart) {
		_, err := c.AddProduct(soda)
		require.NoError(t, err)
	})
	result2, err := env.svc.CommitSale(env.ctx, &CheckoutInput{
		CashierID:     env.cashierID,
		Lines:         lines,
		PaymentMethod: enum.PaymentMethodCash,
		CustomerName:  "Walk-in Joe",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, *result2.Sale.CustomerID)
	require.Len(t, env.customers.customers, 1)
}

func TestCommitSaleWithoutTenantContextRejects(t *testing.T) {
	t.Parallel()

	env := newCheckoutEnv(t)
	_, err := env.svc.CommitSale(context.Background(), &CheckoutInput{
		CashierID:     env.cashierID,
		PaymentMethod: enum.PaymentMethodCash,
	})
	require.Error(t, err)
}
