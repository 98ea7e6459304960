package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
)

type refundEnv struct {
	svc       *RefundService
	refunds   *fakeRefundRepo
	sales     *fakeSaleRepo
	products  *fakeProductRepo
	side      *fakeSideRepo
	inventory *fakeInventoryRepo

	ctx       context.Context
	tenantID  uuid.UUID
	cashierID uuid.UUID

	sale       *entity.Sale
	soda       *entity.Product
	apples     *entity.Product
	sideItem   *entity.SideBusinessItem
	sodaItem   entity.SaleItem
	applesItem entity.SaleItem
	sideRow    entity.SideBusinessSale
}

// newRefundEnv seeds a committed sale: 2x Soda at 999, one weighted Apples
// reading priced 420, and one side-business Engraving at 500. Tendered in
// full: 2918.
func newRefundEnv(t *testing.T) *refundEnv {
	t.Helper()

	env := &refundEnv{
		sales:     newFakeSaleRepo(),
		products:  newFakeProductRepo(),
		side:      newFakeSideRepo(),
		inventory: &fakeInventoryRepo{},
		tenantID:  uuid.New(),
		cashierID: uuid.New(),
	}
	env.refunds = newFakeRefundRepo(env.sales)
	env.svc = NewRefundService(env.refunds, env.sales, env.products, env.side, env.inventory)
	env.ctx = infraRepo.WithTenant(context.Background(), env.tenantID)

	env.soda = env.products.add(&entity.Product{TenantID: env.tenantID, Name: "Soda", Price: 999, StockQty: 8})
	perUnit := int64(350)
	env.apples = env.products.add(&entity.Product{
		TenantID: env.tenantID, Name: "Apples", IsWeighted: true, PricePerUnit: &perUnit, StockQty: 4,
	})

	stock := 2
	price := int64(500)
	env.sideItem = &entity.SideBusinessItem{TenantID: env.tenantID, Name: "Engraving", Price: &price, StockQty: &stock}
	require.NoError(t, env.side.CreateItem(context.Background(), env.sideItem))

	sale := &entity.Sale{
		ID:             uuid.New(),
		TenantID:       env.tenantID,
		ReceiptNo:      "R-0001",
		Datetime:       time.Now(),
		OrderTotal:     2918,
		AmountTendered: 2918,
		PaymentMethod:  enum.PaymentMethodCash,
		CashierID:      env.cashierID,
	}

	weight := 1.2
	calc := int64(420)
	env.sodaItem = entity.SaleItem{
		ID: uuid.New(), SaleID: sale.ID, ProductID: env.soda.ID, Quantity: 2, PriceEach: 999,
	}
	env.applesItem = entity.SaleItem{
		ID: uuid.New(), SaleID: sale.ID, ProductID: env.apples.ID, Quantity: 1,
		PriceEach: 350, Weight: &weight, CalculatedPrice: &calc,
	}
	env.sideRow = entity.SideBusinessSale{
		ID: uuid.New(), TenantID: env.tenantID, SaleID: sale.ID, ItemID: env.sideItem.ID,
		Quantity: 1, PriceEach: 500, TotalAmount: 500, PaymentMethod: enum.PaymentMethodCash,
	}

	sale.Items = []entity.SaleItem{env.sodaItem, env.applesItem}
	sale.SideSales = []entity.SideBusinessSale{env.sideRow}
	require.NoError(t, env.sales.Create(context.Background(), sale))
	env.sale = sale
	return env
}

func TestRemainingRefundableTracksRunningSum(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	remaining, err := env.svc.RemainingRefundable(env.ctx, env.sale.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2918), remaining)

	state, err := env.svc.GetRefundState(env.ctx, env.sale.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RefundStateUnrefunded, state)

	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sideRow.ID, Quantity: 1}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	remaining, err = env.svc.RemainingRefundable(env.ctx, env.sale.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2418), remaining)

	state, err = env.svc.GetRefundState(env.ctx, env.sale.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RefundStatePartiallyRefunded, state)
}

func TestProcessFullRefundWithRestock(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	refunds, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Restock:   true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, int64(2918), refunds[0].RefundAmount)
	require.Equal(t, env.sale.ID, refunds[0].OriginalSaleID)

	// Restock: 2 sodas, 1 weighted reading, 1 side-business unit
	require.Equal(t, 10, env.products.products[env.soda.ID].StockQty)
	require.Equal(t, 5, env.products.products[env.apples.ID].StockQty)
	require.Equal(t, 3, *env.side.items[env.sideItem.ID].StockQty)

	require.Len(t, env.inventory.movements, 2)
	for _, m := range env.inventory.movements {
		require.Equal(t, enum.MovementTypeReturn, m.MovementType)
		require.Greater(t, m.QuantityChange, 0)
		require.Equal(t, refunds[0].ID, *m.ReferenceID)
	}

	state, err := env.svc.GetRefundState(env.ctx, env.sale.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RefundStateFullyRefunded, state)

	// A second attempt against the exhausted sale rejects with no new rows
	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.ErrorIs(t, err, repository.ErrOverRefund)
	require.Len(t, env.refunds.refunds, 1)
}

func TestProcessFullRefundAfterPartialRestocksOnlyRemainder(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	// Partial refund of one soda, restocked: 8 -> 9
	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 1, Restock: true}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 9, env.products.products[env.soda.ID].StockQty)

	// Full refund of the remainder restocks only what the partial left behind
	refunds, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Restock:   true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1919), refunds[0].RefundAmount)

	// The sale removed 2 sodas from a stock of 10; restoring past 10 would
	// create units that were never sold
	require.Equal(t, 10, env.products.products[env.soda.ID].StockQty)
	require.Equal(t, 5, env.products.products[env.apples.ID].StockQty)
	require.Equal(t, 3, *env.side.items[env.sideItem.ID].StockQty)
}

func TestProcessFullRefundAfterPartialSideRowRestocksOnlyRemainder(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	// Refund the side-business row first, restocked: 2 -> 3
	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sideRow.ID, Quantity: 1, Restock: true}},
		Reason:    "Service not rendered",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 3, *env.side.items[env.sideItem.ID].StockQty)

	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Restock:   true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Side stock stays at 3; the product lines restock in full
	require.Equal(t, 3, *env.side.items[env.sideItem.ID].StockQty)
	require.Equal(t, 10, env.products.products[env.soda.ID].StockQty)
	require.Equal(t, 5, env.products.products[env.apples.ID].StockQty)
}

func TestProcessFullRefundWithoutRestockLeavesStock(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Reason:    "Wrong change given",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 8, env.products.products[env.soda.ID].StockQty)
	require.Equal(t, 2, *env.side.items[env.sideItem.ID].StockQty)
	require.Empty(t, env.inventory.movements)
}

func TestProcessPartialRefundPerLine(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	refunds, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 1, Restock: true}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, int64(999), refunds[0].RefundAmount)
	require.Equal(t, 1, refunds[0].QuantityRefunded)
	require.Equal(t, env.sodaItem.ID, *refunds[0].SaleItemID)

	require.Equal(t, 9, env.products.products[env.soda.ID].StockQty)
	require.Len(t, env.inventory.movements, 1)
	require.Equal(t, 1, env.inventory.movements[0].QuantityChange)
}

func TestProcessPartialRefundQuantityExceedsSold(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 3}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.Error(t, err)
	require.Empty(t, env.refunds.refunds)
}

func TestProcessPartialRefundWeightedLineIsAllOrNothing(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	// One weighted reading refunds at its calculated price, not PriceEach
	refunds, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.applesItem.ID, Quantity: 1, Restock: true}},
		Reason:    "Spoiled produce",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, int64(420), refunds[0].RefundAmount)

	// The reading restocks as one unit regardless of weight
	require.Equal(t, 5, env.products.products[env.apples.ID].StockQty)
}

func TestProcessPartialRefundSideBusinessRow(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	refunds, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sideRow.ID, Quantity: 1, Restock: true}},
		Reason:    "Service not rendered",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, int64(500), refunds[0].RefundAmount)
	require.Nil(t, refunds[0].SaleItemID)

	require.Equal(t, 3, *env.side.items[env.sideItem.ID].StockQty)
	// Side-business restock writes no product movement
	require.Empty(t, env.inventory.movements)
}

func TestProcessRefundOverRemainingRejects(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	// Take most of the sale first
	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 2}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Remaining is 920; another soda at 999 must fail with nothing persisted
	before := len(env.refunds.refunds)
	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 1}},
		Reason:    "Customer changed mind",
		Method:    enum.PaymentMethodCash,
	})
	require.ErrorIs(t, err, repository.ErrOverRefund)
	require.Len(t, env.refunds.refunds, before)
}

func TestProcessRefundValidation(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)

	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Method:    enum.PaymentMethodCash,
	})
	require.ErrorIs(t, err, ErrMissingReason)

	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Full:      true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethod("voucher"),
	})
	require.Error(t, err)

	// Partial with nothing selected
	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: env.sodaItem.ID, Quantity: 0}},
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.ErrorIs(t, err, ErrEmptySelection)

	// Unknown line
	_, err = env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    env.sale.ID,
		CashierID: env.cashierID,
		Lines:     []RefundLineInput{{LineID: uuid.New(), Quantity: 1}},
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.Error(t, err)

	require.Empty(t, env.refunds.refunds)
}

func TestProcessRefundUnknownSale(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)
	_, err := env.svc.ProcessRefund(env.ctx, &RefundInput{
		SaleID:    uuid.New(),
		CashierID: env.cashierID,
		Full:      true,
		Reason:    "Damaged goods",
		Method:    enum.PaymentMethodCash,
	})
	require.Error(t, err)
}

func TestRefundReasonsNonEmpty(t *testing.T) {
	t.Parallel()

	env := newRefundEnv(t)
	require.NotEmpty(t, env.svc.RefundReasons())
}
