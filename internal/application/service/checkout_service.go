package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/cart"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// CommitError reports the step of the commit sequence that failed. Steps
// after the sale header write are not compensated; the caller must surface
// the failure for manual reconciliation.
type CommitError struct {
	Step string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("sale commit failed at step %q: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Commit step names carried on CommitError
const (
	StepStockDecrement = "stock_decrement"
	StepSaleHeader     = "sale_header"
	StepSaleItems      = "sale_items"
	StepSideBusiness   = "side_business"
	StepMovements      = "inventory_movements"
)

// CheckoutService converts a finalized cart plus payment selection into a
// persisted sale: header, line items, stock decrements, inventory movements,
// loyalty accrual, and lazily-created side-business catalog entries.
type CheckoutService struct {
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	sideRepo      repository.SideBusinessRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
	tenantRepo    repository.TenantRepository
	userRepo      repository.UserRepository

	taxRate        float64
	loyaltyEnabled bool
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sideRepo repository.SideBusinessRepository,
	customerRepo repository.CustomerRepository,
	inventoryRepo repository.InventoryRepository,
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	taxRate float64,
	loyaltyEnabled bool,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		sideRepo:       sideRepo,
		customerRepo:   customerRepo,
		inventoryRepo:  inventoryRepo,
		tenantRepo:     tenantRepo,
		userRepo:       userRepo,
		taxRate:        taxRate,
		loyaltyEnabled: loyaltyEnabled,
	}
}

// CheckoutInput is the commit request assembled from the cashier's session.
type CheckoutInput struct {
	CashierID     uuid.UUID
	Lines         []cart.Line
	Discount      int64 // cents
	PaymentMethod enum.PaymentMethod
	CashGiven     *int64 // cents, cash tenders only
	CustomerID    *uuid.UUID
	CustomerName  string // resolve-or-create when no ID is given
	CustomerPhone string
	PartialAmount *int64 // cents; nil means full payment
	PartialNotes  *string
	Notes         *string
}

// CheckoutResult carries the persisted sale and the receipt payload handed
// to the rendering collaborator.
type CheckoutResult struct {
	Sale    *entity.Sale    `json:"sale"`
	Receipt *entity.Receipt `json:"receipt"`
	Change  int64           `json:"-"`
}

// CommitSale runs the sale commit sequence. Validation failures reject
// before any write; failures after the header write surface a CommitError
// and leave earlier writes in place.
func (s *CheckoutService) CommitSale(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	var branchID *uuid.UUID
	if id, ok := infraRepo.GetBranchID(ctx); ok {
		branchID = &id
	}

	if len(input.Lines) == 0 {
		return nil, apperror.NewBadRequestError("Cannot commit an empty sale")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	totals, err := cart.ComputeTotals(input.Lines, input.Discount, s.taxRate)
	if err != nil {
		return nil, apperror.Wrap(err, 422, err.Error())
	}

	// Partial payment reconciliation: amount due now is the partial amount
	// when one is selected, otherwise the full total
	var partial *cart.PartialPayment
	if input.PartialAmount != nil {
		partial, err = cart.NewPartialPayment(totals.Total, *input.PartialAmount)
		if err != nil {
			return nil, apperror.Wrap(err, 422, "Partial amount must be greater than zero and less than the order total")
		}
	}
	amountTendered := cart.AmountDue(totals.Total, partial)

	var change int64
	if input.PaymentMethod == enum.PaymentMethodCash && input.CashGiven != nil {
		change, err = cart.CashChange(amountTendered, *input.CashGiven)
		if err != nil {
			return nil, apperror.Wrap(err, 422, "Cash given is less than the amount due")
		}
	}

	customer := s.resolveCustomer(ctx, tenantID, branchID, input)

	// Atomic conditional stock decrement happens before any sale row is
	// written, so insufficient stock rejects the whole commit cleanly
	stockDecrements := make(map[uuid.UUID]int)
	productNames := make(map[uuid.UUID]string)
	for i := range input.Lines {
		l := &input.Lines[i]
		if l.Ref.Kind != cart.RefProduct {
			continue
		}
		qty := l.Quantity
		if l.Kind == cart.LineWeighted {
			// Weighted products count readings, not weight
			qty = 1
		}
		stockDecrements[l.Ref.ProductID] += qty
		productNames[l.Ref.ProductID] = l.Name
	}

	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, &CommitError{Step: StepStockDecrement, Err: err}
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			failedNames = append(failedNames, productNames[id])
		}
		return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	sale := &entity.Sale{
		TenantID:        tenantID,
		BranchID:        branchID,
		ReceiptNo:       utils.GenerateReceiptNo(),
		Datetime:        time.Now(),
		OrderTotal:      totals.Total,
		AmountTendered:  amountTendered,
		DiscountApplied: totals.Discount,
		PaymentMethod:   input.PaymentMethod,
		CashierID:       input.CashierID,
		PartialNotes:    input.PartialNotes,
		Notes:           input.Notes,
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
	}
	if partial != nil {
		remaining := partial.Remaining()
		sale.PartialPayment = true
		sale.PartialAmount = &partial.AmountNow
		sale.RemainingAmount = &remaining
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Header never landed, so the decrement can still be undone
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, &CommitError{Step: StepSaleHeader, Err: err}
	}

	items, movements, err := s.buildProductRows(input.Lines, sale, tenantID, branchID, input.CashierID)
	if err != nil {
		return nil, &CommitError{Step: StepSaleItems, Err: err}
	}

	if err := s.saleRepo.CreateItems(ctx, items); err != nil {
		return nil, &CommitError{Step: StepSaleItems, Err: err}
	}

	if err := s.commitSideBusinessLines(ctx, input, sale, tenantID, branchID); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.CreateBatch(ctx, movements); err != nil {
		return nil, &CommitError{Step: StepMovements, Err: err}
	}

	// Loyalty accrual is best-effort and must never fail the sale
	if s.loyaltyEnabled && customer != nil && totals.Total > 0 {
		points := int(totals.Total / 100)
		if points > 0 {
			if err := s.customerRepo.AddLoyaltyPoints(ctx, customer.ID, points); err != nil {
				log.Printf("Warning: loyalty accrual failed for customer %s: %v", customer.ID, err)
			}
		}
	}

	receipt := s.buildReceipt(ctx, sale, input.Lines, totals, customer, change, input.CashGiven)

	return &CheckoutResult{Sale: sale, Receipt: receipt, Change: change}, nil
}

// resolveCustomer looks up the customer by ID, then by name, creating one if
// absent. Every failure is logged and swallowed: the sale proceeds anonymous.
func (s *CheckoutService) resolveCustomer(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, input *CheckoutInput) *entity.Customer {
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			log.Printf("Warning: customer lookup failed: %v", err)
			return nil
		}
		return customer
	}

	if input.CustomerName == "" {
		return nil
	}

	customer, err := s.customerRepo.GetByName(ctx, input.CustomerName)
	if err != nil {
		log.Printf("Warning: customer lookup by name failed: %v", err)
		return nil
	}
	if customer != nil {
		return customer
	}

	customer = &entity.Customer{
		TenantID: tenantID,
		BranchID: branchID,
		Name:     input.CustomerName,
		Phone:    input.CustomerPhone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		log.Printf("Warning: customer creation failed: %v", err)
		return nil
	}
	return customer
}

// buildProductRows turns product-backed cart lines into persisted sale items
// and their matching inventory movements.
func (s *CheckoutService) buildProductRows(lines []cart.Line, sale *entity.Sale, tenantID uuid.UUID, branchID *uuid.UUID, cashierID uuid.UUID) ([]entity.SaleItem, []entity.InventoryMovement, error) {
	var items []entity.SaleItem
	var movements []entity.InventoryMovement

	for i := range lines {
		l := &lines[i]
		if l.Ref.Kind != cart.RefProduct {
			continue
		}

		item := entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: l.Ref.ProductID,
			Quantity:  l.Quantity,
		}

		qtyChange := l.Quantity
		if l.Kind == cart.LineWeighted {
			calc, err := cart.LineTotal(l)
			if err != nil {
				return nil, nil, err
			}
			weight := l.Weight
			item.Weight = &weight
			item.CalculatedPrice = &calc
			item.PriceEach = l.PricePerUnit
			qtyChange = 1
		} else {
			item.PriceEach = l.UnitPrice
		}
		items = append(items, item)

		saleID := sale.ID
		movements = append(movements, entity.InventoryMovement{
			TenantID:       tenantID,
			BranchID:       branchID,
			ProductID:      l.Ref.ProductID,
			QuantityChange: -qtyChange,
			MovementType:   enum.MovementTypeSale,
			ReferenceID:    &saleID,
			CreatedBy:      cashierID,
		})
	}

	return items, movements, nil
}

// commitSideBusinessLines materializes pending quick-service items and writes
// the side-business sale rows. Stock is decremented only for items that track
// it; a failed decrement after the sale row landed is logged, not fatal.
func (s *CheckoutService) commitSideBusinessLines(ctx context.Context, input *CheckoutInput, sale *entity.Sale, tenantID uuid.UUID, branchID *uuid.UUID) error {
	for i := range input.Lines {
		l := &input.Lines[i]
		if l.Kind != cart.LineSideBusiness {
			continue
		}

		itemID := l.Ref.ItemID
		if l.Ref.Kind == cart.RefPendingItem {
			draft := l.Ref.Draft
			item := &entity.SideBusinessItem{
				TenantID: tenantID,
				BranchID: branchID,
				Name:     draft.Name,
				Price:    draft.Price,
			}
			if draft.Notes != "" {
				notes := draft.Notes
				item.Notes = &notes
			}
			if err := s.sideRepo.CreateItem(ctx, item); err != nil {
				return &CommitError{Step: StepSideBusiness, Err: err}
			}
			itemID = item.ID
		}

		price := l.CustomPrice
		if price == nil {
			price = l.CatalogPrice
		}
		if price == nil {
			return &CommitError{Step: StepSideBusiness, Err: &cart.PricingError{LineName: l.Name}}
		}

		row := &entity.SideBusinessSale{
			TenantID:      tenantID,
			BranchID:      branchID,
			SaleID:        sale.ID,
			ItemID:        itemID,
			Quantity:      l.Quantity,
			PriceEach:     *price,
			TotalAmount:   *price * int64(l.Quantity),
			PaymentMethod: input.PaymentMethod,
		}
		if err := s.sideRepo.CreateSale(ctx, row); err != nil {
			return &CommitError{Step: StepSideBusiness, Err: err}
		}

		ok, err := s.sideRepo.AtomicDecrementStock(ctx, itemID, l.Quantity)
		if err != nil || !ok {
			log.Printf("Warning: side-business stock decrement failed for item %s: ok=%v err=%v", itemID, ok, err)
		}
	}
	return nil
}

func (s *CheckoutService) buildReceipt(ctx context.Context, sale *entity.Sale, lines []cart.Line, totals cart.Totals, customer *entity.Customer, change int64, cashGiven *int64) *entity.Receipt {
	receipt := &entity.Receipt{
		ReceiptNo:      sale.ReceiptNo,
		Date:           sale.Datetime.Format("2006-01-02 15:04:05"),
		PaymentMethod:  string(sale.PaymentMethod),
		Subtotal:       float64(totals.Subtotal) / 100,
		Discount:       float64(totals.Discount) / 100,
		Tax:            float64(totals.Tax) / 100,
		Total:          float64(totals.Total) / 100,
		AmountTendered: float64(sale.AmountTendered) / 100,
		Change:         float64(change) / 100,
		PartialPayment: sale.PartialPayment,
	}
	if cashGiven != nil {
		receipt.AmountTendered = float64(*cashGiven) / 100
	}
	if sale.PartialAmount != nil {
		paid := float64(*sale.PartialAmount) / 100
		receipt.AmountPaidNow = &paid
	}
	if sale.RemainingAmount != nil {
		remaining := float64(*sale.RemainingAmount) / 100
		receipt.RemainingAmount = &remaining
	}
	if sale.Notes != nil {
		receipt.Notes = *sale.Notes
	}
	if customer != nil {
		receipt.Customer = customer.Name
	}

	if tenant, err := s.tenantRepo.GetByID(ctx, sale.TenantID); err == nil && tenant != nil {
		receipt.Header = entity.ReceiptHeader{
			StoreName: tenant.Name,
			Address:   tenant.Address,
			Phone:     tenant.Phone,
			TaxID:     tenant.TaxID,
		}
	}
	if cashier, err := s.userRepo.GetByID(ctx, sale.CashierID); err == nil && cashier != nil {
		receipt.Cashier = cashier.Username
	}

	for i := range lines {
		l := &lines[i]
		lineTotal, err := cart.LineTotal(l)
		if err != nil {
			continue
		}
		item := entity.ReceiptItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Total:    float64(lineTotal) / 100,
		}
		switch l.Kind {
		case cart.LineWeighted:
			weight := l.Weight
			item.Weight = &weight
			item.UnitPrice = float64(l.PricePerUnit) / 100
		case cart.LineSideBusiness:
			price := l.CustomPrice
			if price == nil {
				price = l.CatalogPrice
			}
			if price != nil {
				item.UnitPrice = float64(*price) / 100
			}
		default:
			item.UnitPrice = float64(l.UnitPrice) / 100
		}
		receipt.Items = append(receipt.Items, item)
	}

	return receipt
}
