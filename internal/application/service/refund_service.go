package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// Refund validation errors
var (
	ErrEmptySelection = errors.New("no refund quantities selected")
	ErrMissingReason  = errors.New("refund reason is required")
)

// RefundService processes refunds against prior sales under the over-refund
// invariant: cumulative refunds never exceed the sale's tendered amount.
type RefundService struct {
	refundRepo    repository.RefundRepository
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	sideRepo      repository.SideBusinessRepository
	inventoryRepo repository.InventoryRepository
}

// NewRefundService creates a new refund service
func NewRefundService(
	refundRepo repository.RefundRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sideRepo repository.SideBusinessRepository,
	inventoryRepo repository.InventoryRepository,
) *RefundService {
	return &RefundService{
		refundRepo:    refundRepo,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		sideRepo:      sideRepo,
		inventoryRepo: inventoryRepo,
	}
}

// RefundLineInput selects one sale line for a partial refund. LineID may
// reference a product sale item or a side-business sale row.
type RefundLineInput struct {
	LineID   uuid.UUID
	Quantity int
	Restock  bool
}

// RefundInput is a refund request against a prior sale. Full mode refunds
// the entire remaining amount; partial mode refunds the selected lines.
type RefundInput struct {
	SaleID    uuid.UUID
	CashierID uuid.UUID
	Full      bool
	Restock   bool // full mode: restock every line
	Lines     []RefundLineInput
	Reason    string
	Method    enum.PaymentMethod
}

// RemainingRefundable returns the amount still refundable against a sale,
// in cents: tendered amount minus the running refund sum. Always computed
// fresh, never cached.
func (s *RefundService) RemainingRefundable(ctx context.Context, saleID uuid.UUID) (int64, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return 0, err
	}
	if sale == nil {
		return 0, apperror.NewNotFoundError("Sale")
	}

	refunded, err := s.refundRepo.SumForSale(ctx, saleID)
	if err != nil {
		return 0, err
	}
	return sale.AmountTendered - refunded, nil
}

// GetRefundState derives the refund state of a sale from the running sum.
func (s *RefundService) GetRefundState(ctx context.Context, saleID uuid.UUID) (entity.RefundState, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return "", err
	}
	if sale == nil {
		return "", apperror.NewNotFoundError("Sale")
	}

	refunded, err := s.refundRepo.SumForSale(ctx, saleID)
	if err != nil {
		return "", err
	}
	return entity.RefundStateFor(sale.AmountTendered, refunded), nil
}

// ProcessRefund validates the request, writes the refund rows, and performs
// best-effort restocking. Validation rejects before any write; the
// over-refund check re-runs inside the guarded insert.
func (s *RefundService) ProcessRefund(ctx context.Context, input *RefundInput) ([]entity.Refund, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	var branchID *uuid.UUID
	if id, ok := infraRepo.GetBranchID(ctx); ok {
		branchID = &id
	}

	if input.Reason == "" {
		return nil, apperror.Wrap(ErrMissingReason, 422, "Refund reason is required")
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid refund method")
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	remaining, err := s.RemainingRefundable(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, apperror.Wrap(repository.ErrOverRefund, 422, "Sale is already fully refunded")
	}

	if input.Full {
		return s.processFullRefund(ctx, input, sale, remaining, tenantID, branchID)
	}
	return s.processPartialRefund(ctx, input, sale, remaining, tenantID, branchID)
}

// processFullRefund writes a single refund row for the whole remaining
// amount, then restocks every line when requested.
func (s *RefundService) processFullRefund(ctx context.Context, input *RefundInput, sale *entity.Sale, remaining int64, tenantID uuid.UUID, branchID *uuid.UUID) ([]entity.Refund, error) {
	refund := entity.Refund{
		TenantID:       tenantID,
		BranchID:       branchID,
		OriginalSaleID: sale.ID,
		RefundAmount:   remaining,
		RefundMethod:   input.Method,
		Reason:         input.Reason,
		Restock:        input.Restock,
		CashierID:      input.CashierID,
		CustomerID:     sale.CustomerID,
	}

	if err := s.refundRepo.CreateGuarded(ctx, &refund); err != nil {
		if errors.Is(err, repository.ErrOverRefund) {
			return nil, apperror.Wrap(err, 422, "Refund exceeds remaining refundable amount")
		}
		return nil, err
	}

	if input.Restock {
		s.restockRemainder(ctx, sale, refund.ID, tenantID, branchID, input.CashierID)
	}

	return []entity.Refund{refund}, nil
}

// restockRemainder restores the quantities a full refund still owes to stock:
// per line, the sold quantity minus whatever earlier partial refunds already
// took back. Stock restored for a sale never exceeds what the sale removed.
func (s *RefundService) restockRemainder(ctx context.Context, sale *entity.Sale, refundID uuid.UUID, tenantID uuid.UUID, branchID *uuid.UUID, cashierID uuid.UUID) {
	prior, err := s.refundRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		log.Printf("Warning: prior refund lookup failed for sale %s, skipping restock: %v", sale.ID, err)
		return
	}

	itemRefunded := make(map[uuid.UUID]int)
	sideRefunded := make(map[uuid.UUID]int)
	for i := range prior {
		r := &prior[i]
		if r.ID == refundID {
			continue
		}
		if r.SaleItemID != nil {
			itemRefunded[*r.SaleItemID] += r.QuantityRefunded
		}
		if r.SideSaleID != nil {
			sideRefunded[*r.SideSaleID] += r.QuantityRefunded
		}
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		qty := item.Quantity
		if item.Weight != nil {
			qty = 1
		}
		qty -= itemRefunded[item.ID]
		if qty <= 0 {
			continue
		}
		s.restockProduct(ctx, item.ProductID, qty, refundID, tenantID, branchID, cashierID)
	}
	for i := range sale.SideSales {
		row := &sale.SideSales[i]
		qty := row.Quantity - sideRefunded[row.ID]
		if qty <= 0 {
			continue
		}
		if err := s.sideRepo.AtomicIncrementStock(ctx, row.ItemID, qty); err != nil {
			log.Printf("Warning: side-business restock failed for item %s: %v", row.ItemID, err)
		}
	}
}

// processPartialRefund validates per-line quantities and writes one refund
// row per selected line.
func (s *RefundService) processPartialRefund(ctx context.Context, input *RefundInput, sale *entity.Sale, remaining int64, tenantID uuid.UUID, branchID *uuid.UUID) ([]entity.Refund, error) {
	itemsByID := make(map[uuid.UUID]*entity.SaleItem, len(sale.Items))
	for i := range sale.Items {
		itemsByID[sale.Items[i].ID] = &sale.Items[i]
	}
	sideByID := make(map[uuid.UUID]*entity.SideBusinessSale, len(sale.SideSales))
	for i := range sale.SideSales {
		sideByID[sale.SideSales[i].ID] = &sale.SideSales[i]
	}

	type resolvedLine struct {
		input  RefundLineInput
		item   *entity.SaleItem
		side   *entity.SideBusinessSale
		amount int64
	}

	var selected []resolvedLine
	var requestedTotal int64

	for _, lineInput := range input.Lines {
		if lineInput.Quantity == 0 {
			continue
		}
		if lineInput.Quantity < 0 {
			return nil, apperror.NewUnprocessableError("Refund quantity cannot be negative")
		}

		if item, ok := itemsByID[lineInput.LineID]; ok {
			if lineInput.Quantity > item.Quantity {
				return nil, apperror.NewUnprocessableError("Refund quantity exceeds sold quantity")
			}
			var amount int64
			if item.CalculatedPrice != nil {
				// Weighted lines sold one reading; refund is all or nothing
				amount = *item.CalculatedPrice
			} else {
				amount = item.PriceEach * int64(lineInput.Quantity)
			}
			selected = append(selected, resolvedLine{input: lineInput, item: item, amount: amount})
			requestedTotal += amount
			continue
		}

		if side, ok := sideByID[lineInput.LineID]; ok {
			if lineInput.Quantity > side.Quantity {
				return nil, apperror.NewUnprocessableError("Refund quantity exceeds sold quantity")
			}
			amount := side.PriceEach * int64(lineInput.Quantity)
			selected = append(selected, resolvedLine{input: lineInput, side: side, amount: amount})
			requestedTotal += amount
			continue
		}

		return nil, apperror.NewNotFoundError("Sale line")
	}

	if len(selected) == 0 {
		return nil, apperror.Wrap(ErrEmptySelection, 422, "Select at least one line to refund")
	}
	if requestedTotal > remaining {
		return nil, apperror.Wrap(repository.ErrOverRefund, 422, "Refund exceeds remaining refundable amount")
	}

	refunds := make([]entity.Refund, 0, len(selected))
	for _, line := range selected {
		refund := entity.Refund{
			TenantID:         tenantID,
			BranchID:         branchID,
			OriginalSaleID:   sale.ID,
			RefundAmount:     line.amount,
			RefundMethod:     input.Method,
			Reason:           input.Reason,
			QuantityRefunded: line.input.Quantity,
			Restock:          line.input.Restock,
			CashierID:        input.CashierID,
			CustomerID:       sale.CustomerID,
		}
		if line.item != nil {
			refund.SaleItemID = &line.item.ID
		}
		if line.side != nil {
			refund.SideSaleID = &line.side.ID
		}

		if err := s.refundRepo.CreateGuarded(ctx, &refund); err != nil {
			if errors.Is(err, repository.ErrOverRefund) {
				return refunds, apperror.Wrap(err, 422, "Refund exceeds remaining refundable amount")
			}
			return refunds, err
		}
		refunds = append(refunds, refund)

		if line.input.Restock {
			if line.item != nil {
				qty := line.input.Quantity
				if line.item.Weight != nil {
					qty = 1
				}
				s.restockProduct(ctx, line.item.ProductID, qty, refund.ID, tenantID, branchID, input.CashierID)
			} else if line.side != nil {
				if err := s.sideRepo.AtomicIncrementStock(ctx, line.side.ItemID, line.input.Quantity); err != nil {
					log.Printf("Warning: side-business restock failed for item %s: %v", line.side.ItemID, err)
				}
			}
		}
	}

	return refunds, nil
}

// restockProduct restores product stock and appends a return movement.
// Failures are logged and swallowed: the refund itself stands.
func (s *RefundService) restockProduct(ctx context.Context, productID uuid.UUID, qty int, refundID uuid.UUID, tenantID uuid.UUID, branchID *uuid.UUID, cashierID uuid.UUID) {
	if qty <= 0 {
		return
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{productID: qty}); err != nil {
		log.Printf("Warning: restock failed for product %s: %v", productID, err)
		return
	}
	movement := &entity.InventoryMovement{
		TenantID:       tenantID,
		BranchID:       branchID,
		ProductID:      productID,
		QuantityChange: qty,
		MovementType:   enum.MovementTypeReturn,
		ReferenceID:    &refundID,
		CreatedBy:      cashierID,
	}
	if err := s.inventoryRepo.Create(ctx, movement); err != nil {
		log.Printf("Warning: return movement write failed for product %s: %v", productID, err)
	}
}

// ListRefundsBySale lists the refund rows recorded against one sale.
func (s *RefundService) ListRefundsBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	return s.refundRepo.ListBySale(ctx, saleID)
}

// ListRefunds lists refunds with filtering and pagination.
func (s *RefundService) ListRefunds(ctx context.Context, params *repository.RefundFilterParams) (*pagination.PaginatedResult[entity.Refund], error) {
	refunds, total, err := s.refundRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(refunds, pag), nil
}

// GetRefundStats aggregates refund counts and totals over a date window.
func (s *RefundService) GetRefundStats(ctx context.Context, startDate, endDate *time.Time) (*repository.RefundStats, error) {
	return s.refundRepo.Stats(ctx, startDate, endDate)
}

// RefundReasons returns the advisory reason list shown to cashiers. The
// list is suggestive, not enforced: free-text reasons are accepted.
func (s *RefundService) RefundReasons() []string {
	return enum.RefundReasons
}
