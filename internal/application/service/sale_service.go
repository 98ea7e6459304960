package service

import (
	"context"
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

// SaleService serves the sales history and transaction deletion paths
type SaleService struct {
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	sideRepo      repository.SideBusinessRepository
	inventoryRepo repository.InventoryRepository
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sideRepo repository.SideBusinessRepository,
	inventoryRepo repository.InventoryRepository,
) *SaleService {
	return &SaleService{
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		sideRepo:      sideRepo,
		inventoryRepo: inventoryRepo,
	}
}

// GetSale retrieves a sale with its items, side-business rows, customer and
// cashier
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering and page-based pagination
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination for the
// infinite-scroll history view
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sale entity.Sale) string { return sale.ID.String() },
		func(sale entity.Sale) time.Time { return sale.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// VoidSale deletes a transaction: restores stock for every line, appends
// deletion movements, and soft-deletes the sale header. Admin only; the
// handler enforces the role.
func (s *SaleService) VoidSale(ctx context.Context, saleID, actorID uuid.UUID) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Tenant context required")
	}
	var branchID *uuid.UUID
	if id, ok := infraRepo.GetBranchID(ctx); ok {
		branchID = &id
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}

	stockIncrements := make(map[uuid.UUID]int)
	var movements []entity.InventoryMovement
	for i := range sale.Items {
		item := &sale.Items[i]
		qty := item.Quantity
		if item.Weight != nil {
			qty = 1
		}
		stockIncrements[item.ProductID] += qty
		movements = append(movements, entity.InventoryMovement{
			TenantID:       tenantID,
			BranchID:       branchID,
			ProductID:      item.ProductID,
			QuantityChange: qty,
			MovementType:   enum.MovementTypeDeletion,
			ReferenceID:    &sale.ID,
			CreatedBy:      actorID,
		})
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return err
	}

	for i := range sale.SideSales {
		row := &sale.SideSales[i]
		if err := s.sideRepo.AtomicIncrementStock(ctx, row.ItemID, row.Quantity); err != nil {
			log.Printf("Warning: side-business stock restore failed for item %s: %v", row.ItemID, err)
		}
	}

	if err := s.inventoryRepo.CreateBatch(ctx, movements); err != nil {
		return err
	}

	return s.saleRepo.Delete(ctx, saleID)
}
