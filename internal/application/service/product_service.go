package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/pagination"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// ProductService handles catalog product operations
type ProductService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, inventoryRepo: inventoryRepo}
}

// CreateProductInput represents the create product input, prices in decimal
type CreateProductInput struct {
	BranchID     *uuid.UUID
	Name         string
	Code         string
	Price        float64
	StockQty     int
	StockAlert   int
	IsWeighted   bool
	PricePerUnit *float64
	WeightUnit   *enum.WeightUnit
	Notes        *string
}

// CreateProduct creates a new catalog product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.IsWeighted && input.PricePerUnit == nil {
		return nil, apperror.NewUnprocessableError("Weighted products require a price per unit")
	}
	if input.WeightUnit != nil && !input.WeightUnit.IsValid() {
		return nil, apperror.NewUnprocessableError("Invalid weight unit")
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Product code already in use")
		}
	}

	product := &entity.Product{
		TenantID:   tenantID,
		BranchID:   input.BranchID,
		Name:       input.Name,
		Code:       code,
		Price:      utils.Cents(input.Price),
		StockQty:   input.StockQty,
		StockAlert: input.StockAlert,
		IsWeighted: input.IsWeighted,
		WeightUnit: input.WeightUnit,
		Notes:      input.Notes,
	}
	if input.PricePerUnit != nil {
		perUnit := utils.Cents(*input.PricePerUnit)
		product.PricePerUnit = &perUnit
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name         *string
	Price        *float64
	StockAlert   *int
	PricePerUnit *float64
	Notes        *string
}

// UpdateProduct updates product fields. Stock is never set directly here;
// it moves only through sales, refunds, voids, and manual adjustments.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = utils.Cents(*input.Price)
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.PricePerUnit != nil {
		perUnit := utils.Cents(*input.PricePerUnit)
		product.PricePerUnit = &perUnit
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStock returns products at or below their stock alert threshold
func (s *ProductService) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStockInput represents a manual stock adjustment
type AdjustStockInput struct {
	ProductID uuid.UUID
	Change    int
	Notes     *string
	ActorID   uuid.UUID
}

// AdjustStock applies a manual stock correction and records the movement so
// the reconciliation trail stays complete.
func (s *ProductService) AdjustStock(ctx context.Context, input *AdjustStockInput) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Tenant context required")
	}
	if input.Change == 0 {
		return apperror.NewBadRequestError("Stock change cannot be zero")
	}

	product, err := s.GetProduct(ctx, input.ProductID)
	if err != nil {
		return err
	}

	if input.Change > 0 {
		if err := s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{product.ID: input.Change}); err != nil {
			return err
		}
	} else {
		failed, err := s.productRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{product.ID: -input.Change})
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return apperror.NewBadRequestError("Adjustment would drive stock negative")
		}
	}

	movement := &entity.InventoryMovement{
		TenantID:       tenantID,
		ProductID:      product.ID,
		QuantityChange: input.Change,
		MovementType:   enum.MovementTypeAdjustment,
		Notes:          input.Notes,
		CreatedBy:      input.ActorID,
	}
	return s.inventoryRepo.Create(ctx, movement)
}

// GetStockMovements lists the movement journal for one product
func (s *ProductService) GetStockMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.InventoryMovement], error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	movements, total, err := s.inventoryRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}
