package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/pagination"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// SideBusinessService manages the ad-hoc item catalog
type SideBusinessService struct {
	sideRepo repository.SideBusinessRepository
}

// NewSideBusinessService creates a new side-business service
func NewSideBusinessService(sideRepo repository.SideBusinessRepository) *SideBusinessService {
	return &SideBusinessService{sideRepo: sideRepo}
}

// CreateItemInput represents the create item input. Price and stock are both
// optional: no price means the cashier prices each sale, no stock means the
// item does not track inventory.
type CreateItemInput struct {
	BranchID *uuid.UUID
	Name     string
	Price    *float64
	StockQty *int
	Notes    *string
}

// CreateItem creates a new side-business item
func (s *SideBusinessService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.SideBusinessItem, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if input.Name == "" {
		return nil, apperror.NewUnprocessableError("Item name is required")
	}

	item := &entity.SideBusinessItem{
		TenantID: tenantID,
		BranchID: input.BranchID,
		Name:     input.Name,
		StockQty: input.StockQty,
		Notes:    input.Notes,
	}
	if input.Price != nil {
		price := utils.Cents(*input.Price)
		item.Price = &price
	}

	if err := s.sideRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves a side-business item by ID
func (s *SideBusinessService) GetItem(ctx context.Context, id uuid.UUID) (*entity.SideBusinessItem, error) {
	item, err := s.sideRepo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Side-business item")
	}
	return item, nil
}

// ListItems lists side-business items with search and pagination
func (s *SideBusinessService) ListItems(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.SideBusinessItem], error) {
	items, total, err := s.sideRepo.ListItems(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}
