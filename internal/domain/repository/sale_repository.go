package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale headers and line items
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails loads the sale with its items, side-business rows,
	// customer and cashier
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*entity.SaleItem, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
	// Delete soft-deletes a sale header (transaction deletion)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	CustomerID    *uuid.UUID
	CashierID     *uuid.UUID
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
	PartialOnly   bool
	SortBy        string
	SortOrder     string
}

// SaleCursorFilterParams contains cursor-based filtering parameters
type SaleCursorFilterParams struct {
	Cursor        *pagination.CursorParams
	CustomerID    *uuid.UUID
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
}
