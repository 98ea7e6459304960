package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// SideBusinessRepository defines the interface for side-business items and
// their sale rows
type SideBusinessRepository interface {
	CreateItem(ctx context.Context, item *entity.SideBusinessItem) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*entity.SideBusinessItem, error)
	ListItems(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.SideBusinessItem, int64, error)
	CreateSale(ctx context.Context, sale *entity.SideBusinessSale) error
	GetSalesBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SideBusinessSale, error)
	// AtomicDecrementStock decrements a tracking item's stock only if enough
	// remains. Items with a nil stock quantity do not track stock and are
	// left untouched (returns true).
	AtomicDecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// AtomicIncrementStock restores stock on a tracking item (refund restock).
	AtomicIncrementStock(ctx context.Context, id uuid.UUID, amount int) error
}
