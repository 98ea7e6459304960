package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// InventoryRepository defines the interface for the append-only stock
// movement journal
type InventoryRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	CreateBatch(ctx context.Context, movements []entity.InventoryMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.InventoryMovement, int64, error)
	// SumForProduct returns the net quantity change recorded for a product.
	SumForProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
