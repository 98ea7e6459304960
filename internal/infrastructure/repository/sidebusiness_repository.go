package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type sideBusinessRepository struct {
	db *gorm.DB
}

// NewSideBusinessRepository creates a new side-business repository
func NewSideBusinessRepository(db *gorm.DB) domainRepo.SideBusinessRepository {
	return &sideBusinessRepository{db: db}
}

func (r *sideBusinessRepository) CreateItem(ctx context.Context, item *entity.SideBusinessItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *sideBusinessRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.SideBusinessItem, error) {
	var item entity.SideBusinessItem
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *sideBusinessRepository) ListItems(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.SideBusinessItem, int64, error) {
	var items []entity.SideBusinessItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SideBusinessItem{}).Scopes(TenantScope(ctx))

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}

func (r *sideBusinessRepository) CreateSale(ctx context.Context, sale *entity.SideBusinessSale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *sideBusinessRepository) GetSalesBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SideBusinessSale, error) {
	var sales []entity.SideBusinessSale
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Preload("Item").
		Find(&sales).Error
	return sales, err
}

// AtomicDecrementStock conditionally decrements a tracking item's stock.
// Non-tracking items (stock_qty IS NULL) are left untouched and count as
// success.
func (r *sideBusinessRepository) AtomicDecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	var item entity.SideBusinessItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return false, err
	}
	if !item.TracksStock() {
		return true, nil
	}

	result := r.db.WithContext(ctx).Model(&entity.SideBusinessItem{}).
		Where("id = ? AND stock_qty >= ?", id, amount).
		Update("stock_qty", gorm.Expr("stock_qty - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AtomicIncrementStock restores stock on a tracking item; non-tracking items
// are a no-op.
func (r *sideBusinessRepository) AtomicIncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).Model(&entity.SideBusinessItem{}).
		Where("id = ? AND stock_qty IS NOT NULL", id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", amount)).Error
}
