package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB) domainRepo.RefundRepository {
	return &refundRepository{db: db}
}

// CreateGuarded inserts the refund under a row lock on the original sale.
// The cumulative check runs inside the same transaction, so two concurrent
// refunds against one sale serialize and the second sees the first's amount.
func (r *refundRepository) CreateGuarded(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale entity.Sale
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sale, "id = ?", refund.OriginalSaleID).Error; err != nil {
			return err
		}

		var refunded int64
		if err := tx.Model(&entity.Refund{}).
			Where("original_sale_id = ?", refund.OriginalSaleID).
			Select("COALESCE(SUM(refund_amount), 0)").
			Scan(&refunded).Error; err != nil {
			return err
		}

		if refunded+refund.RefundAmount > sale.AmountTendered {
			return domainRepo.ErrOverRefund
		}

		return tx.Create(refund).Error
	})
}

func (r *refundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var refund entity.Refund
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("SaleItem").
		First(&refund, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &refund, err
}

// SumForSale returns the total refunded so far against a sale, in cents
func (r *refundRepository) SumForSale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Refund{}).
		Where("original_sale_id = ?", saleID).
		Select("COALESCE(SUM(refund_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *refundRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	var refunds []entity.Refund
	err := r.db.WithContext(ctx).
		Where("original_sale_id = ?", saleID).
		Preload("SaleItem").
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepository) List(ctx context.Context, params *domainRepo.RefundFilterParams) ([]entity.Refund, int64, error) {
	var refunds []entity.Refund
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Refund{}).Scopes(TenantScope(ctx))

	if params.SaleID != nil {
		query = query.Where("original_sale_id = ?", *params.SaleID)
	}
	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}
	if params.Method != "" {
		query = query.Where("refund_method = ?", params.Method)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("SaleItem").
		Order("created_at DESC").
		Find(&refunds).Error

	return refunds, total, err
}

// Stats aggregates refund count and amount, overall and for today
func (r *refundRepository) Stats(ctx context.Context, startDate, endDate *time.Time) (*domainRepo.RefundStats, error) {
	stats := &domainRepo.RefundStats{}

	query := r.db.WithContext(ctx).Model(&entity.Refund{}).Scopes(TenantScope(ctx))
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	row := struct {
		Count  int64
		Amount int64
	}{}
	if err := query.
		Select("COUNT(*) AS count, COALESCE(SUM(refund_amount), 0) AS amount").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.TotalCount = row.Count
	stats.TotalAmount = row.Amount

	todayStart := time.Now().Truncate(24 * time.Hour)
	todayRow := struct {
		Count  int64
		Amount int64
	}{}
	if err := r.db.WithContext(ctx).Model(&entity.Refund{}).Scopes(TenantScope(ctx)).
		Where("created_at >= ?", todayStart).
		Select("COUNT(*) AS count, COALESCE(SUM(refund_amount), 0) AS amount").
		Scan(&todayRow).Error; err != nil {
		return nil, err
	}
	stats.TodayCount = todayRow.Count
	stats.TodayAmount = todayRow.Amount

	return stats, nil
}
