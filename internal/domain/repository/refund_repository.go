package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// ErrOverRefund is returned by CreateGuarded when inserting the refund would
// push the cumulative refunded amount past the sale's tendered amount.
var ErrOverRefund = errors.New("refund exceeds remaining refundable amount")

// RefundRepository defines the interface for the append-only refund ledger
type RefundRepository interface {
	// CreateGuarded inserts the refund inside a transaction that locks the
	// original sale row and re-checks the cumulative refunded amount, so two
	// concurrent refunds cannot jointly exceed the tendered amount.
	CreateGuarded(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	// SumForSale returns the total refunded so far against a sale, in cents.
	SumForSale(ctx context.Context, saleID uuid.UUID) (int64, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error)
	List(ctx context.Context, params *RefundFilterParams) ([]entity.Refund, int64, error)
	// Stats aggregates refund count and total amount over a date window.
	Stats(ctx context.Context, startDate, endDate *time.Time) (*RefundStats, error)
}

// RefundFilterParams contains filtering parameters for refund queries
type RefundFilterParams struct {
	Pagination *pagination.PaginationParams
	SaleID     *uuid.UUID
	CashierID  *uuid.UUID
	Method     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// RefundStats is the aggregate summary for the refunds dashboard
type RefundStats struct {
	TotalCount  int64 `json:"total_count"`
	TotalAmount int64 `json:"total_amount"`
	TodayCount  int64 `json:"today_count"`
	TodayAmount int64 `json:"today_amount"`
}
