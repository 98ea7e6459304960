package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Refund records money returned against a prior sale. A sale may have many
// refunds (one per refunded line); their amounts may never sum past the
// sale's tendered amount.
type Refund struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID         *uuid.UUID         `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	OriginalSaleID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"original_sale_id"`
	SaleItemID       *uuid.UUID         `gorm:"type:uuid;index" json:"sale_item_id,omitempty"`
	SideSaleID       *uuid.UUID         `gorm:"type:uuid;index" json:"side_sale_id,omitempty"`
	RefundAmount     int64              `gorm:"not null" json:"-"` // Stored in cents
	RefundMethod     enum.PaymentMethod `gorm:"size:20;not null" json:"refund_method"`
	Reason           string             `gorm:"type:text;not null" json:"reason"`
	QuantityRefunded int                `gorm:"default:0" json:"quantity_refunded"`
	Restock          bool               `gorm:"default:false" json:"restock"`
	CashierID        uuid.UUID          `gorm:"type:uuid;not null" json:"cashier_id"`
	CustomerID       *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`

	// Relationships
	Sale     Sale      `gorm:"foreignKey:OriginalSaleID" json:"-"`
	SaleItem *SaleItem `gorm:"foreignKey:SaleItemID" json:"sale_item,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Refund) MarshalJSON() ([]byte, error) {
	type Alias Refund
	return json.Marshal(&struct {
		Alias
		RefundAmount float64 `json:"refund_amount"`
	}{
		Alias:        Alias(r),
		RefundAmount: float64(r.RefundAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new refund
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}

// RefundState describes how far a sale has been refunded. It is always
// derived from the running sum, never cached.
type RefundState string

const (
	RefundStateUnrefunded        RefundState = "unrefunded"
	RefundStatePartiallyRefunded RefundState = "partially_refunded"
	RefundStateFullyRefunded     RefundState = "fully_refunded"
)

// RefundStateFor derives the refund state of a sale from its tendered amount
// and the sum of refunds recorded so far.
func RefundStateFor(amountTendered, refundedSoFar int64) RefundState {
	switch {
	case refundedSoFar <= 0:
		return RefundStateUnrefunded
	case refundedSoFar < amountTendered:
		return RefundStatePartiallyRefunded
	default:
		return RefundStateFullyRefunded
	}
}
