package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale is the immutable header of a committed transaction. OrderTotal is the
// full value of the order; AmountTendered is what was actually taken at
// commit time. The two differ only when PartialPayment is set.
type Sale struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID        *uuid.UUID         `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	ReceiptNo       string             `gorm:"size:100;unique;not null" json:"receipt_no"`
	Datetime        time.Time          `gorm:"not null;index" json:"datetime"`
	OrderTotal      int64              `gorm:"not null" json:"-"` // Stored in cents
	AmountTendered  int64              `gorm:"not null" json:"-"` // Stored in cents
	DiscountApplied int64              `gorm:"default:0" json:"-"` // Stored in cents
	PaymentMethod   enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	CashierID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	PartialPayment  bool               `gorm:"default:false" json:"partial_payment"`
	PartialAmount   *int64             `json:"-"` // Stored in cents
	RemainingAmount *int64             `json:"-"` // Stored in cents
	PartialNotes    *string            `gorm:"type:text" json:"partial_notes,omitempty"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Cashier   User               `gorm:"foreignKey:CashierID" json:"-"`
	Customer  *Customer          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items     []SaleItem         `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	SideSales []SideBusinessSale `gorm:"foreignKey:SaleID" json:"side_sales,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	centsPtr := func(v *int64) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v) / 100
		return &f
	}
	return json.Marshal(&struct {
		Alias
		OrderTotal      float64  `json:"order_total"`
		AmountTendered  float64  `json:"amount_tendered"`
		DiscountApplied float64  `json:"discount_applied"`
		PartialAmount   *float64 `json:"partial_amount,omitempty"`
		RemainingAmount *float64 `json:"remaining_amount,omitempty"`
	}{
		Alias:           Alias(s),
		OrderTotal:      float64(s.OrderTotal) / 100,
		AmountTendered:  float64(s.AmountTendered) / 100,
		DiscountApplied: float64(s.DiscountApplied) / 100,
		PartialAmount:   centsPtr(s.PartialAmount),
		RemainingAmount: centsPtr(s.RemainingAmount),
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a persisted line of a sale referencing a catalog product.
// Weighted lines carry the weight reading and the weight-derived price.
type SaleItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	PriceEach       int64          `gorm:"not null" json:"-"` // Stored in cents
	Weight          *float64       `json:"weight,omitempty"`
	CalculatedPrice *int64         `json:"-"` // Stored in cents, weighted lines only
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	var calc *float64
	if si.CalculatedPrice != nil {
		v := float64(*si.CalculatedPrice) / 100
		calc = &v
	}
	return json.Marshal(&struct {
		Alias
		PriceEach       float64  `json:"price_each"`
		CalculatedPrice *float64 `json:"calculated_price,omitempty"`
	}{
		Alias:           Alias(si),
		PriceEach:       float64(si.PriceEach) / 100,
		CalculatedPrice: calc,
	})
}

// LineTotal returns the amount in cents this line contributed to the sale
func (si *SaleItem) LineTotal() int64 {
	if si.CalculatedPrice != nil {
		return *si.CalculatedPrice
	}
	return si.PriceEach * int64(si.Quantity)
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
