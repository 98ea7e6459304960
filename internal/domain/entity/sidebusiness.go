package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// SideBusinessItem is an ad-hoc ("quick service") catalog entry. Price and
// stock are both nullable: a nil price means the cashier supplies one at
// sale time, a nil stock means the item does not track inventory.
type SideBusinessItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID  *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Price     *int64         `json:"-"` // Stored in cents, nullable
	StockQty  *int           `json:"stock_qty,omitempty"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// MarshalJSON converts cents to decimal for API responses
func (i SideBusinessItem) MarshalJSON() ([]byte, error) {
	type Alias SideBusinessItem
	var price *float64
	if i.Price != nil {
		v := float64(*i.Price) / 100
		price = &v
	}
	return json.Marshal(&struct {
		Alias
		Price *float64 `json:"price,omitempty"`
	}{
		Alias: Alias(i),
		Price: price,
	})
}

// TracksStock reports whether the item keeps a stock count
func (i *SideBusinessItem) TracksStock() bool {
	return i.StockQty != nil
}

// BeforeCreate generates a UUID before creating a new item
func (i *SideBusinessItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SideBusinessItem model
func (SideBusinessItem) TableName() string {
	return "side_business_items"
}

// SideBusinessSale is a sale row for a side-business item, joined to the
// parent sale header.
type SideBusinessSale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID      *uuid.UUID         `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	SaleID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity      int                `gorm:"not null" json:"quantity"`
	PriceEach     int64              `gorm:"not null" json:"-"` // Stored in cents
	TotalAmount   int64              `gorm:"not null" json:"-"` // Stored in cents
	PaymentMethod enum.PaymentMethod `gorm:"size:20" json:"payment_method"`
	CreatedAt     time.Time          `json:"created_at"`

	Item SideBusinessItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (s SideBusinessSale) MarshalJSON() ([]byte, error) {
	type Alias SideBusinessSale
	return json.Marshal(&struct {
		Alias
		PriceEach   float64 `json:"price_each"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(s),
		PriceEach:   float64(s.PriceEach) / 100,
		TotalAmount: float64(s.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale row
func (s *SideBusinessSale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SideBusinessSale model
func (SideBusinessSale) TableName() string {
	return "side_business_sales"
}
