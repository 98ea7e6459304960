package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Product represents a catalog product. Fixed-price products sell by unit;
// weighted products are priced per weight unit and their stock counts units
// (readings), not weight.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID     *uuid.UUID      `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Code         string          `gorm:"size:100;unique;not null" json:"code"`
	Price        int64           `gorm:"default:0" json:"-"` // Stored in cents
	StockQty     int             `gorm:"default:0" json:"stock_qty"`
	StockAlert   int             `gorm:"default:0" json:"stock_alert"`
	IsWeighted   bool            `gorm:"default:false" json:"is_weighted"`
	PricePerUnit *int64          `json:"-"` // Stored in cents, weighted products only
	WeightUnit   *enum.WeightUnit `gorm:"size:10" json:"weight_unit,omitempty"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	var perUnit *float64
	if p.PricePerUnit != nil {
		v := float64(*p.PricePerUnit) / 100
		perUnit = &v
	}
	return json.Marshal(&struct {
		Alias
		Price        float64  `json:"price"`
		PricePerUnit *float64 `json:"price_per_unit,omitempty"`
	}{
		Alias:        Alias(p),
		Price:        float64(p.Price) / 100,
		PricePerUnit: perUnit,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(math.Round(price * 100))
}
