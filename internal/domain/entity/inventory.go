package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// InventoryMovement is an append-only audit record explaining a stock change.
// Rows are never updated or deleted: for every product, initial stock plus
// the sum of quantity changes must equal current stock.
type InventoryMovement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID       *uuid.UUID        `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	QuantityChange int               `gorm:"not null" json:"quantity_change"`
	MovementType   enum.MovementType `gorm:"size:50;not null" json:"movement_type"`
	ReferenceID    *uuid.UUID        `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Notes          *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      uuid.UUID         `gorm:"type:uuid" json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *InventoryMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryMovement model
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
