package request

import "github.com/google/uuid"

// CreateSideBusinessItemRequest represents a side-business item creation
// request. Price and stock are both optional: an unpriced item is priced per
// sale, an unstocked item does not track inventory.
type CreateSideBusinessItemRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Name     string     `json:"name" binding:"required,min=1,max=255"`
	Price    *float64   `json:"price"`
	StockQty *int       `json:"stock_qty"`
	Notes    *string    `json:"notes"`
}
