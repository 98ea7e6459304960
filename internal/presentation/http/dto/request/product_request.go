package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request. Prices are
// decimal units; the service converts to cents.
type CreateProductRequest struct {
	BranchID     *uuid.UUID `json:"branch_id"`
	Name         string     `json:"name" binding:"required,min=1,max=255"`
	Code         string     `json:"code"`
	Price        float64    `json:"price" binding:"min=0"`
	StockQty     int        `json:"stock_qty" binding:"min=0"`
	StockAlert   int        `json:"stock_alert" binding:"min=0"`
	IsWeighted   bool       `json:"is_weighted"`
	PricePerUnit *float64   `json:"price_per_unit"`
	WeightUnit   *string    `json:"weight_unit"`
	Notes        *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request. Stock quantity is
// deliberately absent; stock moves only through sales, refunds, and
// adjustments.
type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	StockAlert   *int     `json:"stock_alert"`
	PricePerUnit *float64 `json:"price_per_unit"`
	Notes        *string  `json:"notes"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Change int     `json:"change" binding:"required"`
	Notes  *string `json:"notes"`
}
