package request

import "github.com/google/uuid"

// NewItemSpec describes a quick-service item sold before it exists in the
// catalog. The commit creates the catalog entry alongside the sale.
type NewItemSpec struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price"`
	Notes string   `json:"notes"`
}

// CheckoutLineRequest is one line of a checkout request. Exactly one of
// ProductID, ItemID, or NewItem must be set. Weight marks a weighted product
// reading; CustomPrice overrides a side-business item's catalog price.
type CheckoutLineRequest struct {
	ProductID   *uuid.UUID   `json:"product_id"`
	ItemID      *uuid.UUID   `json:"side_business_item_id"`
	NewItem     *NewItemSpec `json:"new_item"`
	Quantity    int          `json:"quantity"`
	Weight      *float64     `json:"weight"`
	CustomPrice *float64     `json:"custom_price"`
}

// CheckoutRequest represents a sale commit request. Monetary amounts are
// decimal units; the handler converts to cents.
type CheckoutRequest struct {
	Lines         []CheckoutLineRequest `json:"lines" binding:"required,min=1"`
	Discount      float64               `json:"discount"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	CashGiven     *float64              `json:"cash_given"`
	CustomerID    *uuid.UUID            `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	PartialAmount *float64              `json:"partial_amount"`
	PartialNotes  *string               `json:"partial_notes"`
	Notes         *string               `json:"notes"`
}
