package request

import "github.com/google/uuid"

// RefundLineRequest selects one sale line for a partial refund. LineID may
// be a sale item ID or a side-business sale row ID.
type RefundLineRequest struct {
	LineID   uuid.UUID `json:"line_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
	Restock  bool      `json:"restock"`
}

// RefundRequest represents a refund request against a prior sale
type RefundRequest struct {
	Full    bool                `json:"full"`
	Restock bool                `json:"restock"`
	Lines   []RefundLineRequest `json:"lines"`
	Reason  string              `json:"reason" binding:"required"`
	Method  string              `json:"method" binding:"required"`
}
