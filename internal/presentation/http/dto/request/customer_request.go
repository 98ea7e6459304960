package request

import "github.com/google/uuid"

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Name     string     `json:"name" binding:"required,min=1,max=255"`
	Phone    string     `json:"phone"`
	Email    *string    `json:"email"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}
