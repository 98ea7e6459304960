package request

// CreateTenantRequest represents a tenant creation request
type CreateTenantRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Slug    string `json:"slug" binding:"required,min=1,max=100"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	TaxID   string `json:"tax_id"`
}

// UpdateTenantRequest represents a tenant profile update request
type UpdateTenantRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	TaxID   *string `json:"tax_id"`
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Address string `json:"address"`
}
