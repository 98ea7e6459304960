package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/internal/presentation/http/middleware"
)

// TenantHandler handles tenant and branch HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create handles tenant creation
// @Summary Create Tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body request.CreateTenantRequest true "Tenant data"
// @Success 201 {object} response.APIResponse
// @Router /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req request.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), &service.CreateTenantInput{
		Name:    req.Name,
		Slug:    req.Slug,
		Address: req.Address,
		Phone:   req.Phone,
		TaxID:   req.TaxID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Tenant created", tenant)
}

// GetCurrent retrieves the current tenant
// @Summary Get Current Tenant
// @Tags tenants
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /tenants/current [get]
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved", tenant)
}

// UpdateCurrent updates the current tenant's profile
// @Summary Update Current Tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body request.UpdateTenantRequest true "Tenant data"
// @Success 200 {object} response.APIResponse
// @Router /tenants/current [put]
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	var req request.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), tenantID, &service.UpdateTenantInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		TaxID:   req.TaxID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant updated", tenant)
}

// ListBranches lists the current tenant's branches
// @Summary List Branches
// @Tags tenants
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /tenants/current/branches [get]
func (h *TenantHandler) ListBranches(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	branches, err := h.tenantService.ListBranches(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branches retrieved", gin.H{
		"branches": branches,
	})
}

// CreateBranch creates a branch under the current tenant
// @Summary Create Branch
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body request.CreateBranchRequest true "Branch data"
// @Success 201 {object} response.APIResponse
// @Router /tenants/current/branches [post]
func (h *TenantHandler) CreateBranch(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	var req request.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.tenantService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created", branch)
}
