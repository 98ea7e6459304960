package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// SideBusinessHandler handles side-business item HTTP requests
type SideBusinessHandler struct {
	sideService *service.SideBusinessService
}

// NewSideBusinessHandler creates a new side-business handler
func NewSideBusinessHandler(sideService *service.SideBusinessService) *SideBusinessHandler {
	return &SideBusinessHandler{sideService: sideService}
}

// Create handles side-business item creation
// @Summary Create Side-Business Item
// @Tags side-business
// @Accept json
// @Produce json
// @Param request body request.CreateSideBusinessItemRequest true "Item data"
// @Success 201 {object} response.APIResponse
// @Router /side-business/items [post]
func (h *SideBusinessHandler) Create(c *gin.Context) {
	var req request.CreateSideBusinessItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.sideService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		BranchID: req.BranchID,
		Name:     req.Name,
		Price:    req.Price,
		StockQty: req.StockQty,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Side-business item created", item)
}

// Get retrieves a side-business item by ID
// @Summary Get Side-Business Item
// @Tags side-business
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.APIResponse
// @Router /side-business/items/{id} [get]
func (h *SideBusinessHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.sideService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Side-business item retrieved", item)
}

// List lists side-business items with search and pagination
// @Summary List Side-Business Items
// @Tags side-business
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /side-business/items [get]
func (h *SideBusinessHandler) List(c *gin.Context) {
	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	pageParams.Validate()

	result, err := h.sideService.ListItems(c.Request.Context(), &pageParams, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Side-business items retrieved", result)
}
