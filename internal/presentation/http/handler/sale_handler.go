package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// SaleHandler handles sales history HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Get retrieves a sale with its lines
// @Summary Get Sale
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved", sale)
}

// List lists sales with filtering and page-based pagination
// @Summary List Sales
// @Tags sales
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	pageParams.Validate()

	params := &repository.SaleFilterParams{
		Pagination:    &pageParams,
		PaymentMethod: c.Query("payment_method"),
		PartialOnly:   c.Query("partial_only") == "true",
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}

	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &id
	}
	if cashierID := c.Query("cashier_id"); cashierID != "" {
		id, err := uuid.Parse(cashierID)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &id
	}

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		return
	}
	params.StartDate = startDate
	params.EndDate = endDate

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// ListCursor lists sales with cursor-based pagination for infinite scroll
// @Summary List Sales (cursor)
// @Tags sales
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sales/cursor [get]
func (h *SaleHandler) ListCursor(c *gin.Context) {
	var cursorParams pagination.CursorParams
	if err := c.ShouldBindQuery(&cursorParams); err != nil {
		response.BadRequest(c, "Invalid cursor parameters")
		return
	}
	cursorParams.Validate()

	params := &repository.SaleCursorFilterParams{
		Cursor:        &cursorParams,
		PaymentMethod: c.Query("payment_method"),
	}

	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &id
	}

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		return
	}
	params.StartDate = startDate
	params.EndDate = endDate

	result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, 200, "Sales retrieved", result)
}

// Void deletes a transaction, restoring stock; admin only
// @Summary Void Sale
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /sales/{id} [delete]
func (h *SaleHandler) Void(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.VoidSale(c.Request.Context(), id, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale voided", nil)
}

// parseDateRange reads optional start_date / end_date query params. The end
// date is pushed to end of day so a single-day range covers the whole day.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if start := c.Query("start_date"); start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, err
		}
		startDate = &t
	}
	if end := c.Query("end_date"); end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		endDate = &t
	}

	return startDate, endDate, nil
}
