package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// RefundHandler handles refund HTTP requests
type RefundHandler struct {
	refundService *service.RefundService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundService *service.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// Process handles a refund request against a prior sale
// @Summary Process Refund
// @Tags refunds
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param request body request.RefundRequest true "Refund data"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales/{id}/refunds [post]
func (h *RefundHandler) Process(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.RefundInput{
		SaleID:    saleID,
		CashierID: *userID,
		Full:      req.Full,
		Restock:   req.Restock,
		Reason:    req.Reason,
		Method:    enum.PaymentMethod(req.Method),
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.RefundLineInput{
			LineID:   line.LineID,
			Quantity: line.Quantity,
			Restock:  line.Restock,
		})
	}

	refunds, err := h.refundService.ProcessRefund(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Refund processed", gin.H{
		"refunds": refunds,
	})
}

// GetRemaining returns the amount still refundable against a sale
// @Summary Remaining Refundable
// @Tags refunds
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Router /sales/{id}/refunds/remaining [get]
func (h *RefundHandler) GetRemaining(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	remaining, err := h.refundService.RemainingRefundable(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	state, err := h.refundService.GetRefundState(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remaining refundable retrieved", gin.H{
		"remaining_refundable": float64(remaining) / 100,
		"refund_state":         state,
	})
}

// ListBySale lists the refunds recorded against one sale
// @Summary List Sale Refunds
// @Tags refunds
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Router /sales/{id}/refunds [get]
func (h *RefundHandler) ListBySale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	refunds, err := h.refundService.ListRefundsBySale(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refunds retrieved", gin.H{
		"refunds": refunds,
	})
}

// List lists refunds with filtering and pagination
// @Summary List Refunds
// @Tags refunds
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /refunds [get]
func (h *RefundHandler) List(c *gin.Context) {
	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	pageParams.Validate()

	params := &repository.RefundFilterParams{
		Pagination: &pageParams,
		Method:     c.Query("method"),
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

	result, err := h.refundService.ListRefunds(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Refunds retrieved", result)
}

// Stats returns aggregate refund counts and totals
// @Summary Refund Stats
// @Tags refunds
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /refunds/stats [get]
func (h *RefundHandler) Stats(c *gin.Context) {
	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		return
	}

	stats, err := h.refundService.GetRefundStats(c.Request.Context(), startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refund stats retrieved", stats)
}

// Reasons returns the advisory refund reason list
// @Summary Refund Reasons
// @Tags refunds
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /refunds/reasons [get]
func (h *RefundHandler) Reasons(c *gin.Context) {
	response.OK(c, "Refund reasons retrieved", gin.H{
		"reasons": h.refundService.RefundReasons(),
	})
}
