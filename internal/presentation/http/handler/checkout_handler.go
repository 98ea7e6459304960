package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/cart"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// CheckoutHandler handles sale commit requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	productService  *service.ProductService
	sideService     *service.SideBusinessService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	checkoutService *service.CheckoutService,
	productService *service.ProductService,
	sideService *service.SideBusinessService,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		productService:  productService,
		sideService:     sideService,
	}
}

// Commit handles a sale commit
// @Summary Commit Sale
// @Description Commit the cashier's cart as a sale. Requires an Idempotency-Key header.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body request.CheckoutRequest true "Checkout data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Commit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lines, err := h.buildLines(c, req.Lines)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.CheckoutInput{
		CashierID:     *userID,
		Lines:         lines,
		Discount:      utils.Cents(req.Discount),
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PartialNotes:  req.PartialNotes,
		Notes:         req.Notes,
	}
	if req.CashGiven != nil {
		cash := utils.Cents(*req.CashGiven)
		input.CashGiven = &cash
	}
	if req.PartialAmount != nil {
		partial := utils.Cents(*req.PartialAmount)
		input.PartialAmount = &partial
	}

	result, err := h.checkoutService.CommitSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale committed", gin.H{
		"sale":    result.Sale,
		"receipt": result.Receipt,
		"change":  float64(result.Change) / 100,
	})
}

// buildLines resolves the posted line specs against the catalog, snapshotting
// prices server-side so a stale client cannot dictate what gets charged.
func (h *CheckoutHandler) buildLines(c *gin.Context, specs []request.CheckoutLineRequest) ([]cart.Line, error) {
	var lines []cart.Line

	for i := range specs {
		spec := &specs[i]
		quantity := spec.Quantity
		if quantity < 1 {
			quantity = 1
		}

		switch {
		case spec.ProductID != nil:
			product, err := h.productService.GetProduct(c.Request.Context(), *spec.ProductID)
			if err != nil {
				return nil, err
			}

			if spec.Weight != nil {
				if !product.IsWeighted || product.PricePerUnit == nil {
					return nil, apperror.NewUnprocessableError(product.Name + " is not sold by weight")
				}
				unit := enum.WeightUnitKilogram
				if product.WeightUnit != nil {
					unit = *product.WeightUnit
				}
				lines = append(lines, cart.Line{
					ID:           uuid.New(),
					Kind:         cart.LineWeighted,
					Ref:          cart.ProductRef(product.ID),
					Name:         product.Name,
					Quantity:     1,
					Weight:       *spec.Weight,
					WeightUnit:   unit,
					PricePerUnit: *product.PricePerUnit,
				})
				continue
			}

			lines = append(lines, cart.Line{
				ID:        uuid.New(),
				Kind:      cart.LineUnit,
				Ref:       cart.ProductRef(product.ID),
				Name:      product.Name,
				Quantity:  quantity,
				UnitPrice: product.Price,
			})

		case spec.ItemID != nil:
			item, err := h.sideService.GetItem(c.Request.Context(), *spec.ItemID)
			if err != nil {
				return nil, err
			}

			line := cart.Line{
				ID:           uuid.New(),
				Kind:         cart.LineSideBusiness,
				Ref:          cart.SideBusinessRef(item.ID),
				Name:         item.Name,
				Quantity:     quantity,
				CatalogPrice: item.Price,
			}
			if spec.CustomPrice != nil {
				price := utils.Cents(*spec.CustomPrice)
				line.CustomPrice = &price
			}
			lines = append(lines, line)

		case spec.NewItem != nil:
			draft := cart.ItemDraft{
				Name:  spec.NewItem.Name,
				Notes: spec.NewItem.Notes,
			}
			if spec.NewItem.Price != nil {
				price := utils.Cents(*spec.NewItem.Price)
				draft.Price = &price
			}

			line := cart.Line{
				ID:           uuid.New(),
				Kind:         cart.LineSideBusiness,
				Ref:          cart.PendingItemRef(draft),
				Name:         draft.Name,
				Quantity:     quantity,
				CatalogPrice: draft.Price,
			}
			if spec.CustomPrice != nil {
				price := utils.Cents(*spec.CustomPrice)
				line.CustomPrice = &price
			}
			lines = append(lines, line)

		default:
			return nil, apperror.NewUnprocessableError("Each line must reference a product, a side-business item, or a new item")
		}
	}

	return lines, nil
}
