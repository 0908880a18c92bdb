package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/domain/enum"
	"github.com/itsells/billing-api/internal/infrastructure/gateway"
	"github.com/itsells/billing-api/internal/presentation/http/dto/request"
	"github.com/itsells/billing-api/internal/presentation/http/dto/response"
	"github.com/itsells/billing-api/pkg/cpf"
)

// CheckoutHandler handles the payment checkout lifecycle
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Start opens a checkout attempt
// POST /api/v1/checkout
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req request.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.checkoutService.Start(c.Request.Context(), &service.StartInput{
		TableID:    req.TableID,
		CustomerID: req.CustomerID,
		Method:     enum.PaymentMethod(req.Method),
		Payer: gateway.Payer{
			Name:     req.Payer.Name,
			Email:    req.Payer.Email,
			Document: cpf.Strip(req.Payer.Document),
			Phone:    cpf.Strip(req.Payer.Phone),
		},
		IncludeServiceCharge: req.IncludeServiceCharge,
		GuestCount:           req.GuestCount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Checkout started successfully", result)
}

// Get returns the ledger entry for one checkout attempt
// GET /api/v1/checkout/:reference
func (h *CheckoutHandler) Get(c *gin.Context) {
	payment, err := h.checkoutService.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment retrieved successfully", payment)
}

// ProcessCardToken charges a card token against an open attempt
// POST /api/v1/checkout/:reference/card-token
func (h *CheckoutHandler) ProcessCardToken(c *gin.Context) {
	var req request.CardTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payment, err := h.checkoutService.ProcessCardToken(
		c.Request.Context(), c.Param("reference"), req.Token, toCents(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Card payment approved", payment)
}

// ConfirmCash settles a cash attempt
// POST /api/v1/checkout/:reference/cash-confirm
func (h *CheckoutHandler) ConfirmCash(c *gin.Context) {
	payment, err := h.checkoutService.ConfirmCash(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cash payment confirmed", payment)
}

// Cancel abandons an open attempt
// POST /api/v1/checkout/:reference/cancel
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	payment, err := h.checkoutService.Cancel(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout cancelled", payment)
}
