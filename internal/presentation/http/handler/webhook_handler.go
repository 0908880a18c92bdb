package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/presentation/http/dto/request"
	"github.com/itsells/billing-api/internal/presentation/http/dto/response"
)

// WebhookHandler receives asynchronous payment notifications from the provider
type WebhookHandler struct {
	checkoutService *service.CheckoutService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(checkoutService *service.CheckoutService) *WebhookHandler {
	return &WebhookHandler{
		checkoutService: checkoutService,
	}
}

// HandlePayment applies a provider payment notification. The provider
// retries deliveries, so repeated notifications must always answer 200.
// POST /api/v1/webhooks/payments
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	var req request.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	approved := req.Status == "approved" || req.Status == "paid"
	if err := h.checkoutService.HandleWebhook(c.Request.Context(), req.Reference, approved); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Webhook processed", nil)
}
