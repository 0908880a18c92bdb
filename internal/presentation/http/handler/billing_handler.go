package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/presentation/http/dto/request"
	"github.com/itsells/billing-api/internal/presentation/http/dto/response"
)

// BillingHandler handles bill aggregation and pricing requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// ListBillableUnits returns every table and counter customer ready to pay
// GET /api/v1/billing/units
func (h *BillingHandler) ListBillableUnits(c *gin.Context) {
	units, err := h.billingService.FindBillableUnits(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Billable units retrieved successfully", units)
}

// CalculateTotals prices the bill for one target
// POST /api/v1/billing/totals
func (h *BillingHandler) CalculateTotals(c *gin.Context) {
	var req request.BillTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	totals, err := h.billingService.CalculateTotals(c.Request.Context(), &service.TotalsInput{
		TableID:              req.TableID,
		CustomerID:           req.CustomerID,
		IncludeServiceCharge: req.IncludeServiceCharge,
		GuestCount:           req.GuestCount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill totals calculated successfully", totals)
}
