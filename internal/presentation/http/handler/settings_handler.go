package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/presentation/http/dto/request"
	"github.com/itsells/billing-api/internal/presentation/http/dto/response"
)

// SettingsHandler manages billing configuration
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// SetCouvertRate stores the per-person couvert for a day
// PUT /api/v1/settings/couvert
func (h *SettingsHandler) SetCouvertRate(c *gin.Context) {
	var req request.SetCouvertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.settingsService.SetCouvertRate(c.Request.Context(), date, toCents(req.Amount)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Couvert rate updated successfully", gin.H{
		"date":   req.Date,
		"amount": req.Amount,
	})
}

// GetCouvertRate returns the couvert configured for today
// GET /api/v1/settings/couvert
func (h *SettingsHandler) GetCouvertRate(c *gin.Context) {
	amount, err := h.settingsService.GetCouvertRate(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Couvert rate retrieved successfully", gin.H{
		"date":   time.Now().Format("2006-01-02"),
		"amount": float64(amount) / 100,
	})
}
