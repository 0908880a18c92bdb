package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/presentation/http/dto/request"
	"github.com/itsells/billing-api/internal/presentation/http/dto/response"
)

// CompanyHandler manages the merchant profile
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// GetProfile returns the merchant profile
// GET /api/v1/company
func (h *CompanyHandler) GetProfile(c *gin.Context) {
	profile, err := h.companyService.GetProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Company profile retrieved successfully", profile)
}

// UpdateProfile stores the merchant profile
// PUT /api/v1/company
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.companyService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Document:   req.Document,
		Street:     req.Street,
		Number:     req.Number,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		Complement: req.Complement,
		ZipCode:    req.ZipCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Company profile updated successfully", profile)
}
