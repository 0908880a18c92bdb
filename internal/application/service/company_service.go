package service

import (
	"context"

	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/repository"
	"github.com/itsells/billing-api/pkg/apperror"
	"github.com/itsells/billing-api/pkg/cpf"
)

// CompanyService manages the merchant profile used in provider payloads
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// GetProfile retrieves the merchant profile
func (s *CompanyService) GetProfile(ctx context.Context) (*entity.CompanyProfile, error) {
	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NewNotFoundError("company profile")
	}
	return profile, nil
}

// UpdateProfileInput represents the input for updating the merchant profile
type UpdateProfileInput struct {
	Name       string
	Email      string
	Phone      string
	Document   string
	Street     string
	Number     string
	District   string
	City       string
	State      string
	Complement string
	ZipCode    string
}

// UpdateProfile stores the merchant profile, creating it on first save
func (s *CompanyService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.CompanyProfile, error) {
	var fieldErrors []apperror.FieldError
	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Document == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "document", Message: "Document is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	profile := &entity.CompanyProfile{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Document:   cpf.Strip(input.Document),
		Street:     input.Street,
		Number:     input.Number,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		Complement: input.Complement,
		ZipCode:    input.ZipCode,
	}
	if err := s.companyRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
