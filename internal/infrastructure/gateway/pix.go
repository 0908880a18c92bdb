package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/itsells/billing-api/internal/domain/repository"
	"github.com/itsells/billing-api/pkg/apperror"
)

const pixDueDateDelay = 24 * time.Hour

// PixGateway opens PIX bank charges against the payment API and checks their
// status by reference. Confirmation is poll-based.
type PixGateway struct {
	client  *apiClient
	company repository.CompanyRepository
}

// NewPixGateway creates the PIX adapter
func NewPixGateway(endpoints *Endpoints, requestTimeout time.Duration, company repository.CompanyRepository) *PixGateway {
	return &PixGateway{
		client:  newAPIClient(endpoints, requestTimeout),
		company: company,
	}
}

type pixPartyPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

type pixAddressPayload struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Complement string `json:"complement"`
	ZipCode    string `json:"zip_code"`
}

type pixChargeRequest struct {
	Payer       pixPartyPayload   `json:"payer"`
	Merchant    pixPartyPayload   `json:"merchant"`
	Address     pixAddressPayload `json:"address"`
	Amount      int64             `json:"amount"`
	Description string            `json:"description"`
	Reference   string            `json:"reference"`
	DueDate     string            `json:"due_date"`
}

type pixChargeResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url"`
}

type pixStatusResponse struct {
	Status     string     `json:"status"`
	Amount     int64      `json:"amount"`
	PaidAt     *time.Time `json:"paid_at"`
	PaymentURL string     `json:"payment_url"`
}

// Initiate validates the payer, merges the merchant profile into the charge
// payload and opens the PIX charge. The returned artifact carries the
// copy-paste code and QR URL the customer pays with.
func (g *PixGateway) Initiate(ctx context.Context, req InitiateRequest) (*Artifact, error) {
	if err := validatePayer(req.Payer); err != nil {
		return nil, err
	}

	profile, err := g.company.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load company profile: %w", err)
	}
	if profile == nil {
		return nil, apperror.NewBadRequestError("company profile is not configured")
	}

	payload := pixChargeRequest{
		Payer: pixPartyPayload{
			Name:     req.Payer.Name,
			Email:    req.Payer.Email,
			Document: req.Payer.Document,
			Phone:    req.Payer.Phone,
		},
		Merchant: pixPartyPayload{
			Name:     profile.Name,
			Email:    profile.Email,
			Document: profile.Document,
			Phone:    profile.Phone,
		},
		Address: pixAddressPayload{
			Street:     profile.Street,
			Number:     profile.Number,
			District:   profile.District,
			City:       profile.City,
			State:      profile.State,
			Complement: profile.Complement,
			ZipCode:    profile.ZipCode,
		},
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		DueDate:     time.Now().Add(pixDueDateDelay).Format("2006-01-02"),
	}

	var resp pixChargeResponse
	if err := g.client.do(ctx, http.MethodPost, "/charge", payload, &resp); err != nil {
		return nil, err
	}

	return &Artifact{
		PixCode:   resp.PaymentURL,
		QRCodeURL: resp.PaymentURL,
	}, nil
}

// Confirm polls the provider for the payment keyed by reference
func (g *PixGateway) Confirm(ctx context.Context, reference string) (*Outcome, error) {
	var resp pixStatusResponse
	if err := g.client.do(ctx, http.MethodGet, "/payment-data/"+reference, nil, &resp); err != nil {
		return nil, err
	}

	return &Outcome{
		Status:   resp.Status,
		Paid:     resp.Status == "approved",
		Approved: resp.Status == "approved",
		PaidAt:   resp.PaidAt,
	}, nil
}
