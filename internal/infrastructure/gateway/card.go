package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// CardGateway runs the two-leg card flow: a tokenize-checkout session where
// the card-holder enters card data out-of-band, then a charge by token whose
// answer is the synchronous outcome.
type CardGateway struct {
	client *apiClient
}

// NewCardGateway creates the card adapter
func NewCardGateway(endpoints *Endpoints, requestTimeout time.Duration) *CardGateway {
	return &CardGateway{client: newAPIClient(endpoints, requestTimeout)}
}

type tokenizeCheckoutRequest struct {
	PayerName     string `json:"payer_name"`
	PayerEmail    string `json:"payer_email"`
	PayerDocument string `json:"payer_document"`
	PayerPhone    string `json:"payer_phone"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	Reference     string `json:"reference"`
}

type tokenizeCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type processTokenRequest struct {
	Token     string `json:"token"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

type processTokenResponse struct {
	Approved bool   `json:"approved"`
	Status   string `json:"status"`
}

// Initiate validates the payer and creates the tokenize-checkout session.
// The artifact carries the redirect URL for the card-holder.
func (g *CardGateway) Initiate(ctx context.Context, req InitiateRequest) (*Artifact, error) {
	if err := validatePayer(req.Payer); err != nil {
		return nil, err
	}

	payload := tokenizeCheckoutRequest{
		PayerName:     req.Payer.Name,
		PayerEmail:    req.Payer.Email,
		PayerDocument: req.Payer.Document,
		PayerPhone:    req.Payer.Phone,
		Amount:        req.Amount,
		Description:   req.Description,
		Reference:     req.Reference,
	}

	var resp tokenizeCheckoutResponse
	if err := g.client.do(ctx, http.MethodPost, "/tokenize-checkout", payload, &resp); err != nil {
		return nil, err
	}

	return &Artifact{CheckoutURL: resp.CheckoutURL}, nil
}

// ChargeToken charges the token created on the checkout page. The response
// already carries the terminal outcome; no polling follows.
func (g *CardGateway) ChargeToken(ctx context.Context, reference, token string, amount int64) (*Outcome, error) {
	if token == "" {
		return nil, errors.New("card token is required")
	}

	payload := processTokenRequest{
		Token:     token,
		Reference: reference,
		Amount:    amount,
	}

	var resp processTokenResponse
	if err := g.client.do(ctx, http.MethodPost, "/process-token", payload, &resp); err != nil {
		return nil, err
	}

	return &Outcome{
		Status:   resp.Status,
		Paid:     resp.Approved,
		Approved: resp.Approved,
	}, nil
}

// Confirm checks the charge by reference. Used by webhook reconciliation;
// the normal card flow gets its outcome synchronously from ChargeToken.
func (g *CardGateway) Confirm(ctx context.Context, reference string) (*Outcome, error) {
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
