// Package gateway contains the payment provider adapters. PIX and card
// charges go through an external payment API reached via a primary and a
// fallback base URL; cash involves no provider at all.
package gateway

import (
	"context"
	"time"

	"github.com/itsells/billing-api/internal/domain/enum"
	"github.com/itsells/billing-api/pkg/apperror"
	"github.com/itsells/billing-api/pkg/cpf"
)

// Payer is the customer identity sent to the provider. Document and Phone
// hold digits only.
type Payer struct {
	Name     string
	Email    string
	Document string
	Phone    string
}

// InitiateRequest carries everything an adapter needs to open a charge
type InitiateRequest struct {
	Payer       Payer
	Amount      int64 // cents
	Reference   string
	TableNumber int // 0 for counter service
	Description string
}

// Artifact is the method-specific checkout handle returned by Initiate
type Artifact struct {
	PixCode     string `json:"pix_code,omitempty"`
	QRCodeURL   string `json:"qr_code_url,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Outcome is the provider-side view of a payment's status
type Outcome struct {
	Status   string
	Paid     bool
	Approved bool
	PaidAt   *time.Time
}

// Gateway is the capability contract every payment method implements
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*Artifact, error)
	Confirm(ctx context.Context, reference string) (*Outcome, error)
}

// TokenCharger is the card-specific second leg: charging a token the
// card-holder created out-of-band on the provider's checkout page.
type TokenCharger interface {
	ChargeToken(ctx context.Context, reference, token string, amount int64) (*Outcome, error)
}

// Registry resolves the adapter for a payment method
type Registry struct {
	pix  Gateway
	card Gateway
	cash Gateway
}

// NewRegistry creates a registry over the three method adapters
func NewRegistry(pix, card, cash Gateway) *Registry {
	return &Registry{pix: pix, card: card, cash: cash}
}

// ForMethod returns the adapter for the given method
func (r *Registry) ForMethod(method enum.PaymentMethod) (Gateway, bool) {
	switch method {
	case enum.PaymentMethodPix:
		return r.pix, true
	case enum.PaymentMethodCard:
		return r.card, true
	case enum.PaymentMethodCash:
		return r.cash, true
	}
	return nil, false
}

// TokenChargerFor returns the method's adapter when it supports charging a
// checkout token, which today only the card adapter does.
func (r *Registry) TokenChargerFor(method enum.PaymentMethod) (TokenCharger, bool) {
	gw, ok := r.ForMethod(method)
	if !ok {
		return nil, false
	}
	charger, ok := gw.(TokenCharger)
	return charger, ok
}

// validatePayer checks the payer identity before anything is sent to the
// provider. Invalid data never reaches the network.
func validatePayer(p Payer) error {
	var fieldErrors []apperror.FieldError

	if len(p.Name) < 2 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !validEmail(p.Email) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "A valid email is required"})
	}
	if !cpf.Valid(p.Document) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "document", Message: "A valid CPF is required"})
	}
	if len(p.Phone) < 10 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "A valid phone number is required"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validEmail(email string) bool {
	at := -1
	for i, r := range email {
		if r == '@' {
			if at >= 0 {
				return false
			}
			at = i
		}
	}
	if at < 1 || at == len(email)-1 {
		return false
	}
	dot := false
	for _, r := range email[at+1:] {
		if r == '.' {
			dot = true
		}
	}
	return dot
}
