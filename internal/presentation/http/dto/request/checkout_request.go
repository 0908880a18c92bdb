package request

import "github.com/google/uuid"

// PayerRequest is the payer identity entered at checkout
type PayerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Document string `json:"document" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// StartCheckoutRequest opens a checkout attempt for one target
type StartCheckoutRequest struct {
	TableID              *uuid.UUID   `json:"table_id"`
	CustomerID           *uuid.UUID   `json:"customer_id"`
	Method               string       `json:"method" binding:"required"`
	Payer                PayerRequest `json:"payer" binding:"required"`
	IncludeServiceCharge bool         `json:"include_service_charge"`
	GuestCount           int          `json:"guest_count"`
}

// CardTokenRequest charges the token created on the provider checkout page.
// Amount is in currency units and must match the open charge.
type CardTokenRequest struct {
	Token  string  `json:"token" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// PaymentWebhookRequest is the provider's asynchronous status notification
type PaymentWebhookRequest struct {
	Reference string `json:"reference" binding:"required"`
	Status    string `json:"status" binding:"required"`
}
