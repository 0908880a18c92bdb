package gateway

import (
	"context"
	"errors"
)

// CashGateway is the no-provider flow: the operator asserts the payment at
// the counter. Initiate hands back an empty artifact and Confirm is never
// part of the flow.
type CashGateway struct{}

// NewCashGateway creates the cash adapter
func NewCashGateway() *CashGateway {
	return &CashGateway{}
}

func (g *CashGateway) Initiate(ctx context.Context, req InitiateRequest) (*Artifact, error) {
	return &Artifact{}, nil
}

func (g *CashGateway) Confirm(ctx context.Context, reference string) (*Outcome, error) {
	return nil, errors.New("cash payments are confirmed by the operator, not the provider")
}
