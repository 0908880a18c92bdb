package apperror

import (
	"fmt"
	"net/http"
	"time"
)

// ConnectivityError means no payment provider base URL was reachable. The
// same attempt may be retried; nothing was sent to the provider.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("payment provider unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ProviderRejectionError means the provider returned a terminal non-approved
// status. The reference must not be retried; a new checkout attempt is needed.
type ProviderRejectionError struct {
	Reference string
	Status    string
}

func (e *ProviderRejectionError) Error() string {
	return fmt.Sprintf("payment %s rejected by provider (status %s)", e.Reference, e.Status)
}

// TimeoutError means the confirmation ceiling was reached before the provider
// reported a terminal status. The user must restart checkout.
type TimeoutError struct {
	Reference string
	Elapsed   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("payment %s confirmation timed out after %s", e.Reference, e.Elapsed)
}

// CloseStep identifies one of the bill closer's three writes
type CloseStep string

const (
	CloseStepOrders  CloseStep = "orders"
	CloseStepTable   CloseStep = "table"
	CloseStepPayment CloseStep = "payment"
)

// PartialCloseError means the bill closer failed part way through its
// non-atomic writes. Step names the write that failed; earlier steps are not
// rolled back, so the operator must complete the remaining ones manually.
type PartialCloseError struct {
	Step CloseStep
	Err  error
}

func (e *PartialCloseError) Error() string {
	return fmt.Sprintf("bill close failed at %s step: %v", e.Step, e.Err)
}

func (e *PartialCloseError) Unwrap() error {
	return e.Err
}

func (e *PartialCloseError) appError() *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("Bill close incomplete: %s update failed, complete the remaining steps manually", e.Step),
	}
}
