package enum

// PaymentStatus represents the ledger status of a payment record.
//
// Allowed transitions:
//
//	pending    -> processing, approved, rejected, cancelled
//	processing -> approved, rejected, cancelled
//
// approved, rejected and cancelled are terminal.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusApproved   PaymentStatus = "approved"
	PaymentStatusRejected   PaymentStatus = "rejected"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusApproved:   {},
	PaymentStatusRejected:   {},
	PaymentStatusCancelled:  {},
}

// Valid reports whether the status is one of the known payment statuses
func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// Terminal reports whether the status is a terminal ledger state
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is an allowed transition
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
