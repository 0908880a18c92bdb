package request

import "github.com/google/uuid"

// BillTotalsRequest asks for the priced bill of one target
type BillTotalsRequest struct {
	TableID              *uuid.UUID `json:"table_id"`
	CustomerID           *uuid.UUID `json:"customer_id"`
	IncludeServiceCharge bool       `json:"include_service_charge"`
	GuestCount           int        `json:"guest_count"`
}
