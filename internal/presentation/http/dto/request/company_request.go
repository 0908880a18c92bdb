package request

// UpdateCompanyRequest stores the merchant profile used in provider payloads
type UpdateCompanyRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Document   string `json:"document" binding:"required"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Complement string `json:"complement"`
	ZipCode    string `json:"zip_code"`
}

// SetCouvertRateRequest sets the per-person couvert for one day.
// Amount is in currency units.
type SetCouvertRateRequest struct {
	Date   string  `json:"date" binding:"required"`
	Amount float64 `json:"amount"`
}
