package domain

// Client is a customer billed for field work.
type Client struct {
	ClientID     string       `json:"id"`
	Name         string       `json:"name"`
	Company      string       `json:"company"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Address      Address      `json:"address"`
	TaxID        string       `json:"taxId,omitempty"`
	PaymentTerms PaymentTerms `json:"paymentTerms"`
	Notes        string       `json:"notes,omitempty"`
	AuditFields
}

// Snapshot copies the contact fields that invoices keep.
func (c Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		Name:    c.Name,
		Company: c.Company,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}
