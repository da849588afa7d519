package models

// Client is a row of the clients table.
type Client struct {
	ClientID     string `db:"client_id"`
	Name         string `db:"name"`
	Company      string `db:"company"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	Street       string `db:"street"`
	City         string `db:"city"`
	State        string `db:"state"`
	ZipCode      string `db:"zip_code"`
	Country      string `db:"country"`
	TaxID        string `db:"tax_id"`
	PaymentTerms string `db:"payment_terms"`
	Notes        string `db:"notes"`
	AuditFields
}
