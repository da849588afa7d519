package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table. The client columns are a copy of
// the client taken at issue time.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"`
	InvoiceSeq    int             `db:"invoice_seq"`
	WorkCode      string          `db:"work_code"`
	WorkOrderID   string          `db:"work_order_id"`
	ClientID      string          `db:"client_id"`
	ClientName    string          `db:"client_name"`
	ClientCompany string          `db:"client_company"`
	ClientEmail   string          `db:"client_email"`
	ClientPhone   string          `db:"client_phone"`
	ClientStreet  string          `db:"client_street"`
	ClientCity    string          `db:"client_city"`
	ClientState   string          `db:"client_state"`
	ClientZipCode string          `db:"client_zip_code"`
	ClientCountry string          `db:"client_country"`
	ServiceType   string          `db:"service_type"`
	Amount        decimal.Decimal `db:"amount"`
	Materials     string          `db:"materials"`
	PaymentTerms  string          `db:"payment_terms"`
	Status        string          `db:"status"`
	InvoiceDate   time.Time       `db:"invoice_date"`
	DueDate       time.Time       `db:"due_date"`
	HoursWorked   decimal.Decimal `db:"hours_worked"`
	RatePerHour   decimal.Decimal `db:"rate_per_hour"`
	Notes         string          `db:"notes"`
	AuditFields
}

// InvoiceChange is a row of the invoice_changes table.
type InvoiceChange struct {
	ChangeID       string          `db:"change_id"`
	InvoiceID      string          `db:"invoice_id"`
	PreviousStatus string          `db:"previous_status"`
	NewStatus      string          `db:"new_status"`
	PreviousAmount decimal.Decimal `db:"previous_amount"`
	NewAmount      decimal.Decimal `db:"new_amount"`
	Reason         string          `db:"reason"`
	ChangedBy      string          `db:"changed_by"`
	ChangedAt      time.Time       `db:"changed_at"`
}
