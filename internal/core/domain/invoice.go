package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// FirstInvoiceNumber is assigned when no invoice has been issued yet.
const FirstInvoiceNumber = 1000

const invoiceNumberPrefix = "INV-"

// InvoiceStatus tracks payment of an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// PaymentTerms is a netN code: payment is due N days after issue.
type PaymentTerms string

const (
	Net15 PaymentTerms = "net15"
	Net30 PaymentTerms = "net30"
	Net45 PaymentTerms = "net45"
	Net60 PaymentTerms = "net60"
)

// Days parses the day count of the terms.
func (p PaymentTerms) Days() (int, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(string(p))), "net")
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidPaymentTerms, string(p))
	}
	return days, nil
}

// DueDate adds the terms' day count in calendar days to issued.
func (p PaymentTerms) DueDate(issued time.Time) (time.Time, error) {
	days, err := p.Days()
	if err != nil {
		return time.Time{}, err
	}
	return issued.AddDate(0, 0, days), nil
}

// Address is a postal address, stored on clients and copied onto invoices.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// DetailScale is the number of decimal places kept for hours and rate.
const DetailScale = 2

// InvoiceDetails snapshots the billing inputs behind the amount.
type InvoiceDetails struct {
	HoursWorked decimal.Decimal `json:"hoursWorked"`
	RatePerHour decimal.Decimal `json:"ratePerHour"`
}

// Amount returns hours times rate rounded to cents.
func (d InvoiceDetails) Amount() decimal.Decimal {
	return d.HoursWorked.Mul(d.RatePerHour).Round(2)
}

// ClientSnapshot is the client's contact data as it was when the invoice was issued.
type ClientSnapshot struct {
	Name    string  `json:"clientName"`
	Company string  `json:"clientCompany"`
	Email   string  `json:"clientEmail"`
	Phone   string  `json:"clientPhone"`
	Address Address `json:"clientAddress"`
}

// Invoice is a billing document derived from a closed work order.
type Invoice struct {
	InvoiceID     string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	WorkCode      string `json:"workCode"`
	WorkOrderID   string `json:"workOrderId"`
	ClientID      string `json:"clientId"`
	ClientSnapshot
	ServiceType  string          `json:"serviceType"`
	Amount       decimal.Decimal `json:"amount"`
	Materials    string          `json:"materials,omitempty"`
	PaymentTerms PaymentTerms    `json:"paymentTerms"`
	Status       InvoiceStatus   `json:"status"`
	Date         time.Time       `json:"date"`
	DueDate      time.Time       `json:"dueDate"`
	Details      InvoiceDetails  `json:"details"`
	Notes        string          `json:"notes,omitempty"`
	AuditFields
}

// IsOverdueAt reports whether a pending invoice is past its due date.
func (i Invoice) IsOverdueAt(now time.Time) bool {
	return i.Status == InvoicePending && i.DueDate.Before(now)
}

// FormatInvoiceNumber renders n as INV- followed by at least four digits.
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("%s%04d", invoiceNumberPrefix, n)
}

// ParseInvoiceNumber extracts the numeric suffix of an invoice number.
func ParseInvoiceNumber(s string) (int, error) {
	if !strings.HasPrefix(s, invoiceNumberPrefix) {
		return 0, fmt.Errorf("%w: invoice number %q has no %s prefix", apperrors.ErrValidation, s, invoiceNumberPrefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, invoiceNumberPrefix))
	if err != nil {
		return 0, fmt.Errorf("%w: invoice number %q: %v", apperrors.ErrValidation, s, err)
	}
	return n, nil
}

// NextInvoiceNumber returns the number following last, or FirstInvoiceNumber
// when nothing has been issued.
func NextInvoiceNumber(last *int) int {
	if last == nil {
		return FirstInvoiceNumber
	}
	return *last + 1
}

// BuildInvoice derives a pending invoice from a work order's billing data and
// the client record. The invoice number is left empty; it is assigned when the
// invoice is persisted.
func BuildInvoice(id string, order WorkOrder, client Client, issuedAt time.Time, userID string) (Invoice, error) {
	if order.BillingData == nil {
		return Invoice{}, fmt.Errorf("%w: work order %s", apperrors.ErrMissingBillingData, order.WorkOrderID)
	}
	billing := *order.BillingData
	if billing.RatePerHour == nil {
		return Invoice{}, fmt.Errorf("%w: work order %s has no rate per hour", apperrors.ErrMissingBillingData, order.WorkOrderID)
	}
	dueDate, err := billing.PaymentTerms.DueDate(issuedAt)
	if err != nil {
		return Invoice{}, err
	}
	// Hours and rate are stored with two decimal places; the amount is
	// computed from the stored values so a recompute reproduces it.
	details := InvoiceDetails{
		HoursWorked: billing.HoursWorked.Round(DetailScale),
		RatePerHour: billing.RatePerHour.Round(DetailScale),
	}
	return Invoice{
		InvoiceID:      id,
		WorkCode:       order.WorkCode,
		WorkOrderID:    order.WorkOrderID,
		ClientID:       client.ClientID,
		ClientSnapshot: client.Snapshot(),
		ServiceType:    billing.ServiceType,
		Amount:         details.Amount(),
		Materials:      billing.Materials,
		PaymentTerms:   billing.PaymentTerms,
		Status:         InvoicePending,
		Date:           issuedAt,
		DueDate:        dueDate,
		Details:        details,
		Notes:          billing.Notes,
		AuditFields: AuditFields{
			CreatedAt:     issuedAt,
			CreatedBy:     userID,
			LastUpdatedAt: issuedAt,
			LastUpdatedBy: userID,
		},
	}, nil
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status *InvoiceStatus
}

// InvoiceChange records one accounting edit of an invoice.
type InvoiceChange struct {
	ChangeID       string          `json:"id"`
	InvoiceID      string          `json:"invoiceId"`
	PreviousStatus InvoiceStatus   `json:"previousStatus"`
	NewStatus      InvoiceStatus   `json:"newStatus"`
	PreviousAmount decimal.Decimal `json:"previousAmount"`
	NewAmount      decimal.Decimal `json:"newAmount"`
	Reason         string          `json:"reason,omitempty"`
	ChangedBy      string          `json:"changedBy"`
	ChangedAt      time.Time       `json:"changedAt"`
}

// SystemUserID attributes changes made by background jobs.
const SystemUserID = "system"
