package dto

import (
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateInvoiceRequest is an accounting edit. At least one of Status and Amount must be set.
type UpdateInvoiceRequest struct {
	Status *string          `json:"status" binding:"omitempty,oneof=pending paid overdue"`
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason" binding:"max=500"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// AddressResponse mirrors domain.Address.
type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func toAddressResponse(a domain.Address) AddressResponse {
	return AddressResponse(a)
}

// InvoiceResponse defines data returned for an invoice. Money is rendered with two decimals.
type InvoiceResponse struct {
	InvoiceID     string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	WorkCode      string          `json:"workCode"`
	WorkOrderID   string          `json:"workOrderId"`
	ClientID      string          `json:"clientId"`
	ClientName    string          `json:"clientName"`
	ClientCompany string          `json:"clientCompany"`
	ClientEmail   string          `json:"clientEmail"`
	ClientPhone   string          `json:"clientPhone"`
	ClientAddress AddressResponse `json:"clientAddress"`
	ServiceType   string          `json:"serviceType"`
	Amount        string          `json:"amount"`
	Materials     string          `json:"materials,omitempty"`
	PaymentTerms  string          `json:"paymentTerms"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"dueDate"`
	HoursWorked   string          `json:"hoursWorked"`
	RatePerHour   string          `json:"ratePerHour"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToInvoiceResponse converts domain.Invoice to DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		WorkCode:      inv.WorkCode,
		WorkOrderID:   inv.WorkOrderID,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientSnapshot.Name,
		ClientCompany: inv.ClientSnapshot.Company,
		ClientEmail:   inv.ClientSnapshot.Email,
		ClientPhone:   inv.ClientSnapshot.Phone,
		ClientAddress: toAddressResponse(inv.ClientSnapshot.Address),
		ServiceType:   inv.ServiceType,
		Amount:        inv.Amount.StringFixed(2),
		Materials:     inv.Materials,
		PaymentTerms:  string(inv.PaymentTerms),
		Status:        string(inv.Status),
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		HoursWorked:   inv.Details.HoursWorked.String(),
		RatePerHour:   inv.Details.RatePerHour.StringFixed(2),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.LastUpdatedAt,
	}
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToListInvoicesResponse converts a slice of domain.Invoice to DTO.
func ToListInvoicesResponse(invs []domain.Invoice, nextToken string) ListInvoicesResponse {
	list := make([]InvoiceResponse, len(invs))
	for i, inv := range invs {
		list[i] = ToInvoiceResponse(&inv)
	}
	return ListInvoicesResponse{Invoices: list, NextToken: nextToken}
}

// InvoiceChangeResponse defines data returned for an accounting edit.
type InvoiceChangeResponse struct {
	ChangeID       string    `json:"id"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	PreviousAmount string    `json:"previousAmount"`
	NewAmount      string    `json:"newAmount"`
	Reason         string    `json:"reason,omitempty"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`
}

// ToInvoiceChangeResponses converts invoice change records to DTOs.
func ToInvoiceChangeResponses(changes []domain.InvoiceChange) []InvoiceChangeResponse {
	res := make([]InvoiceChangeResponse, len(changes))
	for i, c := range changes {
		res[i] = InvoiceChangeResponse{
			ChangeID:       c.ChangeID,
			PreviousStatus: string(c.PreviousStatus),
			NewStatus:      string(c.NewStatus),
			PreviousAmount: c.PreviousAmount.StringFixed(2),
			NewAmount:      c.NewAmount.StringFixed(2),
			Reason:         c.Reason,
			ChangedBy:      c.ChangedBy,
			ChangedAt:      c.ChangedAt,
		}
	}
	return res
}
