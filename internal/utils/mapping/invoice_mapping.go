package mapping

import (
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. seq is the
// numeric part of the invoice number.
func ToModelInvoice(d domain.Invoice, seq int) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		InvoiceSeq:    seq,
		WorkCode:      d.WorkCode,
		WorkOrderID:   d.WorkOrderID,
		ClientID:      d.ClientID,
		ClientName:    d.ClientSnapshot.Name,
		ClientCompany: d.ClientSnapshot.Company,
		ClientEmail:   d.ClientSnapshot.Email,
		ClientPhone:   d.ClientSnapshot.Phone,
		ClientStreet:  d.ClientSnapshot.Address.Street,
		ClientCity:    d.ClientSnapshot.Address.City,
		ClientState:   d.ClientSnapshot.Address.State,
		ClientZipCode: d.ClientSnapshot.Address.ZipCode,
		ClientCountry: d.ClientSnapshot.Address.Country,
		ServiceType:   d.ServiceType,
		Amount:        d.Amount,
		Materials:     d.Materials,
		PaymentTerms:  string(d.PaymentTerms),
		Status:        string(d.Status),
		InvoiceDate:   d.Date,
		DueDate:       d.DueDate,
		HoursWorked:   d.Details.HoursWorked,
		RatePerHour:   d.Details.RatePerHour,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		WorkCode:      m.WorkCode,
		WorkOrderID:   m.WorkOrderID,
		ClientID:      m.ClientID,
		ClientSnapshot: domain.ClientSnapshot{
			Name:    m.ClientName,
			Company: m.ClientCompany,
			Email:   m.ClientEmail,
			Phone:   m.ClientPhone,
			Address: domain.Address{
				Street:  m.ClientStreet,
				City:    m.ClientCity,
				State:   m.ClientState,
				ZipCode: m.ClientZipCode,
				Country: m.ClientCountry,
			},
		},
		ServiceType:  m.ServiceType,
		Amount:       m.Amount,
		Materials:    m.Materials,
		PaymentTerms: domain.PaymentTerms(m.PaymentTerms),
		Status:       domain.InvoiceStatus(m.Status),
		Date:         m.InvoiceDate,
		DueDate:      m.DueDate,
		Details: domain.InvoiceDetails{
			HoursWorked: m.HoursWorked,
			RatePerHour: m.RatePerHour,
		},
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelInvoiceChange converts a domain InvoiceChange to a model InvoiceChange
func ToModelInvoiceChange(d domain.InvoiceChange) models.InvoiceChange {
	return models.InvoiceChange{
		ChangeID:       d.ChangeID,
		InvoiceID:      d.InvoiceID,
		PreviousStatus: string(d.PreviousStatus),
		NewStatus:      string(d.NewStatus),
		PreviousAmount: d.PreviousAmount,
		NewAmount:      d.NewAmount,
		Reason:         d.Reason,
		ChangedBy:      d.ChangedBy,
		ChangedAt:      d.ChangedAt,
	}
}

// ToDomainInvoiceChange converts a model InvoiceChange to a domain InvoiceChange
func ToDomainInvoiceChange(m models.InvoiceChange) domain.InvoiceChange {
	return domain.InvoiceChange{
		ChangeID:       m.ChangeID,
		InvoiceID:      m.InvoiceID,
		PreviousStatus: domain.InvoiceStatus(m.PreviousStatus),
		NewStatus:      domain.InvoiceStatus(m.NewStatus),
		PreviousAmount: m.PreviousAmount,
		NewAmount:      m.NewAmount,
		Reason:         m.Reason,
		ChangedBy:      m.ChangedBy,
		ChangedAt:      m.ChangedAt,
	}
}
