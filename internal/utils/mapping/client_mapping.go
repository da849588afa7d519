package mapping

import (
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:     d.ClientID,
		Name:         d.Name,
		Company:      d.Company,
		Email:        d.Email,
		Phone:        d.Phone,
		Street:       d.Address.Street,
		City:         d.Address.City,
		State:        d.Address.State,
		ZipCode:      d.Address.ZipCode,
		Country:      d.Address.Country,
		TaxID:        d.TaxID,
		PaymentTerms: string(d.PaymentTerms),
		Notes:        d.Notes,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID: m.ClientID,
		Name:     m.Name,
		Company:  m.Company,
		Email:    m.Email,
		Phone:    m.Phone,
		Address: domain.Address{
			Street:  m.Street,
			City:    m.City,
			State:   m.State,
			ZipCode: m.ZipCode,
			Country: m.Country,
		},
		TaxID:        m.TaxID,
		PaymentTerms: domain.PaymentTerms(m.PaymentTerms),
		Notes:        m.Notes,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to a slice of domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
