package dto

import (
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// AddressRequest is a postal address in client requests.
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country" binding:"required"`
}

func (a AddressRequest) toDomain() domain.Address {
	return domain.Address(a)
}

// CreateClientRequest defines data for creating a client.
type CreateClientRequest struct {
	Name         string         `json:"name" binding:"required"`
	Company      string         `json:"company" binding:"required"`
	Email        string         `json:"email" binding:"required,email"`
	Phone        string         `json:"phone" binding:"required"`
	Address      AddressRequest `json:"address" binding:"required"`
	TaxID        string         `json:"taxId"`
	PaymentTerms string         `json:"paymentTerms" binding:"required,oneof=net15 net30 net45 net60"`
	Notes        string         `json:"notes"`
}

// ToClient builds the domain client; identity and audit fields are set by the service.
func (r CreateClientRequest) ToClient() domain.Client {
	return domain.Client{
		Name:         r.Name,
		Company:      r.Company,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address.toDomain(),
		TaxID:        r.TaxID,
		PaymentTerms: domain.PaymentTerms(r.PaymentTerms),
		Notes:        r.Notes,
	}
}

// UpdateClientRequest is a partial update: nil fields are left unchanged.
type UpdateClientRequest struct {
	Name         *string         `json:"name" binding:"omitempty,min=1"`
	Company      *string         `json:"company" binding:"omitempty,min=1"`
	Email        *string         `json:"email" binding:"omitempty,email"`
	Phone        *string         `json:"phone" binding:"omitempty,min=1"`
	Address      *AddressRequest `json:"address"`
	TaxID        *string         `json:"taxId"`
	PaymentTerms *string         `json:"paymentTerms" binding:"omitempty,oneof=net15 net30 net45 net60"`
	Notes        *string         `json:"notes"`
}

// Apply copies the set fields onto c.
func (r UpdateClientRequest) Apply(c *domain.Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Company != nil {
		c.Company = *r.Company
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Address != nil {
		c.Address = r.Address.toDomain()
	}
	if r.TaxID != nil {
		c.TaxID = *r.TaxID
	}
	if r.PaymentTerms != nil {
		c.PaymentTerms = domain.PaymentTerms(*r.PaymentTerms)
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ClientResponse defines data returned for a client.
type ClientResponse struct {
	ClientID     string          `json:"id"`
	Name         string          `json:"name"`
	Company      string          `json:"company"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      AddressResponse `json:"address"`
	TaxID        string          `json:"taxId,omitempty"`
	PaymentTerms string          `json:"paymentTerms"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToClientResponse converts domain.Client to DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:     c.ClientID,
		Name:         c.Name,
		Company:      c.Company,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      toAddressResponse(c.Address),
		TaxID:        c.TaxID,
		PaymentTerms: string(c.PaymentTerms),
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.LastUpdatedAt,
	}
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	NextToken string           `json:"nextToken,omitempty"`
}

// ToListClientsResponse converts a slice of domain.Client to DTO.
func ToListClientsResponse(cs []domain.Client, nextToken string) ListClientsResponse {
	list := make([]ClientResponse, len(cs))
	for i, c := range cs {
		list[i] = ToClientResponse(&c)
	}
	return ListClientsResponse{Clients: list, NextToken: nextToken}
}
