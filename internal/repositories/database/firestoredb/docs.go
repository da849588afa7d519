package firestoredb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Document shapes. Money is kept as decimal strings so no precision is lost to
// Firestore's float type; step payloads are stored as nested maps.

type auditDoc struct {
	CreatedAt     time.Time `firestore:"createdAt"`
	CreatedBy     string    `firestore:"createdBy"`
	LastUpdatedAt time.Time `firestore:"updatedAt"`
	LastUpdatedBy string    `firestore:"updatedBy"`
}

type addressDoc struct {
	Street  string `firestore:"street"`
	City    string `firestore:"city"`
	State   string `firestore:"state"`
	ZipCode string `firestore:"zipCode"`
	Country string `firestore:"country"`
}

type workOrderDoc struct {
	WorkCode    string         `firestore:"workCode"`
	Status      string         `firestore:"status"`
	CurrentStep string         `firestore:"currentStep"`
	JSAData     map[string]any `firestore:"jsaData"`
	PreTripData map[string]any `firestore:"preTripData"`
	JourneyData map[string]any `firestore:"journeyData"`
	BillingData map[string]any `firestore:"billingData"`
	CompletedAt *time.Time     `firestore:"completedAt"`
	InvoiceID   *string        `firestore:"invoiceId"`
	auditDoc
}

type clientDoc struct {
	Name         string     `firestore:"name"`
	Company      string     `firestore:"company"`
	Email        string     `firestore:"email"`
	Phone        string     `firestore:"phone"`
	Address      addressDoc `firestore:"address"`
	TaxID        string     `firestore:"taxId"`
	PaymentTerms string     `firestore:"paymentTerms"`
	Notes        string     `firestore:"notes"`
	auditDoc
}

type invoiceDoc struct {
	InvoiceNumber string     `firestore:"invoiceNumber"`
	InvoiceSeq    int64      `firestore:"invoiceSeq"`
	WorkCode      string     `firestore:"workCode"`
	WorkOrderID   string     `firestore:"workOrderId"`
	ClientID      string     `firestore:"clientId"`
	ClientName    string     `firestore:"clientName"`
	ClientCompany string     `firestore:"clientCompany"`
	ClientEmail   string     `firestore:"clientEmail"`
	ClientPhone   string     `firestore:"clientPhone"`
	ClientAddress addressDoc `firestore:"clientAddress"`
	ServiceType   string     `firestore:"serviceType"`
	Amount        string     `firestore:"amount"`
	Materials     string     `firestore:"materials"`
	PaymentTerms  string     `firestore:"paymentTerms"`
	Status        string     `firestore:"status"`
	Date          time.Time  `firestore:"date"`
	DueDate       time.Time  `firestore:"dueDate"`
	HoursWorked   string     `firestore:"hoursWorked"`
	RatePerHour   string     `firestore:"ratePerHour"`
	Notes         string     `firestore:"notes"`
	auditDoc
}

type invoiceChangeDoc struct {
	PreviousStatus string    `firestore:"previousStatus"`
	NewStatus      string    `firestore:"newStatus"`
	PreviousAmount string    `firestore:"previousAmount"`
	NewAmount      string    `firestore:"newAmount"`
	Reason         string    `firestore:"reason"`
	ChangedBy      string    `firestore:"changedBy"`
	ChangedAt      time.Time `firestore:"changedAt"`
}

type userDoc struct {
	Username       string     `firestore:"username"`
	Email          string     `firestore:"email"`
	EmailLower     string     `firestore:"emailLower"`
	DisplayName    string     `firestore:"displayName"`
	Role           string     `firestore:"role"`
	Active         bool       `firestore:"isActive"`
	Department     string     `firestore:"department"`
	JobTitle       string     `firestore:"jobTitle"`
	PhoneNumber    string     `firestore:"phoneNumber"`
	PhotoURL       string     `firestore:"photoURL"`
	PasswordHash   *string    `firestore:"passwordHash"`
	AuthProvider   string     `firestore:"authProvider"`
	ProviderUserID *string    `firestore:"providerUserId"`
	LastLoginAt    *time.Time `firestore:"lastLoginAt"`
	auditDoc
}

type counterDoc struct {
	LastNumber int64 `firestore:"lastNumber"`
}

func toAuditDoc(a domain.AuditFields) auditDoc {
	return auditDoc{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func (a auditDoc) toDomain() domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt.UTC(),
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt.UTC(),
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

// payloadMap converts a step payload into a generic map via its JSON form.
func payloadMap[T any](p *T) (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func payloadFromMap[T any](m map[string]any) (*T, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var p T
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func toWorkOrderDoc(o domain.WorkOrder) (workOrderDoc, error) {
	d := workOrderDoc{
		WorkCode:    o.WorkCode,
		Status:      string(o.Status),
		CurrentStep: string(o.CurrentStep),
		CompletedAt: o.CompletedAt,
		InvoiceID:   o.InvoiceID,
		auditDoc:    toAuditDoc(o.AuditFields),
	}
	var err error
	if d.JSAData, err = payloadMap(o.JSAData); err != nil {
		return d, fmt.Errorf("encode jsa data: %w", err)
	}
	if d.PreTripData, err = payloadMap(o.PreTripData); err != nil {
		return d, fmt.Errorf("encode pre-trip data: %w", err)
	}
	if d.JourneyData, err = payloadMap(o.JourneyData); err != nil {
		return d, fmt.Errorf("encode journey data: %w", err)
	}
	if d.BillingData, err = payloadMap(o.BillingData); err != nil {
		return d, fmt.Errorf("encode billing data: %w", err)
	}
	return d, nil
}

func (d workOrderDoc) toDomain(id string) (domain.WorkOrder, error) {
	o := domain.WorkOrder{
		WorkOrderID: id,
		WorkCode:    d.WorkCode,
		Status:      domain.WorkOrderStatus(d.Status),
		CurrentStep: domain.Step(d.CurrentStep),
		CompletedAt: d.CompletedAt,
		InvoiceID:   d.InvoiceID,
		AuditFields: d.auditDoc.toDomain(),
	}
	var err error
	if o.JSAData, err = payloadFromMap[domain.JSAData](d.JSAData); err != nil {
		return o, fmt.Errorf("decode jsa data of %s: %w", id, err)
	}
	if o.PreTripData, err = payloadFromMap[domain.PreTripData](d.PreTripData); err != nil {
		return o, fmt.Errorf("decode pre-trip data of %s: %w", id, err)
	}
	if o.JourneyData, err = payloadFromMap[domain.JourneyData](d.JourneyData); err != nil {
		return o, fmt.Errorf("decode journey data of %s: %w", id, err)
	}
	if o.BillingData, err = payloadFromMap[domain.BillingData](d.BillingData); err != nil {
		return o, fmt.Errorf("decode billing data of %s: %w", id, err)
	}
	return o, nil
}

func toClientDoc(c domain.Client) clientDoc {
	return clientDoc{
		Name:         c.Name,
		Company:      c.Company,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      addressDoc(c.Address),
		TaxID:        c.TaxID,
		PaymentTerms: string(c.PaymentTerms),
		Notes:        c.Notes,
		auditDoc:     toAuditDoc(c.AuditFields),
	}
}

func (d clientDoc) toDomain(id string) domain.Client {
	return domain.Client{
		ClientID:     id,
		Name:         d.Name,
		Company:      d.Company,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      domain.Address(d.Address),
		TaxID:        d.TaxID,
		PaymentTerms: domain.PaymentTerms(d.PaymentTerms),
		Notes:        d.Notes,
		AuditFields:  d.auditDoc.toDomain(),
	}
}

func toInvoiceDoc(i domain.Invoice, seq int) invoiceDoc {
	return invoiceDoc{
		InvoiceNumber: i.InvoiceNumber,
		InvoiceSeq:    int64(seq),
		WorkCode:      i.WorkCode,
		WorkOrderID:   i.WorkOrderID,
		ClientID:      i.ClientID,
		ClientName:    i.ClientSnapshot.Name,
		ClientCompany: i.ClientSnapshot.Company,
		ClientEmail:   i.ClientSnapshot.Email,
		ClientPhone:   i.ClientSnapshot.Phone,
		ClientAddress: addressDoc(i.ClientSnapshot.Address),
		ServiceType:   i.ServiceType,
		Amount:        i.Amount.String(),
		Materials:     i.Materials,
		PaymentTerms:  string(i.PaymentTerms),
		Status:        string(i.Status),
		Date:          i.Date,
		DueDate:       i.DueDate,
		HoursWorked:   i.Details.HoursWorked.String(),
		RatePerHour:   i.Details.RatePerHour.String(),
		Notes:         i.Notes,
		auditDoc:      toAuditDoc(i.AuditFields),
	}
}

func (d invoiceDoc) toDomain(id string) (domain.Invoice, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("decode amount of invoice %s: %w", id, err)
	}
	hours, err := decimal.NewFromString(d.HoursWorked)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("decode hours of invoice %s: %w", id, err)
	}
	rate, err := decimal.NewFromString(d.RatePerHour)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("decode rate of invoice %s: %w", id, err)
	}
	return domain.Invoice{
		InvoiceID:     id,
		InvoiceNumber: d.InvoiceNumber,
		WorkCode:      d.WorkCode,
		WorkOrderID:   d.WorkOrderID,
		ClientID:      d.ClientID,
		ClientSnapshot: domain.ClientSnapshot{
			Name:    d.ClientName,
			Company: d.ClientCompany,
			Email:   d.ClientEmail,
			Phone:   d.ClientPhone,
			Address: domain.Address(d.ClientAddress),
		},
		ServiceType:  d.ServiceType,
		Amount:       amount,
		Materials:    d.Materials,
		PaymentTerms: domain.PaymentTerms(d.PaymentTerms),
		Status:       domain.InvoiceStatus(d.Status),
		Date:         d.Date.UTC(),
		DueDate:      d.DueDate.UTC(),
		Details:      domain.InvoiceDetails{HoursWorked: hours, RatePerHour: rate},
		Notes:        d.Notes,
		AuditFields:  d.auditDoc.toDomain(),
	}, nil
}

func toInvoiceChangeDoc(c domain.InvoiceChange) invoiceChangeDoc {
	return invoiceChangeDoc{
		PreviousStatus: string(c.PreviousStatus),
		NewStatus:      string(c.NewStatus),
		PreviousAmount: c.PreviousAmount.String(),
		NewAmount:      c.NewAmount.String(),
		Reason:         c.Reason,
		ChangedBy:      c.ChangedBy,
		ChangedAt:      c.ChangedAt,
	}
}

func (d invoiceChangeDoc) toDomain(id, invoiceID string) (domain.InvoiceChange, error) {
	prev, err := decimal.NewFromString(d.PreviousAmount)
	if err != nil {
		return domain.InvoiceChange{}, fmt.Errorf("decode previous amount of change %s: %w", id, err)
	}
	next, err := decimal.NewFromString(d.NewAmount)
	if err != nil {
		return domain.InvoiceChange{}, fmt.Errorf("decode new amount of change %s: %w", id, err)
	}
	return domain.InvoiceChange{
		ChangeID:       id,
		InvoiceID:      invoiceID,
		PreviousStatus: domain.InvoiceStatus(d.PreviousStatus),
		NewStatus:      domain.InvoiceStatus(d.NewStatus),
		PreviousAmount: prev,
		NewAmount:      next,
		Reason:         d.Reason,
		ChangedBy:      d.ChangedBy,
		ChangedAt:      d.ChangedAt.UTC(),
	}, nil
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		Username:       u.Username,
		Email:          u.Email,
		EmailLower:     lower(u.Email),
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		Active:         u.Active,
		Department:     u.Department,
		JobTitle:       u.JobTitle,
		PhoneNumber:    u.PhoneNumber,
		PhotoURL:       u.PhotoURL,
		PasswordHash:   u.PasswordHash,
		AuthProvider:   string(u.AuthProvider),
		ProviderUserID: u.ProviderUserID,
		LastLoginAt:    u.LastLoginAt,
		auditDoc:       toAuditDoc(u.AuditFields),
	}
}

func (d userDoc) toDomain(id string) domain.User {
	return domain.User{
		UserID:         id,
		Username:       d.Username,
		Email:          d.Email,
		DisplayName:    d.DisplayName,
		Role:           domain.Role(d.Role),
		Active:         d.Active,
		Department:     d.Department,
		JobTitle:       d.JobTitle,
		PhoneNumber:    d.PhoneNumber,
		PhotoURL:       d.PhotoURL,
		PasswordHash:   d.PasswordHash,
		AuthProvider:   domain.AuthProvider(d.AuthProvider),
		ProviderUserID: d.ProviderUserID,
		LastLoginAt:    d.LastLoginAt,
		AuditFields:    d.auditDoc.toDomain(),
	}
}
