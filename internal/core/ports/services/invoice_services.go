package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/dto"
)

// InvoiceGeneratorSvc derives invoices from work orders.
type InvoiceGeneratorSvc interface {
	// GenerateInvoice builds the invoice for a work order with billing data,
	// assigns its number and closes the order in one atomic write.
	GenerateInvoice(ctx context.Context, order domain.WorkOrder, userID string) (*domain.Invoice, *domain.WorkOrder, error)
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error)
	ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error)
}

// InvoiceAccountingSvc defines accounting edits of issued invoices.
type InvoiceAccountingSvc interface {
	// UpdateInvoice changes status and/or amount and records the change.
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// RecomputeAmount resets the amount to hours times rate.
	RecomputeAmount(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// MarkOverdue flags pending invoices due before now and returns how many changed.
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// InvoiceExportSvc writes invoices to spreadsheets.
type InvoiceExportSvc interface {
	// ExportInvoices writes an XLSX workbook of invoices matching filter.
	ExportInvoices(ctx context.Context, filter domain.InvoiceFilter, w io.Writer) (int, error)
}

// InvoiceSvcFacade combines all invoice service interfaces
type InvoiceSvcFacade interface {
	InvoiceGeneratorSvc
	InvoiceReaderSvc
	InvoiceAccountingSvc
	InvoiceExportSvc
}
