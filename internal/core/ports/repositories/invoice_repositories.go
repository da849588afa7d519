package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its ID.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices newest first.
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error)

	// CountInvoices counts invoices matching the filter.
	CountInvoices(ctx context.Context, filter domain.InvoiceFilter) (int, error)

	// FindPendingDueBefore retrieves pending invoices whose due date is before cutoff.
	FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error)

	// ListInvoiceChanges retrieves the accounting edits of an invoice, oldest first.
	ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error)
}

// InvoiceIssuer assigns invoice numbers.
type InvoiceIssuer interface {
	// IssueInvoice atomically assigns the next invoice number, inserts the
	// invoice and stores the closed work order. Number assignment is
	// serialized across concurrent callers. Nothing is written when any part
	// fails; ErrOrderClosed is returned if the stored order is already closed.
	IssueInvoice(ctx context.Context, invoice domain.Invoice, closedOrder domain.WorkOrder) (*domain.Invoice, error)
}

// InvoiceWriter defines accounting edits.
type InvoiceWriter interface {
	// UpdateInvoice stores the new status and amount together with the change
	// record. The write only applies while the stored status and amount still
	// equal change.PreviousStatus and change.PreviousAmount; otherwise it
	// returns apperrors.ErrConflict and nothing is written.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, change domain.InvoiceChange) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceIssuer
	InvoiceWriter
}
