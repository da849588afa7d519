package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/export"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	clientRepo  portsrepo.ClientReader
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	clientRepo portsrepo.ClientReader,
	opts ...ServiceOption,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: newBaseService(opts),
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// GenerateInvoice derives the invoice from the order's billing data and the
// current client record, then hands both the invoice and the closed order to
// the repository, which assigns the number and writes them together.
func (s *invoiceService) GenerateInvoice(ctx context.Context, order domain.WorkOrder, userID string) (*domain.Invoice, *domain.WorkOrder, error) {
	if err := domain.CanComplete(order).Error(); err != nil {
		return nil, nil, err
	}

	client, err := s.clientRepo.FindClientByID(ctx, order.BillingData.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrClientNotFound, order.BillingData.ClientID)
		}
		s.LogError(ctx, err, "Failed to load client for invoice",
			slog.String("client_id", order.BillingData.ClientID))
		return nil, nil, err
	}

	now := s.Now()
	invoice, err := domain.BuildInvoice(uuid.NewString(), order, *client, now, userID)
	if err != nil {
		return nil, nil, err
	}
	closed, err := domain.CloseWorkOrder(order, invoice.InvoiceID, userID, now)
	if err != nil {
		return nil, nil, err
	}

	issued, err := s.invoiceRepo.IssueInvoice(ctx, invoice, closed)
	if err != nil {
		if !errors.Is(err, apperrors.ErrOrderClosed) {
			s.LogError(ctx, err, "Failed to issue invoice",
				slog.String("work_order_id", order.WorkOrderID))
		}
		return nil, nil, err
	}

	s.LogInfo(ctx, "Invoice issued",
		slog.String("invoice_number", issued.InvoiceNumber),
		slog.String("amount", issued.Amount.StringFixed(2)),
		slog.Time("due_date", issued.DueDate))
	return issued, &closed, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, filter, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, err
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

func (s *invoiceService) ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	changes, err := s.invoiceRepo.ListInvoiceChanges(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoice changes", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if changes == nil {
		return []domain.InvoiceChange{}, nil
	}
	return changes, nil
}

// UpdateInvoice applies an accounting edit. The invoice number, client
// snapshot and billing details never change.
func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if req.Status == nil && req.Amount == nil {
		return nil, fmt.Errorf("%w: status or amount is required", apperrors.ErrValidation)
	}

	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	newStatus := invoice.Status
	if req.Status != nil {
		newStatus = domain.InvoiceStatus(*req.Status)
		if !newStatus.IsValid() {
			return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, *req.Status)
		}
	}
	newAmount := invoice.Amount
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
		}
		newAmount = req.Amount.Round(2)
	}

	return s.applyChange(ctx, *invoice, newStatus, newAmount, req.Reason, userID)
}

// RecomputeAmount resets the amount to hours times rate from the invoice's details.
func (s *invoiceService) RecomputeAmount(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.applyChange(ctx, *invoice, invoice.Status, invoice.Details.Amount(), "recomputed from hours and rate", userID)
}

// MarkOverdue flags every pending invoice due before now. Invoices edited
// after the sweep read them are left alone. Other failures on single
// invoices are logged and reported together after the rest are processed.
func (s *invoiceService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.invoiceRepo.FindPendingDueBefore(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to find overdue invoices")
		return 0, err
	}

	marked, skipped := 0, 0
	var errs []error
	for _, invoice := range due {
		if !invoice.IsOverdueAt(now) {
			continue
		}
		if _, err := s.applyChangeAt(ctx, invoice, domain.InvoiceOverdue, invoice.Amount, "past due date", domain.SystemUserID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				s.LogInfo(ctx, "Invoice changed during overdue sweep, skipping", slog.String("invoice_number", invoice.InvoiceNumber))
				skipped++
				continue
			}
			errs = append(errs, fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, err))
			continue
		}
		marked++
	}

	s.LogInfo(ctx, "Overdue sweep finished", slog.Int("marked", marked), slog.Int("skipped", skipped), slog.Int("failed", len(errs)))
	return marked, errors.Join(errs...)
}

// ExportInvoices writes all invoices matching filter, newest first, as XLSX.
func (s *invoiceService) ExportInvoices(ctx context.Context, filter domain.InvoiceFilter, w io.Writer) (int, error) {
	var all []domain.Invoice
	params := domain.ListParams{Limit: domain.MaxListLimit}
	for {
		page, err := s.invoiceRepo.ListInvoices(ctx, filter, params)
		if err != nil {
			s.LogError(ctx, err, "Failed to load invoices for export")
			return 0, err
		}
		all = append(all, page...)
		if len(page) < params.Limit {
			break
		}
		last := page[len(page)-1]
		createdAt := last.CreatedAt
		params.AfterCreatedAt = &createdAt
		params.AfterID = last.InvoiceID
	}

	if err := export.WriteInvoicesXLSX(all, w); err != nil {
		s.LogError(ctx, err, "Failed to write invoice export")
		return 0, err
	}
	return len(all), nil
}

func (s *invoiceService) applyChange(ctx context.Context, invoice domain.Invoice, status domain.InvoiceStatus, amount decimal.Decimal, reason, userID string) (*domain.Invoice, error) {
	return s.applyChangeAt(ctx, invoice, status, amount, reason, userID, s.Now())
}

func (s *invoiceService) applyChangeAt(ctx context.Context, invoice domain.Invoice, status domain.InvoiceStatus, amount decimal.Decimal, reason, userID string, now time.Time) (*domain.Invoice, error) {
	change := domain.InvoiceChange{
		ChangeID:       uuid.NewString(),
		InvoiceID:      invoice.InvoiceID,
		PreviousStatus: invoice.Status,
		NewStatus:      status,
		PreviousAmount: invoice.Amount,
		NewAmount:      amount,
		Reason:         reason,
		ChangedBy:      userID,
		ChangedAt:      now,
	}

	invoice.Status = status
	invoice.Amount = amount
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoice(ctx, invoice, change); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoice.InvoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated",
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("status", string(status)),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("changed_by", userID))
	return &invoice, nil
}
