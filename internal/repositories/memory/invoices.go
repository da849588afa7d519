package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func (s *Store) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoice, ok := s.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	return &invoice, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.Invoice, 0, len(s.invoices))
	for _, invoice := range s.invoices {
		if filter.Status != nil && invoice.Status != *filter.Status {
			continue
		}
		matched = append(matched, invoice)
	}
	return page(matched, params, invoiceKey), nil
}

func (s *Store) CountInvoices(ctx context.Context, filter domain.InvoiceFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, invoice := range s.invoices {
		if filter.Status == nil || invoice.Status == *filter.Status {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []domain.Invoice
	for _, invoice := range s.invoices {
		if invoice.Status == domain.InvoicePending && invoice.DueDate.Before(cutoff) {
			due = append(due, invoice)
		}
	}
	return due, nil
}

func (s *Store) ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.InvoiceChange(nil), s.invoiceChanges[invoiceID]...), nil
}

// IssueInvoice numbers and stores the invoice and closes the order under the
// store's write lock.
func (s *Store) IssueInvoice(ctx context.Context, invoice domain.Invoice, closedOrder domain.WorkOrder) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.workOrders[closedOrder.WorkOrderID]
	if !ok {
		return nil, fmt.Errorf("work order %s: %w", closedOrder.WorkOrderID, apperrors.ErrNotFound)
	}
	if stored.IsClosed() {
		return nil, fmt.Errorf("work order %s: %w", closedOrder.WorkOrderID, apperrors.ErrOrderClosed)
	}
	if _, exists := s.invoices[invoice.InvoiceID]; exists {
		return nil, fmt.Errorf("invoice %s: %w", invoice.InvoiceID, apperrors.ErrDuplicate)
	}

	next := domain.NextInvoiceNumber(s.lastInvoiceNum)
	invoice.InvoiceNumber = domain.FormatInvoiceNumber(next)

	s.lastInvoiceNum = &next
	s.invoices[invoice.InvoiceID] = invoice
	s.workOrders[closedOrder.WorkOrderID] = cloneWorkOrder(closedOrder)
	return &invoice, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, invoice domain.Invoice, change domain.InvoiceChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.invoices[invoice.InvoiceID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoice.InvoiceID, apperrors.ErrNotFound)
	}
	if stored.Status != change.PreviousStatus || !stored.Amount.Equal(change.PreviousAmount) {
		return fmt.Errorf("%w: invoice %s changed since it was read", apperrors.ErrConflict, invoice.InvoiceID)
	}
	stored.Status = invoice.Status
	stored.Amount = invoice.Amount
	stored.LastUpdatedAt = invoice.LastUpdatedAt
	stored.LastUpdatedBy = invoice.LastUpdatedBy
	s.invoices[invoice.InvoiceID] = stored
	s.invoiceChanges[invoice.InvoiceID] = append(s.invoiceChanges[invoice.InvoiceID], change)
	return nil
}

func invoiceKey(i domain.Invoice) (time.Time, string) {
	return i.CreatedAt, i.InvoiceID
}
