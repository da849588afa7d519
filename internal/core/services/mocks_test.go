package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceRepository (based on InvoiceService usage) ---
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter, params)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	return invoices, args.Error(1)
}

func (m *MockInvoiceRepository) CountInvoices(ctx context.Context, filter domain.InvoiceFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, cutoff)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	return invoices, args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error) {
	args := m.Called(ctx, invoiceID)
	var changes []domain.InvoiceChange
	if args.Get(0) != nil {
		changes = args.Get(0).([]domain.InvoiceChange)
	}
	return changes, args.Error(1)
}

func (m *MockInvoiceRepository) IssueInvoice(ctx context.Context, invoice domain.Invoice, closedOrder domain.WorkOrder) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, closedOrder)
	var issued *domain.Invoice
	if args.Get(0) != nil {
		issued = args.Get(0).(*domain.Invoice)
	}
	return issued, args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, change domain.InvoiceChange) error {
	args := m.Called(ctx, invoice, change)
	return args.Error(0)
}
