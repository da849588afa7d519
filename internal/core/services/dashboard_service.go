package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
)

type dashboardService struct {
	BaseService
	workOrderRepo portsrepo.WorkOrderReader
	invoiceRepo   portsrepo.InvoiceReader
}

// NewDashboardService creates the dashboard summary service.
func NewDashboardService(workOrderRepo portsrepo.WorkOrderReader, invoiceRepo portsrepo.InvoiceReader, opts ...ServiceOption) portssvc.DashboardSvc {
	return &dashboardService{
		BaseService:   newBaseService(opts),
		workOrderRepo: workOrderRepo,
		invoiceRepo:   invoiceRepo,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	recent := domain.ListParams{Limit: domain.DashboardRecentLimit}

	orders, err := s.workOrderRepo.ListWorkOrders(ctx, domain.WorkOrderFilter{}, recent)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recent work orders")
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListInvoices(ctx, domain.InvoiceFilter{}, recent)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recent invoices")
		return nil, err
	}

	open := domain.WorkOrderOpen
	openCount, err := s.workOrderRepo.CountWorkOrders(ctx, domain.WorkOrderFilter{Status: &open})
	if err != nil {
		s.LogError(ctx, err, "Failed to count open work orders")
		return nil, err
	}
	pending := domain.InvoicePending
	pendingCount, err := s.invoiceRepo.CountInvoices(ctx, domain.InvoiceFilter{Status: &pending})
	if err != nil {
		s.LogError(ctx, err, "Failed to count pending invoices")
		return nil, err
	}

	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return &domain.Dashboard{
		RecentWorkOrders: orders,
		RecentInvoices:   invoices,
		OpenWorkOrders:   openCount,
		PendingInvoices:  pendingCount,
	}, nil
}
