package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// WorkOrderReader defines read operations for work order data
type WorkOrderReader interface {
	// FindWorkOrderByID retrieves a work order by its ID.
	FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error)

	// ListWorkOrders retrieves work orders newest first.
	ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error)

	// CountWorkOrders counts work orders matching the filter.
	CountWorkOrders(ctx context.Context, filter domain.WorkOrderFilter) (int, error)
}

// WorkOrderWriter defines write operations for work order data
type WorkOrderWriter interface {
	// SaveWorkOrder persists a new work order.
	SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error

	// UpdateWorkOrder replaces the step payloads, current step and update
	// timestamps in a single write. It fails with ErrOrderClosed when the
	// stored order is no longer open.
	UpdateWorkOrder(ctx context.Context, order domain.WorkOrder) error
}

// WorkOrderRepositoryFacade combines all work order repository interfaces
type WorkOrderRepositoryFacade interface {
	WorkOrderReader
	WorkOrderWriter
}
