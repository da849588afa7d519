package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/dto"
)

// WorkOrderReaderSvc defines read operations for work orders
type WorkOrderReaderSvc interface {
	// GetWorkOrder loads a work order; ErrNotFound if absent.
	GetWorkOrder(ctx context.Context, workOrderID string) (*domain.WorkOrder, error)

	// ListWorkOrders returns a page of work orders, newest first.
	ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error)
}

// WorkOrderWorkflowSvc drives a work order through its steps.
type WorkOrderWorkflowSvc interface {
	// CreateWorkOrder opens a work order at the first step.
	CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, creatorUserID string) (*domain.WorkOrder, error)

	// AdvanceStep stores the payload for the current step and moves forward.
	AdvanceStep(ctx context.Context, workOrderID string, data domain.StepData, userID string) (*domain.WorkOrder, error)

	// RetreatStep moves back one step, keeping all entered data.
	RetreatStep(ctx context.Context, workOrderID string, userID string) (*domain.WorkOrder, error)

	// CompleteWorkOrder generates the invoice and closes the order as one unit.
	CompleteWorkOrder(ctx context.Context, workOrderID string, userID string) (*domain.WorkOrder, *domain.Invoice, error)

	// GenerateWorkCode returns a random four digit work code.
	GenerateWorkCode(ctx context.Context) (string, error)
}

// WorkOrderSvcFacade combines all work order service interfaces
type WorkOrderSvcFacade interface {
	WorkOrderReaderSvc
	WorkOrderWorkflowSvc
}
