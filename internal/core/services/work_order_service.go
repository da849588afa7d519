package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/google/uuid"
)

// workOrderService implements the WorkOrderSvcFacade interface
type workOrderService struct {
	BaseService
	workOrderRepo portsrepo.WorkOrderRepositoryFacade
	invoices      portssvc.InvoiceGeneratorSvc
	analytics     *utils.PosthogClientWrapper
}

// NewWorkOrderService creates a new work order service.
func NewWorkOrderService(
	workOrderRepo portsrepo.WorkOrderRepositoryFacade,
	invoices portssvc.InvoiceGeneratorSvc,
	analytics *utils.PosthogClientWrapper,
	opts ...ServiceOption,
) portssvc.WorkOrderSvcFacade {
	return &workOrderService{
		BaseService:   newBaseService(opts),
		workOrderRepo: workOrderRepo,
		invoices:      invoices,
		analytics:     analytics,
	}
}

var _ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)

func (s *workOrderService) CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, creatorUserID string) (*domain.WorkOrder, error) {
	workCode := strings.TrimSpace(req.WorkCode)
	if workCode == "" {
		code, err := s.GenerateWorkCode(ctx)
		if err != nil {
			return nil, err
		}
		workCode = code
	}

	order := domain.NewWorkOrder(uuid.NewString(), workCode, creatorUserID, s.Now())
	if err := s.workOrderRepo.SaveWorkOrder(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save work order", slog.String("work_code", workCode))
		return nil, err
	}

	s.LogInfo(ctx, "Work order created",
		slog.String("work_order_id", order.WorkOrderID),
		slog.String("work_code", order.WorkCode))
	return &order, nil
}

func (s *workOrderService) GetWorkOrder(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find work order", slog.String("work_order_id", workOrderID))
		}
		return nil, err
	}
	return order, nil
}

func (s *workOrderService) ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error) {
	orders, err := s.workOrderRepo.ListWorkOrders(ctx, filter, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list work orders")
		return nil, err
	}
	if orders == nil {
		return []domain.WorkOrder{}, nil
	}
	return orders, nil
}

// AdvanceStep validates and stores the payload for the current step and moves forward.
func (s *workOrderService) AdvanceStep(ctx context.Context, workOrderID string, data domain.StepData, userID string) (*domain.WorkOrder, error) {
	order, err := s.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	updated, err := domain.ApplyStep(*order, data, userID, s.Now())
	if err != nil {
		s.LogDebug(ctx, "Step submission rejected",
			slog.String("work_order_id", workOrderID),
			slog.String("step", string(order.CurrentStep)),
			slog.String("reason", err.Error()))
		return nil, err
	}

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, updated); err != nil {
		if !errors.Is(err, apperrors.ErrOrderClosed) {
			s.LogError(ctx, err, "Failed to store step", slog.String("work_order_id", workOrderID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Work order step submitted",
		slog.String("work_order_id", workOrderID),
		slog.String("submitted_step", string(order.CurrentStep)),
		slog.String("current_step", string(updated.CurrentStep)))
	return &updated, nil
}

// RetreatStep moves back one step. At the first step the order is returned unchanged.
func (s *workOrderService) RetreatStep(ctx context.Context, workOrderID string, userID string) (*domain.WorkOrder, error) {
	order, err := s.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	updated, moved, err := domain.RetreatStep(*order, userID, s.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return order, nil
	}

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, updated); err != nil {
		if !errors.Is(err, apperrors.ErrOrderClosed) {
			s.LogError(ctx, err, "Failed to move work order back", slog.String("work_order_id", workOrderID))
		}
		return nil, err
	}
	return &updated, nil
}

// CompleteWorkOrder generates the invoice and closes the order. Either both
// happen or neither does.
func (s *workOrderService) CompleteWorkOrder(ctx context.Context, workOrderID string, userID string) (*domain.WorkOrder, *domain.Invoice, error) {
	order, err := s.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.CanComplete(*order).Error(); err != nil {
		return nil, nil, err
	}

	invoice, closed, err := s.invoices.GenerateInvoice(ctx, *order, userID)
	if err != nil {
		return nil, nil, err
	}

	s.analytics.Enqueue(userID, utils.EventWorkOrderCompleted, map[string]any{
		"work_order_id":  closed.WorkOrderID,
		"invoice_number": invoice.InvoiceNumber,
		"service_type":   invoice.ServiceType,
	})
	s.LogInfo(ctx, "Work order completed",
		slog.String("work_order_id", closed.WorkOrderID),
		slog.String("invoice_number", invoice.InvoiceNumber))
	return closed, invoice, nil
}

func (s *workOrderService) GenerateWorkCode(ctx context.Context) (string, error) {
	code, err := utils.GenerateWorkCode()
	if err != nil {
		s.LogError(ctx, err, "Failed to generate work code")
		return "", err
	}
	return code, nil
}
