package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func (s *Store) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.workOrders[workOrderID]
	if !ok {
		return nil, fmt.Errorf("work order %s: %w", workOrderID, apperrors.ErrNotFound)
	}
	c := cloneWorkOrder(order)
	return &c, nil
}

func (s *Store) ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.WorkOrder, 0, len(s.workOrders))
	for _, order := range s.workOrders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		matched = append(matched, cloneWorkOrder(order))
	}
	return page(matched, params, workOrderKey), nil
}

func (s *Store) CountWorkOrders(ctx context.Context, filter domain.WorkOrderFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, order := range s.workOrders {
		if filter.Status == nil || order.Status == *filter.Status {
			n++
		}
	}
	return n, nil
}

func (s *Store) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workOrders[order.WorkOrderID]; exists {
		return fmt.Errorf("work order %s: %w", order.WorkOrderID, apperrors.ErrDuplicate)
	}
	s.workOrders[order.WorkOrderID] = cloneWorkOrder(order)
	return nil
}

func (s *Store) UpdateWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.workOrders[order.WorkOrderID]
	if !ok {
		return fmt.Errorf("work order %s: %w", order.WorkOrderID, apperrors.ErrNotFound)
	}
	if stored.IsClosed() {
		return fmt.Errorf("work order %s: %w", order.WorkOrderID, apperrors.ErrOrderClosed)
	}
	stored.CurrentStep = order.CurrentStep
	stored.JSAData = order.JSAData
	stored.PreTripData = order.PreTripData
	stored.JourneyData = order.JourneyData
	stored.BillingData = order.BillingData
	stored.LastUpdatedAt = order.LastUpdatedAt
	stored.LastUpdatedBy = order.LastUpdatedBy
	s.workOrders[order.WorkOrderID] = cloneWorkOrder(stored)
	return nil
}

func workOrderKey(o domain.WorkOrder) (time.Time, string) {
	return o.CreatedAt, o.WorkOrderID
}

func cloneWorkOrder(o domain.WorkOrder) domain.WorkOrder {
	o.JSAData = clonePtr(o.JSAData)
	if o.JSAData != nil {
		o.JSAData.PPE = append([]string(nil), o.JSAData.PPE...)
	}
	o.PreTripData = clonePtr(o.PreTripData)
	o.JourneyData = clonePtr(o.JourneyData)
	o.BillingData = clonePtr(o.BillingData)
	o.CompletedAt = clonePtr(o.CompletedAt)
	o.InvoiceID = clonePtr(o.InvoiceID)
	return o
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
