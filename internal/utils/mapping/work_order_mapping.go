package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/models"
)

// ToModelWorkOrder converts a domain WorkOrder to a model WorkOrder,
// encoding each submitted step payload as JSON.
func ToModelWorkOrder(d domain.WorkOrder) (models.WorkOrder, error) {
	m := models.WorkOrder{
		WorkOrderID: d.WorkOrderID,
		WorkCode:    d.WorkCode,
		Status:      string(d.Status),
		CurrentStep: string(d.CurrentStep),
		CompletedAt: d.CompletedAt,
		InvoiceID:   d.InvoiceID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	var err error
	if m.JSAData, err = marshalPayload(d.JSAData); err != nil {
		return models.WorkOrder{}, err
	}
	if m.PreTripData, err = marshalPayload(d.PreTripData); err != nil {
		return models.WorkOrder{}, err
	}
	if m.JourneyData, err = marshalPayload(d.JourneyData); err != nil {
		return models.WorkOrder{}, err
	}
	if m.BillingData, err = marshalPayload(d.BillingData); err != nil {
		return models.WorkOrder{}, err
	}
	return m, nil
}

// ToDomainWorkOrder converts a model WorkOrder to a domain WorkOrder
func ToDomainWorkOrder(m models.WorkOrder) (domain.WorkOrder, error) {
	d := domain.WorkOrder{
		WorkOrderID: m.WorkOrderID,
		WorkCode:    m.WorkCode,
		Status:      domain.WorkOrderStatus(m.Status),
		CurrentStep: domain.Step(m.CurrentStep),
		CompletedAt: m.CompletedAt,
		InvoiceID:   m.InvoiceID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if err := unmarshalPayload(m.JSAData, &d.JSAData); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("work order %s jsa data: %w", m.WorkOrderID, err)
	}
	if err := unmarshalPayload(m.PreTripData, &d.PreTripData); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("work order %s pre-trip data: %w", m.WorkOrderID, err)
	}
	if err := unmarshalPayload(m.JourneyData, &d.JourneyData); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("work order %s journey data: %w", m.WorkOrderID, err)
	}
	if err := unmarshalPayload(m.BillingData, &d.BillingData); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("work order %s billing data: %w", m.WorkOrderID, err)
	}
	return d, nil
}

// ToDomainWorkOrderSlice converts a slice of model WorkOrders to a slice of domain WorkOrders
func ToDomainWorkOrderSlice(ms []models.WorkOrder) ([]domain.WorkOrder, error) {
	ds := make([]domain.WorkOrder, len(ms))
	for i, m := range ms {
		d, err := ToDomainWorkOrder(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

func marshalPayload[T any](p *T) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode step payload: %w", err)
	}
	return b, nil
}

func unmarshalPayload[T any](b []byte, dst **T) error {
	if len(b) == 0 || string(b) == "null" {
		*dst = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}
