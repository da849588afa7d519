package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
)

// GuardResult reports whether a workflow transition may proceed.
type GuardResult struct {
	Allowed bool
	Reason  string
	err     error
}

// Error returns the rejection as an error wrapping the matching sentinel, or nil when allowed.
func (g GuardResult) Error() error {
	if g.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", g.err, g.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(err error, reason string) GuardResult {
	return GuardResult{Allowed: false, Reason: reason, err: err}
}

// CanChangeStep checks that the work order still accepts step submissions or retreats.
func CanChangeStep(order WorkOrder) GuardResult {
	if order.IsClosed() {
		return deny(apperrors.ErrOrderClosed, fmt.Sprintf("work order %s is closed", order.WorkOrderID))
	}
	if !order.CurrentStep.IsValid() {
		return deny(apperrors.ErrValidation, fmt.Sprintf("work order %s has unknown step %q", order.WorkOrderID, order.CurrentStep))
	}
	return allow()
}

// CanComplete checks that the work order may be invoiced and closed.
func CanComplete(order WorkOrder) GuardResult {
	if order.IsClosed() {
		return deny(apperrors.ErrOrderClosed, fmt.Sprintf("work order %s is already closed", order.WorkOrderID))
	}
	if order.BillingData == nil {
		return deny(apperrors.ErrMissingBillingData, fmt.Sprintf("work order %s", order.WorkOrderID))
	}
	return allow()
}

// NewWorkOrder initializes an open work order at the first step.
func NewWorkOrder(id, workCode, createdBy string, now time.Time) WorkOrder {
	return WorkOrder{
		WorkOrderID: id,
		WorkCode:    workCode,
		Status:      WorkOrderOpen,
		CurrentStep: StepJSA,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
}

// ApplyStep validates the payload for the order's current step, stores it and
// moves to the next step. At the last step the pointer stays put. The order is
// not modified when an error is returned.
func ApplyStep(order WorkOrder, data StepData, userID string, now time.Time) (WorkOrder, error) {
	if err := CanChangeStep(order).Error(); err != nil {
		return order, err
	}

	switch order.CurrentStep {
	case StepJSA:
		if data.JSA == nil {
			return order, missingPayload(order.CurrentStep)
		}
		if err := ValidateStepPayload(data.JSA); err != nil {
			return order, err
		}
		jsa := *data.JSA
		order.JSAData = &jsa
	case StepPreTrip:
		if data.PreTrip == nil {
			return order, missingPayload(order.CurrentStep)
		}
		if err := ValidateStepPayload(data.PreTrip); err != nil {
			return order, err
		}
		preTrip := *data.PreTrip
		order.PreTripData = &preTrip
	case StepJourney:
		if data.Journey == nil {
			return order, missingPayload(order.CurrentStep)
		}
		if err := ValidateStepPayload(data.Journey); err != nil {
			return order, err
		}
		journey := *data.Journey
		order.JourneyData = &journey
	case StepBilling:
		if data.Billing == nil {
			return order, missingPayload(order.CurrentStep)
		}
		if err := ValidateStepPayload(data.Billing); err != nil {
			return order, err
		}
		billing := *data.Billing
		order.BillingData = &billing
	}

	if next, ok := order.CurrentStep.Next(); ok {
		order.CurrentStep = next
	}
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID
	return order, nil
}

// RetreatStep moves the order back one step, keeping every payload. It is a
// no-op at the first step.
func RetreatStep(order WorkOrder, userID string, now time.Time) (WorkOrder, bool, error) {
	if err := CanChangeStep(order).Error(); err != nil {
		return order, false, err
	}
	prev, ok := order.CurrentStep.Previous()
	if !ok {
		return order, false, nil
	}
	order.CurrentStep = prev
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID
	return order, true, nil
}

// CloseWorkOrder marks the order closed and links it to its invoice.
func CloseWorkOrder(order WorkOrder, invoiceID, userID string, now time.Time) (WorkOrder, error) {
	if err := CanComplete(order).Error(); err != nil {
		return order, err
	}
	completedAt := now
	id := invoiceID
	order.Status = WorkOrderClosed
	order.CompletedAt = &completedAt
	order.InvoiceID = &id
	order.LastUpdatedAt = now
	order.LastUpdatedBy = userID
	return order, nil
}

func missingPayload(step Step) error {
	return fmt.Errorf("%w: payload for step %q is required", apperrors.ErrValidation, step)
}
