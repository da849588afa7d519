package dto

import (
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// --- Work Order DTOs ---

// CreateWorkOrderRequest defines data for opening a work order. An empty work
// code is replaced by a generated one.
type CreateWorkOrderRequest struct {
	WorkCode string `json:"workCode" binding:"omitempty,max=32"`
}

// AdvanceStepRequest carries the payload for the work order's current step.
// Only the field that matches the current step is read.
type AdvanceStepRequest struct {
	JSAData     *domain.JSAData     `json:"jsaData,omitempty"`
	PreTripData *domain.PreTripData `json:"preTripData,omitempty"`
	JourneyData *domain.JourneyData `json:"journeyData,omitempty"`
	BillingData *domain.BillingData `json:"billingData,omitempty"`
}

// ToStepData converts the request into the domain step payload.
func (r AdvanceStepRequest) ToStepData() domain.StepData {
	return domain.StepData{
		JSA:     r.JSAData,
		PreTrip: r.PreTripData,
		Journey: r.JourneyData,
		Billing: r.BillingData,
	}
}

// ListWorkOrdersParams defines query parameters for listing work orders.
type ListWorkOrdersParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=open closed"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// WorkOrderResponse defines data returned for a work order.
type WorkOrderResponse struct {
	WorkOrderID string                 `json:"id"`
	WorkCode    string                 `json:"workCode"`
	Status      domain.WorkOrderStatus `json:"status"`
	CurrentStep domain.Step            `json:"currentStep"`
	JSAData     *domain.JSAData        `json:"jsaData,omitempty"`
	PreTripData *domain.PreTripData    `json:"preTripData,omitempty"`
	JourneyData *domain.JourneyData    `json:"journeyData,omitempty"`
	BillingData *domain.BillingData    `json:"billingData,omitempty"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
	InvoiceID   *string                `json:"invoiceId,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	UpdatedBy   string                 `json:"updatedBy"`
}

// ToWorkOrderResponse converts domain.WorkOrder to DTO.
func ToWorkOrderResponse(w *domain.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		WorkOrderID: w.WorkOrderID,
		WorkCode:    w.WorkCode,
		Status:      w.Status,
		CurrentStep: w.CurrentStep,
		JSAData:     w.JSAData,
		PreTripData: w.PreTripData,
		JourneyData: w.JourneyData,
		BillingData: w.BillingData,
		CompletedAt: w.CompletedAt,
		InvoiceID:   w.InvoiceID,
		CreatedAt:   w.CreatedAt,
		CreatedBy:   w.CreatedBy,
		UpdatedAt:   w.LastUpdatedAt,
		UpdatedBy:   w.LastUpdatedBy,
	}
}

// ListWorkOrdersResponse wraps a page of work orders.
type ListWorkOrdersResponse struct {
	WorkOrders []WorkOrderResponse `json:"workOrders"`
	NextToken  string              `json:"nextToken,omitempty"`
}

// ToListWorkOrdersResponse converts a slice of domain.WorkOrder to DTO.
func ToListWorkOrdersResponse(ws []domain.WorkOrder, nextToken string) ListWorkOrdersResponse {
	list := make([]WorkOrderResponse, len(ws))
	for i, w := range ws {
		list[i] = ToWorkOrderResponse(&w)
	}
	return ListWorkOrdersResponse{WorkOrders: list, NextToken: nextToken}
}

// CompleteWorkOrderResponse is returned when a work order is closed.
type CompleteWorkOrderResponse struct {
	WorkOrder WorkOrderResponse `json:"workOrder"`
	Invoice   InvoiceResponse   `json:"invoice"`
}

// WorkCodeResponse carries a generated work code.
type WorkCodeResponse struct {
	WorkCode string `json:"workCode"`
}
