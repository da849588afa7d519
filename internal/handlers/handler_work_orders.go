package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// workOrderHandler handles HTTP requests related to work orders.
type workOrderHandler struct {
	workOrderService portssvc.WorkOrderSvcFacade
}

func newWorkOrderHandler(ws portssvc.WorkOrderSvcFacade) *workOrderHandler {
	return &workOrderHandler{workOrderService: ws}
}

// registerWorkOrderRoutes registers all work-order-related routes.
func registerWorkOrderRoutes(rg *gin.RouterGroup, workOrderService portssvc.WorkOrderSvcFacade) {
	h := newWorkOrderHandler(workOrderService)

	orders := rg.Group("/work-orders")
	{
		orders.POST("", h.createWorkOrder)
		orders.GET("", h.listWorkOrders)
		orders.GET("/work-code", h.generateWorkCode)
		orders.GET("/:id", h.getWorkOrder)
		orders.POST("/:id/advance", h.advanceStep)
		orders.POST("/:id/back", h.retreatStep)
		orders.POST("/:id/complete", h.completeWorkOrder)
	}
}

// createWorkOrder godoc
// @Summary Open a work order
// @Description Creates an open work order at the JSA step. An empty work code is generated.
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   workOrder body dto.CreateWorkOrderRequest false "Work order details"
// @Success 201 {object} dto.WorkOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders [post]
func (h *workOrderHandler) createWorkOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateWorkOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
	}

	order, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create work order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkOrderResponse(order))
}

// getWorkOrder godoc
// @Summary Get a work order
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id} [get]
func (h *workOrderHandler) getWorkOrder(c *gin.Context) {
	order, err := h.workOrderService.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve work order")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// listWorkOrders godoc
// @Summary List work orders
// @Description Lists work orders newest first, optionally filtered by status.
// @Tags work-orders
// @Produce  json
// @Param   status query string false "open or closed"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListWorkOrdersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders [get]
func (h *workOrderHandler) listWorkOrders(c *gin.Context) {
	var query dto.ListWorkOrdersParams
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	params, err := pagination.ListParams(query.Limit, query.NextToken)
	if err != nil {
		respondError(c, err, "Invalid page token")
		return
	}
	var filter domain.WorkOrderFilter
	if query.Status != "" {
		status := domain.WorkOrderStatus(query.Status)
		filter.Status = &status
	}

	orders, err := h.workOrderService.ListWorkOrders(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err, "Failed to list work orders")
		return
	}
	next := pagination.NextToken(orders, params.Limit, func(o domain.WorkOrder) (time.Time, string) {
		return o.CreatedAt, o.WorkOrderID
	})
	c.JSON(http.StatusOK, dto.ToListWorkOrdersResponse(orders, next))
}

// advanceStep godoc
// @Summary Submit the current step
// @Description Validates and stores the payload for the current step and moves to the next one.
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Work order ID"
// @Param   step body dto.AdvanceStepRequest true "Payload for the current step"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Work order is closed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id}/advance [post]
func (h *workOrderHandler) advanceStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AdvanceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.workOrderService.AdvanceStep(c.Request.Context(), c.Param("id"), req.ToStepData(), userID)
	if err != nil {
		respondError(c, err, "Failed to submit step")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// retreatStep godoc
// @Summary Go back one step
// @Description Moves the work order back one step. Entered data is kept. At the first step nothing changes.
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Work order is closed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id}/back [post]
func (h *workOrderHandler) retreatStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	order, err := h.workOrderService.RetreatStep(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to move work order back")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// completeWorkOrder godoc
// @Summary Complete a work order
// @Description Generates the invoice and closes the work order in one step.
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work order ID"
// @Success 200 {object} dto.CompleteWorkOrderResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Work order is closed"
// @Failure 422 {object} ErrorResponse "Billing data missing or client not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id}/complete [post]
func (h *workOrderHandler) completeWorkOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))

	order, invoice, err := h.workOrderService.CompleteWorkOrder(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to complete work order")
		return
	}
	logger.Info("Work order closed", slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusOK, dto.CompleteWorkOrderResponse{
		WorkOrder: dto.ToWorkOrderResponse(order),
		Invoice:   dto.ToInvoiceResponse(invoice),
	})
}

// generateWorkCode godoc
// @Summary Generate a work code
// @Description Returns a random four digit work code.
// @Tags work-orders
// @Produce  json
// @Success 200 {object} dto.WorkCodeResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /work-orders/work-code [get]
func (h *workOrderHandler) generateWorkCode(c *gin.Context) {
	code, err := h.workOrderService.GenerateWorkCode(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to generate work code")
		return
	}
	c.JSON(http.StatusOK, dto.WorkCodeResponse{WorkCode: code})
}
