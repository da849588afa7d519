package handlers

import (
	"bytes"
	"fmt"
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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers all invoice-related routes. Accounting
// edits are limited to super_admin.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)
	adminOnly := middleware.RequireRole(domain.RoleSuperAdmin)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/export", h.exportInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.GET("/:id/changes", h.listInvoiceChanges)
		invoices.PATCH("/:id", adminOnly, h.updateInvoice)
		invoices.POST("/:id/recompute", adminOnly, h.recomputeAmount)
	}
}

func invoiceFilter(status string) domain.InvoiceFilter {
	if status == "" {
		return domain.InvoiceFilter{}
	}
	s := domain.InvoiceStatus(status)
	return domain.InvoiceFilter{Status: &s}
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest first, optionally filtered by status.
// @Tags invoices
// @Produce  json
// @Param   status query string false "pending, paid or overdue"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var query dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	params, err := pagination.ListParams(query.Limit, query.NextToken)
	if err != nil {
		respondError(c, err, "Invalid page token")
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), invoiceFilter(query.Status), params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	next := pagination.NextToken(invoices, params.Limit, func(i domain.Invoice) (time.Time, string) {
		return i.CreatedAt, i.InvoiceID
	})
	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices, next))
}

// listInvoiceChanges godoc
// @Summary List accounting edits of an invoice
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {array} dto.InvoiceChangeResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/changes [get]
func (h *invoiceHandler) listInvoiceChanges(c *gin.Context) {
	changes, err := h.invoiceService.ListInvoiceChanges(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list invoice changes")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceChangeResponses(changes))
}

// updateInvoice godoc
// @Summary Edit an invoice
// @Description Changes status and/or amount and records the edit. Number, client snapshot and billing details never change.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Accounting edit"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// recomputeAmount godoc
// @Summary Recompute an invoice amount
// @Description Resets the amount to hours worked times rate per hour.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/recompute [post]
func (h *invoiceHandler) recomputeAmount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.RecomputeAmount(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to recompute invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// exportInvoices godoc
// @Summary Export invoices
// @Description Downloads invoices matching the status filter as an XLSX workbook.
// @Tags invoices
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   status query string false "pending, paid or overdue"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *invoiceHandler) exportInvoices(c *gin.Context) {
	var query dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}

	var buf bytes.Buffer
	n, err := h.invoiceService.ExportInvoices(c.Request.Context(), invoiceFilter(query.Status), &buf)
	if err != nil {
		respondError(c, err, "Failed to export invoices")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoices exported", slog.Int("count", n))

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
