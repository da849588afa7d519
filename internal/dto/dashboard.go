package dto

import "github.com/SscSPs/fieldops_backend/internal/core/domain"

// DashboardResponse summarizes recent activity.
type DashboardResponse struct {
	RecentWorkOrders []WorkOrderResponse `json:"recentWorkOrders"`
	RecentInvoices   []InvoiceResponse   `json:"recentInvoices"`
	OpenWorkOrders   int                 `json:"openWorkOrders"`
	PendingInvoices  int                 `json:"pendingInvoices"`
}

// ToDashboardResponse converts domain.Dashboard to DTO.
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		RecentWorkOrders: ToListWorkOrdersResponse(d.RecentWorkOrders, "").WorkOrders,
		RecentInvoices:   ToListInvoicesResponse(d.RecentInvoices, "").Invoices,
		OpenWorkOrders:   d.OpenWorkOrders,
		PendingInvoices:  d.PendingInvoices,
	}
}
