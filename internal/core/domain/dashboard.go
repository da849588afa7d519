package domain

// DashboardRecentLimit is how many recent work orders and invoices the dashboard shows.
const DashboardRecentLimit = 5

// Dashboard summarizes recent activity.
type Dashboard struct {
	RecentWorkOrders []WorkOrder `json:"recentWorkOrders"`
	RecentInvoices   []Invoice   `json:"recentInvoices"`
	OpenWorkOrders   int         `json:"openWorkOrders"`
	PendingInvoices  int         `json:"pendingInvoices"`
}
