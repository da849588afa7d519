package services

import (
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	blobs portsrepo.BlobStore,
	analytics *utils.PosthogClientWrapper,
	opts ...ServiceOption,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Client = NewClientService(repos.ClientRepo, opts...)
	container.User = NewUserService(repos.UserRepo, opts...)

	// Work orders close through the invoice generator.
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.ClientRepo, opts...)
	container.WorkOrder = NewWorkOrderService(repos.WorkOrderRepo, container.Invoice, analytics, opts...)

	container.Dashboard = NewDashboardService(repos.WorkOrderRepo, repos.InvoiceRepo, opts...)
	container.Media = NewMediaService(blobs, container.User, cfg.MaxUploadBytes, opts...)

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)
	_ portssvc.InvoiceSvcFacade   = (*invoiceService)(nil)
	_ portssvc.ClientSvcFacade    = (*clientService)(nil)
	_ portssvc.UserSvcFacade      = (*userService)(nil)
	_ portssvc.DashboardSvc       = (*dashboardService)(nil)
	_ portssvc.MediaSvc           = (*mediaService)(nil)
)
