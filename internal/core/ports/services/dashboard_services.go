package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// DashboardSvc summarizes recent activity.
type DashboardSvc interface {
	GetDashboard(ctx context.Context) (*domain.Dashboard, error)
}
