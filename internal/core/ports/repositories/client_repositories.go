package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client by its ID.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// ListClients retrieves clients newest first.
	ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error
	UpdateClient(ctx context.Context, client domain.Client) error
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
