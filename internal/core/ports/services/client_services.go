package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/dto"
)

// ClientReaderSvc defines read operations for clients
type ClientReaderSvc interface {
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error)
}

// ClientWriterSvc defines write operations for clients
type ClientWriterSvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error)
	// DeleteClient removes the client. Issued invoices keep their snapshot.
	DeleteClient(ctx context.Context, clientID string, userID string) error
}

// ClientSvcFacade combines all client service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
