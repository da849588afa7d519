package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/google/uuid"
)

// clientService implements the ClientSvcFacade interface
type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new client service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, opts ...ServiceOption) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: newBaseService(opts),
		clientRepo:  clientRepo,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, err
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorUserID string) (*domain.Client, error) {
	client := req.ToClient()
	if _, err := client.PaymentTerms.Days(); err != nil {
		return nil, err
	}

	now := s.Now()
	client.ClientID = uuid.NewString()
	client.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("company", client.Company))
		return nil, err
	}

	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

// UpdateClient changes the client record. Invoices already issued keep the
// snapshot taken when they were created.
func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	req.Apply(client)
	if _, err := client.PaymentTerms.Days(); err != nil {
		return nil, err
	}
	client.LastUpdatedAt = s.Now()
	client.LastUpdatedBy = userID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, userID string) error {
	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		}
		return err
	}
	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID), slog.String("deleted_by", userID))
	return nil
}
