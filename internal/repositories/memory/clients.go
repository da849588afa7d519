package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func (s *Store) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	return &client, nil
}

func (s *Store) ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		all = append(all, client)
	}
	return page(all, params, func(c domain.Client) (time.Time, string) { return c.CreatedAt, c.ClientID }), nil
}

func (s *Store) SaveClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[client.ClientID]; exists {
		return fmt.Errorf("client %s: %w", client.ClientID, apperrors.ErrDuplicate)
	}
	s.clients[client.ClientID] = client
	return nil
}

func (s *Store) UpdateClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[client.ClientID]; !exists {
		return fmt.Errorf("client %s: %w", client.ClientID, apperrors.ErrNotFound)
	}
	s.clients[client.ClientID] = client
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[clientID]; !exists {
		return fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	delete(s.clients, clientID)
	return nil
}
