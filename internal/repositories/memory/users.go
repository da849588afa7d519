package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Username == username })
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return email != "" && strings.EqualFold(u.Email, email) })
}

func (s *Store) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool {
		return u.AuthProvider == provider && u.ProviderUserID != nil && *u.ProviderUserID == providerUserID
	})
}

func (s *Store) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].UserID > all[j].UserID
	})
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == user.UserID || u.Username == user.Username {
			return fmt.Errorf("user %s: %w", user.Username, apperrors.ErrDuplicate)
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.UserID]; !ok {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrNotFound)
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) findUser(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
