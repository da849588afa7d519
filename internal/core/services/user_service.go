package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, opts ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(opts),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check username", slog.String("username", username))
		return nil, err
	}

	role := domain.RoleEmployee
	if req.Role != "" {
		role = domain.Role(req.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		DisplayName:  req.DisplayName,
		Role:         role,
		Active:       true,
		Department:   req.Department,
		JobTitle:     req.JobTitle,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		return nil, err
	}
	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

func (s *userService) EnsureSuperAdmin(ctx context.Context, username, password string) (*domain.User, bool, error) {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}
	user, err := s.CreateUser(ctx, dto.CreateUserRequest{
		Username:    username,
		Password:    password,
		DisplayName: username,
		Role:        string(domain.RoleSuperAdmin),
	}, domain.SystemUserID)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > domain.MaxListLimit {
		limit = domain.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateUser changes profile fields. Users may edit themselves; a super_admin may edit anyone.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		if err := s.requireSuperAdmin(ctx, requestingUserID); err != nil {
			return nil, err
		}
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	return s.save(ctx, user, requestingUserID)
}

func (s *userService) UpdateUserRole(ctx context.Context, userID string, role domain.Role, requestingUserID string) (*domain.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	if err := s.requireSuperAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	if userID == requestingUserID && role != domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: cannot remove your own super_admin role", apperrors.ErrConflict)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return s.save(ctx, user, requestingUserID)
}

func (s *userService) SetUserActive(ctx context.Context, userID string, active bool, requestingUserID string) (*domain.User, error) {
	if err := s.requireSuperAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	if userID == requestingUserID && !active {
		return nil, fmt.Errorf("%w: cannot deactivate yourself", apperrors.ErrConflict)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Active = active
	return s.save(ctx, user, requestingUserID)
}

func (s *userService) SetPhotoURL(ctx context.Context, userID string, url string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PhotoURL = url
	return s.save(ctx, user, userID)
}

// AuthenticateUser verifies local credentials. Unknown users and wrong
// passwords produce the same error.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.Active {
		return nil, apperrors.ErrUserInactive
	}
	return s.recordLogin(ctx, user)
}

// CreateOAuthUser returns the user linked to the external identity. A verified
// email matching an existing user links the identity to that user; otherwise a
// new employee is created.
func (s *userService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, provider, providerUserID)
	if err == nil {
		if !user.Active {
			return nil, apperrors.ErrUserInactive
		}
		return s.recordLogin(ctx, user)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by provider", slog.String("provider", string(provider)))
		return nil, err
	}

	if emailVerified && email != "" {
		existing, err := s.userRepo.FindUserByEmail(ctx, email)
		switch {
		case err == nil:
			if !existing.Active {
				return nil, apperrors.ErrUserInactive
			}
			existing.ProviderUserID = &providerUserID
			existing.AuthProvider = provider
			s.LogInfo(ctx, "Linked external identity to user", slog.String("user_id", existing.UserID))
			return s.recordLogin(ctx, existing)
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to look up user by email")
			return nil, err
		}
	}

	now := s.Now()
	user = &domain.User{
		UserID:         uuid.NewString(),
		Username:       email,
		Email:          email,
		DisplayName:    name,
		Role:           domain.RoleEmployee,
		Active:         true,
		AuthProvider:   provider,
		ProviderUserID: &providerUserID,
		LastLoginAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemUserID,
		},
	}
	if user.Username == "" {
		user.Username = string(provider) + ":" + providerUserID
	}
	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to save OAuth user")
		return nil, err
	}
	s.LogInfo(ctx, "User created from external identity", slog.String("user_id", user.UserID))
	return user, nil
}

func (s *userService) recordLogin(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := s.Now()
	user.LastLoginAt = &now
	return s.save(ctx, user, user.UserID)
}

func (s *userService) save(ctx context.Context, user *domain.User, by string) (*domain.User, error) {
	user.LastUpdatedAt = s.Now()
	user.LastUpdatedBy = by
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", user.UserID))
		return nil, err
	}
	return user, nil
}

func (s *userService) requireSuperAdmin(ctx context.Context, userID string) error {
	requester, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}
	if !requester.IsSuperAdmin() || !requester.Active {
		return apperrors.ErrForbidden
	}
	return nil
}
