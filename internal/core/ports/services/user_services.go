package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new local user.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// UpdateUser updates profile fields of a user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// UpdateUserRole changes a user's role.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role, requestingUserID string) (*domain.User, error)

	// SetUserActive enables or disables sign in for a user.
	SetUserActive(ctx context.Context, userID string, active bool, requestingUserID string) (*domain.User, error)

	// EnsureSuperAdmin creates a local super_admin with the given credentials
	// unless a user with that username already exists.
	EnsureSuperAdmin(ctx context.Context, username, password string) (*domain.User, bool, error)

	// SetPhotoURL stores the profile photo location.
	SetPhotoURL(ctx context.Context, userID string, url string) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser checks local credentials of an active user.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// CreateOAuthUser finds or creates the user behind an external identity.
	CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
