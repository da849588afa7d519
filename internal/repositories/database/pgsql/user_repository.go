package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_backend/internal/models"
	"github.com/SscSPs/fieldops_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userSelect = `
SELECT
	user_id, username, email, display_name, role, is_active,
	department, job_title, phone_number, photo_url,
	password_hash, auth_provider, provider_user_id, last_login_at,
	created_at, created_by, last_updated_at, last_updated_by
FROM users`

// getUsers private func to get users from the select query filters
func (r *PgxUserRepository) getUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, userSelect+query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query users", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to collect user rows", err)
	}
	return mapping.ToDomainUserSlice(ms), nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.User, error) {
	users, err := r.getUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", what, apperrors.ErrNotFound)
	}
	return &users[0], nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, userID, ` WHERE user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, username, ` WHERE username = $1`, username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, email, ` WHERE lower(email) = lower($1) AND email <> '' ORDER BY created_at LIMIT 1`, email)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, string(provider)+":"+providerUserID,
		` WHERE auth_provider = $1 AND provider_user_id = $2`, string(provider), providerUserID)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	// Default limit if not specified or invalid
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	// Ensure offset is non-negative
	if offset < 0 {
		offset = 0
	}
	return r.getUsers(ctx, ` ORDER BY created_at DESC, user_id DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, username, email, display_name, role, is_active,
			department, job_title, phone_number, photo_url,
			password_hash, auth_provider, provider_user_id, last_login_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Username, m.Email, m.DisplayName, m.Role, m.IsActive,
		m.Department, m.JobTitle, m.PhoneNumber, m.PhotoURL,
		m.PasswordHash, m.AuthProvider, m.ProviderUserID, m.LastLoginAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "user "+user.Username)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET email = $1, display_name = $2, role = $3, is_active = $4,
			department = $5, job_title = $6, phone_number = $7, photo_url = $8,
			password_hash = $9, auth_provider = $10, provider_user_id = $11, last_login_at = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE user_id = $15;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Email, m.DisplayName, m.Role, m.IsActive,
		m.Department, m.JobTitle, m.PhoneNumber, m.PhotoURL,
		m.PasswordHash, m.AuthProvider, m.ProviderUserID, m.LastLoginAt,
		m.LastUpdatedAt, m.LastUpdatedBy, m.UserID,
	)
	if err != nil {
		return writeError(err, "user "+user.UserID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}
