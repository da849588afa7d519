package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewPersistenceError("failed to rollback transaction", err)
	}
	return nil
}

// writeError maps unique violations to ErrDuplicate and wraps everything else.
func writeError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", what, apperrors.ErrDuplicate)
	}
	return apperrors.NewPersistenceError("failed to write "+what, err)
}

// readError maps pgx.ErrNoRows to ErrNotFound and wraps everything else.
func readError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return apperrors.NewPersistenceError("failed to read "+what, err)
}

// listQuery accumulates WHERE conditions and positional arguments.
type listQuery struct {
	conds []string
	args  []any
}

func (q *listQuery) where(cond string, args ...any) {
	for _, a := range args {
		q.args = append(q.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(q.args)), 1)
	}
	q.conds = append(q.conds, cond)
}

// page adds the keyset cursor, newest-first ordering and limit.
func (q *listQuery) page(createdCol, idCol string, params domain.ListParams) string {
	params = params.Normalize()
	if params.AfterCreatedAt != nil {
		q.where(fmt.Sprintf("(%s, %s) < (?, ?)", createdCol, idCol), *params.AfterCreatedAt, params.AfterID)
	}
	sql := q.whereClause()
	q.args = append(q.args, params.Limit)
	return fmt.Sprintf("%s ORDER BY %s DESC, %s DESC LIMIT $%d", sql, createdCol, idCol, len(q.args))
}

func (q *listQuery) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}
