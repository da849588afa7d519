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

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) *PgxClientRepository {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientSelect = `
SELECT
	client_id, name, company, email, phone,
	street, city, state, zip_code, country,
	tax_id, payment_terms, notes,
	created_at, created_by, last_updated_at, last_updated_by
FROM clients`

func (r *PgxClientRepository) getClients(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.Pool.Query(ctx, clientSelect+query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query clients", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to collect client rows", err)
	}
	return mapping.ToDomainClientSlice(ms), nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	clients, err := r.getClients(ctx, ` WHERE client_id = $1`, clientID)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	return &clients[0], nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error) {
	q := &listQuery{}
	return r.getClients(ctx, q.page("created_at", "client_id", params), q.args...)
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (
			client_id, name, company, email, phone,
			street, city, state, zip_code, country,
			tax_id, payment_terms, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ClientID, m.Name, m.Company, m.Email, m.Phone,
		m.Street, m.City, m.State, m.ZipCode, m.Country,
		m.TaxID, m.PaymentTerms, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "client "+client.ClientID)
	}
	return nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET name = $1, company = $2, email = $3, phone = $4,
			street = $5, city = $6, state = $7, zip_code = $8, country = $9,
			tax_id = $10, payment_terms = $11, notes = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE client_id = $15;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Company, m.Email, m.Phone,
		m.Street, m.City, m.State, m.ZipCode, m.Country,
		m.TaxID, m.PaymentTerms, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy, m.ClientID,
	)
	if err != nil {
		return writeError(err, "client "+client.ClientID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", client.ClientID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1`, clientID)
	if err != nil {
		return apperrors.NewPersistenceError("failed to delete client "+clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	return nil
}
