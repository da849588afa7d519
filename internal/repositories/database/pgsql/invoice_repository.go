package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_backend/internal/models"
	"github.com/SscSPs/fieldops_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// invoiceSequenceName is the invoice_sequences row that numbers invoices.
const invoiceSequenceName = "invoice"

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, invoice_number, invoice_seq, work_code, work_order_id, client_id,
	client_name, client_company, client_email, client_phone,
	client_street, client_city, client_state, client_zip_code, client_country,
	service_type, amount, materials, payment_terms, status, invoice_date, due_date,
	hours_worked, rate_per_hour, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxInvoiceRepository) getInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, `SELECT`+invoiceColumns+` FROM invoices`+query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query invoices", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to collect invoice rows", err)
	}
	return mapping.ToDomainInvoiceSlice(ms), nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoices, err := r.getInvoices(ctx, ` WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	return &invoices[0], nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error) {
	q := &listQuery{}
	if filter.Status != nil {
		q.where("status = ?", string(*filter.Status))
	}
	return r.getInvoices(ctx, q.page("created_at", "invoice_id", params), q.args...)
}

func (r *PgxInvoiceRepository) CountInvoices(ctx context.Context, filter domain.InvoiceFilter) (int, error) {
	q := &listQuery{}
	if filter.Status != nil {
		q.where("status = ?", string(*filter.Status))
	}
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+q.whereClause(), q.args...).Scan(&n); err != nil {
		return 0, apperrors.NewPersistenceError("failed to count invoices", err)
	}
	return n, nil
}

func (r *PgxInvoiceRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	return r.getInvoices(ctx, ` WHERE status = $1 AND due_date < $2 ORDER BY due_date`, string(domain.InvoicePending), cutoff)
}

func (r *PgxInvoiceRepository) ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error) {
	query := `
		SELECT change_id, invoice_id, previous_status, new_status, previous_amount, new_amount, reason, changed_by, changed_at
		FROM invoice_changes
		WHERE invoice_id = $1
		ORDER BY changed_at, change_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query invoice changes", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.InvoiceChange])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to collect invoice change rows", err)
	}
	changes := make([]domain.InvoiceChange, len(ms))
	for i, m := range ms {
		changes[i] = mapping.ToDomainInvoiceChange(m)
	}
	return changes, nil
}

// IssueInvoice runs in one transaction: lock the open order, lock the
// sequence row, insert the numbered invoice, advance the sequence and close
// the order. The sequence row lock serializes concurrent issuers.
func (r *PgxInvoiceRepository) IssueInvoice(ctx context.Context, invoice domain.Invoice, closedOrder domain.WorkOrder) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := lockOpenWorkOrderTx(ctx, tx, closedOrder.WorkOrderID); err != nil {
		return nil, err
	}

	var last *int
	err = tx.QueryRow(ctx, `SELECT last_number FROM invoice_sequences WHERE name = $1 FOR UPDATE`, invoiceSequenceName).Scan(&last)
	if err != nil {
		return nil, readError(err, "invoice sequence")
	}
	next := domain.NextInvoiceNumber(last)
	invoice.InvoiceNumber = domain.FormatInvoiceNumber(next)

	if err := insertInvoiceTx(ctx, tx, mapping.ToModelInvoice(invoice, next)); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE invoice_sequences SET last_number = $1 WHERE name = $2`, next, invoiceSequenceName); err != nil {
		return nil, writeError(err, "invoice sequence")
	}
	if err := closeWorkOrderTx(ctx, tx, closedOrder); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func insertInvoiceTx(ctx context.Context, tx pgx.Tx, m models.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29);`
	_, err := tx.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.InvoiceSeq, m.WorkCode, m.WorkOrderID, m.ClientID,
		m.ClientName, m.ClientCompany, m.ClientEmail, m.ClientPhone,
		m.ClientStreet, m.ClientCity, m.ClientState, m.ClientZipCode, m.ClientCountry,
		m.ServiceType, m.Amount, m.Materials, m.PaymentTerms, m.Status, m.InvoiceDate, m.DueDate,
		m.HoursWorked, m.RatePerHour, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "invoice "+m.InvoiceNumber)
	}
	return nil
}

// UpdateInvoice stores the accounting edit and its change record together.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, change domain.InvoiceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE invoices
		SET status = $1, amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $5 AND status = $6 AND amount = $7;`,
		string(invoice.Status), invoice.Amount, invoice.LastUpdatedAt, invoice.LastUpdatedBy, invoice.InvoiceID,
		string(change.PreviousStatus), change.PreviousAmount,
	)
	if err != nil {
		return writeError(err, "invoice "+invoice.InvoiceID)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1);`, invoice.InvoiceID).Scan(&exists); err != nil {
			return writeError(err, "invoice "+invoice.InvoiceID)
		}
		if !exists {
			return fmt.Errorf("invoice %s: %w", invoice.InvoiceID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("%w: invoice %s changed since it was read", apperrors.ErrConflict, invoice.InvoiceID)
	}

	m := mapping.ToModelInvoiceChange(change)
	_, err = tx.Exec(ctx, `
		INSERT INTO invoice_changes (change_id, invoice_id, previous_status, new_status, previous_amount, new_amount, reason, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.ChangeID, m.InvoiceID, m.PreviousStatus, m.NewStatus, m.PreviousAmount, m.NewAmount, m.Reason, m.ChangedBy, m.ChangedAt,
	)
	if err != nil {
		return writeError(err, "invoice change "+change.ChangeID)
	}

	return r.Commit(ctx, tx)
}
