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

type PgxWorkOrderRepository struct {
	BaseRepository
}

func newPgxWorkOrderRepository(pool *pgxpool.Pool) *PgxWorkOrderRepository {
	return &PgxWorkOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkOrderRepositoryFacade = (*PgxWorkOrderRepository)(nil)

const workOrderSelect = `
SELECT
	work_order_id, work_code, status, current_step,
	jsa_data, pre_trip_data, journey_data, billing_data,
	completed_at, invoice_id,
	created_at, created_by, last_updated_at, last_updated_by
FROM work_orders`

func (r *PgxWorkOrderRepository) getWorkOrders(ctx context.Context, query string, args ...any) ([]domain.WorkOrder, error) {
	rows, err := r.Pool.Query(ctx, workOrderSelect+query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query work orders", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WorkOrder])
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to collect work order rows", err)
	}
	return mapping.ToDomainWorkOrderSlice(ms)
}

func (r *PgxWorkOrderRepository) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	orders, err := r.getWorkOrders(ctx, ` WHERE work_order_id = $1`, workOrderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("work order %s: %w", workOrderID, apperrors.ErrNotFound)
	}
	return &orders[0], nil
}

func (r *PgxWorkOrderRepository) ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error) {
	q := &listQuery{}
	if filter.Status != nil {
		q.where("status = ?", string(*filter.Status))
	}
	return r.getWorkOrders(ctx, q.page("created_at", "work_order_id", params), q.args...)
}

func (r *PgxWorkOrderRepository) CountWorkOrders(ctx context.Context, filter domain.WorkOrderFilter) (int, error) {
	q := &listQuery{}
	if filter.Status != nil {
		q.where("status = ?", string(*filter.Status))
	}
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM work_orders`+q.whereClause(), q.args...).Scan(&n); err != nil {
		return 0, apperrors.NewPersistenceError("failed to count work orders", err)
	}
	return n, nil
}

func (r *PgxWorkOrderRepository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	m, err := mapping.ToModelWorkOrder(order)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO work_orders (
			work_order_id, work_code, status, current_step,
			jsa_data, pre_trip_data, journey_data, billing_data,
			completed_at, invoice_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.WorkOrderID, m.WorkCode, m.Status, m.CurrentStep,
		m.JSAData, m.PreTripData, m.JourneyData, m.BillingData,
		m.CompletedAt, m.InvoiceID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "work order "+order.WorkOrderID)
	}
	return nil
}

// UpdateWorkOrder writes step data only while the row is still open, so a
// step submission cannot overwrite an order that was completed meanwhile.
func (r *PgxWorkOrderRepository) UpdateWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	m, err := mapping.ToModelWorkOrder(order)
	if err != nil {
		return err
	}
	query := `
		UPDATE work_orders
		SET current_step = $1, jsa_data = $2, pre_trip_data = $3, journey_data = $4, billing_data = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE work_order_id = $8 AND status = 'open';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CurrentStep, m.JSAData, m.PreTripData, m.JourneyData, m.BillingData,
		m.LastUpdatedAt, m.LastUpdatedBy, m.WorkOrderID,
	)
	if err != nil {
		return writeError(err, "work order "+order.WorkOrderID)
	}
	if cmdTag.RowsAffected() == 0 {
		var status string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM work_orders WHERE work_order_id = $1`, order.WorkOrderID).Scan(&status)
		if err != nil {
			return readError(err, "work order "+order.WorkOrderID)
		}
		return fmt.Errorf("work order %s: %w", order.WorkOrderID, apperrors.ErrOrderClosed)
	}
	return nil
}

// closeWorkOrderTx stores the closed order inside the invoice issuing transaction.
func closeWorkOrderTx(ctx context.Context, tx pgx.Tx, order domain.WorkOrder) error {
	m, err := mapping.ToModelWorkOrder(order)
	if err != nil {
		return err
	}
	query := `
		UPDATE work_orders
		SET status = $1, current_step = $2, billing_data = $3, completed_at = $4, invoice_id = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE work_order_id = $8 AND status = 'open';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.Status, m.CurrentStep, m.BillingData, m.CompletedAt, m.InvoiceID,
		m.LastUpdatedAt, m.LastUpdatedBy, m.WorkOrderID,
	)
	if err != nil {
		return writeError(err, "work order "+order.WorkOrderID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("work order %s: %w", order.WorkOrderID, apperrors.ErrOrderClosed)
	}
	return nil
}

// lockOpenWorkOrderTx locks the order row and checks that it is still open.
func lockOpenWorkOrderTx(ctx context.Context, tx pgx.Tx, workOrderID string) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM work_orders WHERE work_order_id = $1 FOR UPDATE`, workOrderID).Scan(&status)
	if err != nil {
		return readError(err, "work order "+workOrderID)
	}
	if domain.WorkOrderStatus(status) != domain.WorkOrderOpen {
		return fmt.Errorf("work order %s: %w", workOrderID, apperrors.ErrOrderClosed)
	}
	return nil
}

