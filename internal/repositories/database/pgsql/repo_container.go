package pgsql

import (
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WorkOrderRepo: newPgxWorkOrderRepository(dbPool),
		ClientRepo:    newPgxClientRepository(dbPool),
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
	}
}
