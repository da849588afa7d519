// Package firestoredb stores records in Cloud Firestore. It backs
// STORE_DRIVER=firestore.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	workOrdersCollection = "workOrders"
	clientsCollection    = "clients"
	invoicesCollection   = "invoices"
	changesCollection    = "changes"
	usersCollection      = "users"
	countersCollection   = "counters"

	invoiceCounterDoc = "invoice"
)

// Repository implements every repository port on one Firestore client.
type Repository struct {
	client *firestore.Client
}

// NewRepository wraps client.
func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

// NewRepositoryProvider exposes a Firestore repository through the repository interfaces.
func NewRepositoryProvider(client *firestore.Client) portsrepo.RepositoryProvider {
	r := NewRepository(client)
	return portsrepo.RepositoryProvider{
		WorkOrderRepo: r,
		ClientRepo:    r,
		InvoiceRepo:   r,
		UserRepo:      r,
	}
}

var (
	_ portsrepo.WorkOrderRepositoryFacade = (*Repository)(nil)
	_ portsrepo.ClientRepositoryFacade    = (*Repository)(nil)
	_ portsrepo.InvoiceRepositoryFacade   = (*Repository)(nil)
	_ portsrepo.UserRepositoryFacade      = (*Repository)(nil)
)

func (r *Repository) workOrders() *firestore.CollectionRef {
	return r.client.Collection(workOrdersCollection)
}

func (r *Repository) clients() *firestore.CollectionRef {
	return r.client.Collection(clientsCollection)
}

func (r *Repository) invoices() *firestore.CollectionRef {
	return r.client.Collection(invoicesCollection)
}

func (r *Repository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

// storeError maps Firestore status codes onto application errors.
func storeError(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) || isDomainError(err) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", what, apperrors.ErrDuplicate)
	}
	return apperrors.NewPersistenceError("firestore operation failed for "+what, err)
}

// isDomainError reports errors raised inside transaction callbacks that must
// reach the caller unchanged.
func isDomainError(err error) bool {
	for _, target := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrOrderClosed,
		apperrors.ErrConflict,
		apperrors.ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// page applies newest-first ordering and the (createdAt, id) cursor to q.
func page(q firestore.Query, params domain.ListParams) firestore.Query {
	params = params.Normalize()
	q = q.OrderBy("createdAt", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
	if params.AfterCreatedAt != nil {
		q = q.StartAfter(*params.AfterCreatedAt, params.AfterID)
	}
	return q.Limit(params.Limit)
}

// collect drains it, decoding each snapshot with decode.
func collect[T any](it *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer it.Stop()
	var out []T
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		item, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
}

// count runs a count aggregation over q.
func count(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	switch v := res["all"].(type) {
	case int64:
		return int(v), nil
	case interface{ GetIntegerValue() int64 }:
		return int(v.GetIntegerValue()), nil
	}
	return 0, fmt.Errorf("unexpected count result %T", res["all"])
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
