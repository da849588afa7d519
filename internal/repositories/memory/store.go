// Package memory keeps all records in process memory. It backs tests and
// STORE_DRIVER=memory.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
)

// Store holds every collection behind one lock, so multi-record writes such
// as invoice issuing are atomic.
type Store struct {
	mu             sync.RWMutex
	workOrders     map[string]domain.WorkOrder
	clients        map[string]domain.Client
	invoices       map[string]domain.Invoice
	invoiceChanges map[string][]domain.InvoiceChange
	users          map[string]domain.User
	lastInvoiceNum *int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		workOrders:     make(map[string]domain.WorkOrder),
		clients:        make(map[string]domain.Client),
		invoices:       make(map[string]domain.Invoice),
		invoiceChanges: make(map[string][]domain.InvoiceChange),
		users:          make(map[string]domain.User),
	}
}

// NewRepositoryProvider returns a provider whose repositories share one new store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewStore().Provider()
}

// Provider exposes the store through the repository interfaces.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WorkOrderRepo: s,
		ClientRepo:    s,
		InvoiceRepo:   s,
		UserRepo:      s,
	}
}

var (
	_ portsrepo.WorkOrderRepositoryFacade = (*Store)(nil)
	_ portsrepo.ClientRepositoryFacade    = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade   = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade      = (*Store)(nil)
)

// page sorts items newest first, skips past the cursor and cuts the page.
func page[T any](items []T, params domain.ListParams, key func(T) (time.Time, string)) []T {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})

	params = params.Normalize()
	out := make([]T, 0, params.Limit)
	for _, item := range items {
		if params.AfterCreatedAt != nil {
			t, id := key(item)
			if t.After(*params.AfterCreatedAt) || (t.Equal(*params.AfterCreatedAt) && id >= params.AfterID) {
				continue
			}
		}
		out = append(out, item)
		if len(out) == params.Limit {
			break
		}
	}
	return out
}
