package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func decodeInvoice(snap *firestore.DocumentSnapshot) (domain.Invoice, error) {
	var d invoiceDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Invoice{}, fmt.Errorf("decode invoice %s: %w", snap.Ref.ID, err)
	}
	return d.toDomain(snap.Ref.ID)
}

func (r *Repository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	what := "invoice " + invoiceID
	snap, err := r.invoices().Doc(invoiceID).Get(ctx)
	if err != nil {
		return nil, storeError(err, what)
	}
	invoice, err := decodeInvoice(snap)
	if err != nil {
		return nil, storeError(err, what)
	}
	return &invoice, nil
}

func invoiceQuery(coll *firestore.CollectionRef, filter domain.InvoiceFilter) firestore.Query {
	q := coll.Query
	if filter.Status != nil {
		q = q.Where("status", "==", string(*filter.Status))
	}
	return q
}

func (r *Repository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, params domain.ListParams) ([]domain.Invoice, error) {
	q := page(invoiceQuery(r.invoices(), filter), params)
	invoices, err := collect(q.Documents(ctx), decodeInvoice)
	if err != nil {
		return nil, storeError(err, "invoices")
	}
	return invoices, nil
}

func (r *Repository) CountInvoices(ctx context.Context, filter domain.InvoiceFilter) (int, error) {
	n, err := count(ctx, invoiceQuery(r.invoices(), filter))
	if err != nil {
		return 0, storeError(err, "invoices")
	}
	return n, nil
}

func (r *Repository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	q := r.invoices().
		Where("status", "==", string(domain.InvoicePending)).
		Where("dueDate", "<", cutoff).
		OrderBy("dueDate", firestore.Asc)
	invoices, err := collect(q.Documents(ctx), decodeInvoice)
	if err != nil {
		return nil, storeError(err, "pending invoices")
	}
	return invoices, nil
}

func (r *Repository) ListInvoiceChanges(ctx context.Context, invoiceID string) ([]domain.InvoiceChange, error) {
	q := r.invoices().Doc(invoiceID).Collection(changesCollection).OrderBy("changedAt", firestore.Asc)
	changes, err := collect(q.Documents(ctx), func(snap *firestore.DocumentSnapshot) (domain.InvoiceChange, error) {
		var d invoiceChangeDoc
		if err := snap.DataTo(&d); err != nil {
			return domain.InvoiceChange{}, fmt.Errorf("decode invoice change %s: %w", snap.Ref.ID, err)
		}
		return d.toDomain(snap.Ref.ID, invoiceID)
	})
	if err != nil {
		return nil, storeError(err, "changes of invoice "+invoiceID)
	}
	return changes, nil
}

// IssueInvoice runs one transaction that reads the invoice counter and the
// work order, then writes the numbered invoice, the counter and the closed
// order. Concurrent issues conflict on the counter document and are retried.
func (r *Repository) IssueInvoice(ctx context.Context, invoice domain.Invoice, closedOrder domain.WorkOrder) (*domain.Invoice, error) {
	what := "invoice for work order " + closedOrder.WorkOrderID
	orderDoc, err := toWorkOrderDoc(closedOrder)
	if err != nil {
		return nil, storeError(err, what)
	}

	orderRef := r.workOrders().Doc(closedOrder.WorkOrderID)
	counterRef := r.client.Collection(countersCollection).Doc(invoiceCounterDoc)
	invoiceRef := r.invoices().Doc(invoice.InvoiceID)

	var issued domain.Invoice
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requireOpen(tx, orderRef); err != nil {
			return err
		}

		var last *int
		snap, err := tx.Get(counterRef)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var c counterDoc
			if err := snap.DataTo(&c); err != nil {
				return err
			}
			n := int(c.LastNumber)
			last = &n
		}

		next := domain.NextInvoiceNumber(last)
		issued = invoice
		issued.InvoiceNumber = domain.FormatInvoiceNumber(next)

		if err := tx.Create(invoiceRef, toInvoiceDoc(issued, next)); err != nil {
			return err
		}
		if err := tx.Set(counterRef, counterDoc{LastNumber: int64(next)}); err != nil {
			return err
		}
		return tx.Set(orderRef, orderDoc)
	})
	if err != nil {
		return nil, storeError(err, what)
	}
	return &issued, nil
}

func (r *Repository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, change domain.InvoiceChange) error {
	ref := r.invoices().Doc(invoice.InvoiceID)
	changeRef := ref.Collection(changesCollection).Doc(change.ChangeID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := decodeInvoice(snap)
		if err != nil {
			return err
		}
		if current.Status != change.PreviousStatus || !current.Amount.Equal(change.PreviousAmount) {
			return fmt.Errorf("%w: invoice %s changed since it was read", apperrors.ErrConflict, invoice.InvoiceID)
		}
		err = tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(invoice.Status)},
			{Path: "amount", Value: invoice.Amount.String()},
			{Path: "updatedAt", Value: invoice.LastUpdatedAt},
			{Path: "updatedBy", Value: invoice.LastUpdatedBy},
		})
		if err != nil {
			return err
		}
		return tx.Create(changeRef, toInvoiceChangeDoc(change))
	})
	if err != nil {
		return storeError(err, "invoice "+invoice.InvoiceID)
	}
	return nil
}
