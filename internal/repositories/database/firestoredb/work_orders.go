package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func decodeWorkOrder(snap *firestore.DocumentSnapshot) (domain.WorkOrder, error) {
	var d workOrderDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("decode work order %s: %w", snap.Ref.ID, err)
	}
	return d.toDomain(snap.Ref.ID)
}

func (r *Repository) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	what := "work order " + workOrderID
	snap, err := r.workOrders().Doc(workOrderID).Get(ctx)
	if err != nil {
		return nil, storeError(err, what)
	}
	order, err := decodeWorkOrder(snap)
	if err != nil {
		return nil, storeError(err, what)
	}
	return &order, nil
}

func workOrderQuery(coll *firestore.CollectionRef, filter domain.WorkOrderFilter) firestore.Query {
	q := coll.Query
	if filter.Status != nil {
		q = q.Where("status", "==", string(*filter.Status))
	}
	return q
}

func (r *Repository) ListWorkOrders(ctx context.Context, filter domain.WorkOrderFilter, params domain.ListParams) ([]domain.WorkOrder, error) {
	q := page(workOrderQuery(r.workOrders(), filter), params)
	orders, err := collect(q.Documents(ctx), decodeWorkOrder)
	if err != nil {
		return nil, storeError(err, "work orders")
	}
	return orders, nil
}

func (r *Repository) CountWorkOrders(ctx context.Context, filter domain.WorkOrderFilter) (int, error) {
	n, err := count(ctx, workOrderQuery(r.workOrders(), filter))
	if err != nil {
		return 0, storeError(err, "work orders")
	}
	return n, nil
}

func (r *Repository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	what := "work order " + order.WorkOrderID
	d, err := toWorkOrderDoc(order)
	if err != nil {
		return storeError(err, what)
	}
	_, err = r.workOrders().Doc(order.WorkOrderID).Create(ctx, d)
	return storeError(err, what)
}

// UpdateWorkOrder rewrites the step fields inside a transaction that first
// checks the stored order is still open.
func (r *Repository) UpdateWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	what := "work order " + order.WorkOrderID
	d, err := toWorkOrderDoc(order)
	if err != nil {
		return storeError(err, what)
	}
	ref := r.workOrders().Doc(order.WorkOrderID)
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requireOpen(tx, ref); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "currentStep", Value: d.CurrentStep},
			{Path: "jsaData", Value: d.JSAData},
			{Path: "preTripData", Value: d.PreTripData},
			{Path: "journeyData", Value: d.JourneyData},
			{Path: "billingData", Value: d.BillingData},
			{Path: "updatedAt", Value: d.LastUpdatedAt},
			{Path: "updatedBy", Value: d.LastUpdatedBy},
		})
	})
	return storeError(err, what)
}

// requireOpen reads the work order inside tx and rejects closed ones.
func requireOpen(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
	snap, err := tx.Get(ref)
	if err != nil {
		return storeError(err, "work order "+ref.ID)
	}
	st, err := snap.DataAt("status")
	if err != nil {
		return err
	}
	if st == string(domain.WorkOrderClosed) {
		return fmt.Errorf("work order %s: %w", ref.ID, apperrors.ErrOrderClosed)
	}
	return nil
}
