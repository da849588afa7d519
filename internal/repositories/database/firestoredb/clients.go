package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func decodeClient(snap *firestore.DocumentSnapshot) (domain.Client, error) {
	var d clientDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Client{}, fmt.Errorf("decode client %s: %w", snap.Ref.ID, err)
	}
	return d.toDomain(snap.Ref.ID), nil
}

func (r *Repository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	what := "client " + clientID
	snap, err := r.clients().Doc(clientID).Get(ctx)
	if err != nil {
		return nil, storeError(err, what)
	}
	client, err := decodeClient(snap)
	if err != nil {
		return nil, storeError(err, what)
	}
	return &client, nil
}

func (r *Repository) ListClients(ctx context.Context, params domain.ListParams) ([]domain.Client, error) {
	clients, err := collect(page(r.clients().Query, params).Documents(ctx), decodeClient)
	if err != nil {
		return nil, storeError(err, "clients")
	}
	return clients, nil
}

func (r *Repository) SaveClient(ctx context.Context, client domain.Client) error {
	_, err := r.clients().Doc(client.ClientID).Create(ctx, toClientDoc(client))
	return storeError(err, "client "+client.ClientID)
}

func (r *Repository) UpdateClient(ctx context.Context, client domain.Client) error {
	ref := r.clients().Doc(client.ClientID)
	d := toClientDoc(client)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var stored clientDoc
		if err := snap.DataTo(&stored); err != nil {
			return err
		}
		d.CreatedAt = stored.CreatedAt
		d.CreatedBy = stored.CreatedBy
		return tx.Set(ref, d)
	})
	return storeError(err, "client "+client.ClientID)
}

func (r *Repository) DeleteClient(ctx context.Context, clientID string) error {
	_, err := r.clients().Doc(clientID).Delete(ctx, firestore.Exists)
	return storeError(err, "client "+clientID)
}
