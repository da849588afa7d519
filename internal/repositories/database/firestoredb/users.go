package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

func decodeUser(snap *firestore.DocumentSnapshot) (domain.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	return d.toDomain(snap.Ref.ID), nil
}

// findOne returns the first user matched by q.
func (r *Repository) findOne(ctx context.Context, what string, q firestore.Query) (*domain.User, error) {
	users, err := collect(q.Limit(1).Documents(ctx), decodeUser)
	if err != nil {
		return nil, storeError(err, "user "+what)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", what, apperrors.ErrNotFound)
	}
	return &users[0], nil
}

func (r *Repository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	snap, err := r.users().Doc(userID).Get(ctx)
	if err != nil {
		return nil, storeError(err, "user "+userID)
	}
	user, err := decodeUser(snap)
	if err != nil {
		return nil, storeError(err, "user "+userID)
	}
	return &user, nil
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, username, r.users().Where("username", "==", username))
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if lower(email) == "" {
		return nil, fmt.Errorf("user with empty email: %w", apperrors.ErrNotFound)
	}
	return r.findOne(ctx, email, r.users().Where("emailLower", "==", lower(email)).OrderBy("createdAt", firestore.Asc))
}

func (r *Repository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	q := r.users().
		Where("authProvider", "==", string(provider)).
		Where("providerUserId", "==", providerUserID)
	return r.findOne(ctx, string(provider)+"/"+providerUserID, q)
}

func (r *Repository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	q := r.users().
		OrderBy("createdAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc).
		Offset(offset).
		Limit(limit)
	users, err := collect(q.Documents(ctx), decodeUser)
	if err != nil {
		return nil, storeError(err, "users")
	}
	return users, nil
}

// SaveUser creates the user document. Username uniqueness is checked in the
// same transaction since Firestore has no unique indexes.
func (r *Repository) SaveUser(ctx context.Context, user domain.User) error {
	ref := r.users().Doc(user.UserID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.users().Where("username", "==", user.Username).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("username %s: %w", user.Username, apperrors.ErrDuplicate)
		}
		return tx.Create(ref, toUserDoc(user))
	})
	return storeError(err, "user "+user.UserID)
}

func (r *Repository) UpdateUser(ctx context.Context, user domain.User) error {
	ref := r.users().Doc(user.UserID)
	d := toUserDoc(user)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var stored userDoc
		if err := snap.DataTo(&stored); err != nil {
			return err
		}
		d.CreatedAt = stored.CreatedAt
		d.CreatedBy = stored.CreatedBy
		return tx.Set(ref, d)
	})
	return storeError(err, "user "+user.UserID)
}
