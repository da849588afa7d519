package database

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseConfig selects the Firebase project and its resources.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	StorageBucket   string
}

// FirebaseClients holds the Firebase service clients the backend uses.
type FirebaseClients struct {
	Firestore *firestore.Client
	Bucket    *storage.BucketHandle
}

// NewFirebaseClients initializes the Firebase app and opens Firestore and,
// when a bucket is configured, Cloud Storage. With no credentials file the
// application default credentials are used.
func NewFirebaseClients(ctx context.Context, cfg FirebaseConfig) (*FirebaseClients, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	clients := &FirebaseClients{Firestore: fs}

	if cfg.StorageBucket != "" {
		st, err := app.Storage(ctx)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("error getting Storage client: %w", err)
		}
		bucket, err := st.DefaultBucket()
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("error opening storage bucket %s: %w", cfg.StorageBucket, err)
		}
		clients.Bucket = bucket
	}

	slog.Info("Firebase initialized.", slog.String("project_id", cfg.ProjectID), slog.Bool("storage", clients.Bucket != nil))
	return clients, nil
}

// Close releases the Firestore connection.
func (c *FirebaseClients) Close() {
	if c == nil || c.Firestore == nil {
		return
	}
	if err := c.Firestore.Close(); err != nil {
		slog.Error("Error closing Firestore client", slog.String("error", err.Error()))
		return
	}
	slog.Info("Firestore client closed.")
}
