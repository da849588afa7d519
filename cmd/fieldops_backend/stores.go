package main

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/internal/repositories/database/firestoredb"
	"github.com/SscSPs/fieldops_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/fieldops_backend/internal/repositories/memory"
	"github.com/SscSPs/fieldops_backend/pkg/database"
)

// memoryMediaPrefix is where uploads are served when no storage bucket is configured.
const memoryMediaPrefix = "/media"

// stores is the persistence selected by STORE_DRIVER.
type stores struct {
	repos portsrepo.RepositoryProvider
	blobs portsrepo.BlobStore
	// memBlobs is set when uploads live in process memory and must be served by the API.
	memBlobs *memory.BlobStore
	closers  []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	s := &stores{}

	var firebaseClients *database.FirebaseClients
	openFirebase := func() error {
		if firebaseClients != nil {
			return nil
		}
		clients, err := database.NewFirebaseClients(ctx, database.FirebaseConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			StorageBucket:   cfg.FirebaseStorageBucket,
		})
		if err != nil {
			return err
		}
		firebaseClients = clients
		s.closers = append(s.closers, clients.Close)
		return nil
	}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		s.closers = append(s.closers, func() { database.ClosePgxPool(dbPool) })
		s.repos = pgsql.NewRepositoryProvider(dbPool)
	case config.StoreDriverFirestore:
		if err := openFirebase(); err != nil {
			return nil, err
		}
		s.repos = firestoredb.NewRepositoryProvider(firebaseClients.Firestore)
	case config.StoreDriverMemory:
		s.repos = memory.NewRepositoryProvider()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.FirebaseStorageBucket != "" && cfg.FirebaseProjectID != "" {
		if err := openFirebase(); err != nil {
			s.Close()
			return nil, err
		}
		s.blobs = firestoredb.NewBucketStore(firebaseClients.Bucket, cfg.FirebaseStorageBucket)
		logger.Info("Uploads go to Firebase Storage", slog.String("bucket", cfg.FirebaseStorageBucket))
	} else {
		s.memBlobs = memory.NewBlobStore(cfg.PublicBaseURL + memoryMediaPrefix)
		s.blobs = s.memBlobs
		logger.Warn("FIREBASE_STORAGE_BUCKET not set, uploads are kept in memory")
	}

	logger.Info("Stores ready", slog.String("driver", cfg.StoreDriver))
	return s, nil
}
