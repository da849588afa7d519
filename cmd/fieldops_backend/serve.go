package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/services"
	"github.com/SscSPs/fieldops_backend/internal/handlers"
	"github.com/SscSPs/fieldops_backend/internal/jobs"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/SscSPs/fieldops_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger := a.cfg, a.logger

	if cfg.StoreDriver == config.StoreDriverPostgres {
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer analytics.Close()

	container := services.NewServiceContainer(cfg, st.repos, st.blobs, analytics)

	if cfg.AdminUsername != "" {
		admin, created, err := container.User.EnsureSuperAdmin(middleware.WithLogger(ctx, logger), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap super admin: %w", err)
		}
		if created {
			logger.Info("Super admin created", slog.String("user_id", admin.UserID), slog.String("username", admin.Username))
		}
	} else {
		logger.Warn("ADMIN_USERNAME not set, no super admin is bootstrapped")
	}

	sweeper := jobs.NewOverdueSweeper(container.Invoice, cfg.OverdueSweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, analytics); err != nil {
		return err
	}
	if st.memBlobs != nil {
		handlers.ServeMemoryBlobs(r, memoryMediaPrefix, st.memBlobs)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	sweeper.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
