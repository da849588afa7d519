package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/spf13/cobra"
)

// @title FieldOps Backend API
// @version 1.0
// @description Work orders, billing and invoicing for field service crews.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fieldops",
		Short: "FieldOps backend: work orders, billing and invoices",
		Long: `fieldops runs the field-service backend.

Without a subcommand it starts the HTTP API. Configuration is read from the
environment and an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize structured logger
			a.logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
			slog.SetDefault(a.logger)

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSweepOverdueCmd(a),
		newExportInvoicesCmd(a),
	)
	return rootCmd
}
