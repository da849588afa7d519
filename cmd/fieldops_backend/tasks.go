package main

import (
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/core/services"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/pkg/database"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	warnLabel = color.New(color.FgYellow).SprintFunc()
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.StoreDriver != config.StoreDriverPostgres {
				fmt.Printf("%s store driver is %q, nothing to migrate\n", warnLabel("SKIP"), a.cfg.StoreDriver)
				return nil
			}
			applied, err := database.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger)
			if err != nil {
				return err
			}
			if applied {
				fmt.Printf("%s migrations applied\n", okLabel("OK"))
			} else {
				fmt.Printf("%s schema already up to date\n", okLabel("OK"))
			}
			return nil
		},
	}
}

func newSweepOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark pending invoices past their due date as overdue, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := middleware.WithLogger(cmd.Context(), a.logger)
			st, err := openStores(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			invoices := services.NewInvoiceService(st.repos.InvoiceRepo, st.repos.ClientRepo)
			marked, err := invoices.MarkOverdue(ctx, time.Now().UTC())
			if err != nil {
				fmt.Printf("%s %d invoice(s) marked overdue before errors\n", warnLabel("PARTIAL"), marked)
				return err
			}
			fmt.Printf("%s %d invoice(s) marked overdue\n", okLabel("OK"), marked)
			return nil
		},
	}
}

func newExportInvoicesCmd(a *app) *cobra.Command {
	var (
		out    string
		status string
	)
	cmd := &cobra.Command{
		Use:   "export-invoices",
		Short: "Write invoices to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.InvoiceFilter
			if status != "" {
				s := domain.InvoiceStatus(status)
				if !s.IsValid() {
					return fmt.Errorf("unknown invoice status %q", status)
				}
				filter.Status = &s
			}

			ctx := middleware.WithLogger(cmd.Context(), a.logger)
			st, err := openStores(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			invoices := services.NewInvoiceService(st.repos.InvoiceRepo, st.repos.ClientRepo)
			rows, err := invoices.ExportInvoices(ctx, filter, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s %d invoice(s) written to %s\n", okLabel("OK"), rows, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "invoices.xlsx", "output file")
	cmd.Flags().StringVar(&status, "status", "", "only export invoices with this status (pending, paid, overdue)")
	return cmd
}
