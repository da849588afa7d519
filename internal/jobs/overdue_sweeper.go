// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/robfig/cron/v3"
)

// OverdueMarker flags pending invoices past their due date.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueSweeper marks overdue invoices on a cron schedule.
type OverdueSweeper struct {
	cronScheduler *cron.Cron
	marker        OverdueMarker
	schedule      string
	logger        *slog.Logger
	now           func() time.Time
	jobID         cron.EntryID
}

// NewOverdueSweeper creates a sweeper running on schedule, a standard
// five-field cron expression evaluated in UTC.
func NewOverdueSweeper(marker OverdueMarker, schedule string, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{
		cronScheduler: cron.New(cron.WithLocation(time.UTC)),
		marker:        marker,
		schedule:      schedule,
		logger:        logger.With(slog.String("job", "overdue_sweeper")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the sweep and starts the scheduler.
func (s *OverdueSweeper) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("error scheduling overdue sweep %q: %w", s.schedule, err)
	}
	s.cronScheduler.Start()
	s.logger.Info("Overdue sweeper started", slog.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish or ctx to end.
func (s *OverdueSweeper) Stop(ctx context.Context) {
	done := s.cronScheduler.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Overdue sweeper stopped")
	case <-ctx.Done():
		s.logger.Warn("Overdue sweeper stop timed out")
	}
}

// RunOnce performs one sweep and returns the number of invoices marked.
func (s *OverdueSweeper) RunOnce(ctx context.Context) int {
	ctx = middleware.WithLogger(ctx, s.logger)
	marked, err := s.marker.MarkOverdue(ctx, s.now())
	if err != nil {
		s.logger.Error("Overdue sweep finished with errors", slog.Int("marked", marked), slog.String("error", err.Error()))
		return marked
	}
	s.logger.Info("Overdue sweep finished", slog.Int("marked", marked))
	return marked
}
