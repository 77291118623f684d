package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/repository/mongodb"
	"github.com/hxtubes/hxreport/internal/service/reporting"
	"github.com/hxtubes/hxreport/pkg/clients/whatsapp"
)

// ReportBuilder produces the daily report for a date.
type ReportBuilder interface {
	Yesterday() models.Date
	DailyReport(ctx context.Context, ref models.Date, f models.Filter) (models.DailyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reports   ReportBuilder
	archive   mongodb.Repository
	messenger whatsapp.Client
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and messenger are
// optional; a nil value skips that step of the daily job.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reports ReportBuilder, archive mongodb.Repository, messenger whatsapp.Client, recipient string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:      c,
		schedule:  cfg.CronSchedule,
		reports:   reports,
		archive:   archive,
		messenger: messenger,
		recipient: recipient,
		logger:    logger,
	}
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDaily); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunDaily(ctx); err != nil {
		s.logger.Error("daily report job failed", zap.Error(err))
	}
}

// RunDaily builds yesterday's report, archives it and delivers the text summary.
// Archive and delivery failures do not stop each other; both are returned.
func (s *Scheduler) RunDaily(ctx context.Context) error {
	day := s.reports.Yesterday()
	s.logger.Info("generating daily report", zap.String("date", day.String()))

	report, err := s.reports.DailyReport(ctx, day, models.Filter{})
	if err != nil {
		return fmt.Errorf("build daily report %s: %w", day, err)
	}

	var errs []error

	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("archive daily report: %w", err))
		} else {
			s.logger.Info("daily report archived", zap.String("date", day.String()))
		}
	}

	if s.messenger != nil && s.recipient != "" {
		if err := whatsapp.SendLongText(ctx, s.messenger, s.recipient, reporting.FormatSummary(report)); err != nil {
			errs = append(errs, fmt.Errorf("deliver daily summary: %w", err))
		} else {
			s.logger.Info("daily summary sent", zap.String("date", day.String()))
		}
	}

	return errors.Join(errs...)
}
