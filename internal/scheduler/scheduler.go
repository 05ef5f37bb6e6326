package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/config"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Summarizer builds and exports the daily report.
type Summarizer interface {
	DailySummary(ctx context.Context, date string) (string, error)
	ExportDay(ctx context.Context, date string) (int, error)
}

// Notifier delivers the summary to the manager.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	location  *time.Location
	reporting Summarizer
	notifier  Notifier
	managerID string
	now       func() time.Time
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier may be nil when
// WhatsApp is not configured; the summary is then only exported.
func NewScheduler(cfg config.ReportingConfig, managerID string, reporting Summarizer, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location()

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		location:  loc,
		reporting: reporting,
		notifier:  notifier,
		managerID: managerID,
		now:       time.Now,
		logger:    logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.RunDailySummary(ctx); err != nil {
			s.logger.Error("daily summary failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler job still running at shutdown")
	}
}

// RunDailySummary sends today's summary to the manager and exports it.
// Both steps are attempted even if one fails.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	date := models.DayOf(s.now().In(s.location))
	s.logger.Info("generating daily summary", zap.String("date", date))

	var errs []error

	if s.notifier != nil && s.managerID != "" {
		summary, err := s.reporting.DailySummary(ctx, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("build summary: %w", err))
		} else if err := s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{To: s.managerID, Message: summary}); err != nil {
			errs = append(errs, fmt.Errorf("send summary: %w", err))
		} else {
			s.logger.Info("daily summary sent", zap.String("to", s.managerID))
		}
	}

	if rows, err := s.reporting.ExportDay(ctx, date); err != nil {
		errs = append(errs, fmt.Errorf("export day: %w", err))
	} else if rows > 0 {
		s.logger.Info("daily rows exported", zap.Int("rows", rows))
	}

	return errors.Join(errs...)
}
