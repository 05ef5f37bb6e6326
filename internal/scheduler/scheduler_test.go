package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/fuelstation/internal/config"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

type fakeSummarizer struct {
	dates     []string
	exportErr error
}

func (f *fakeSummarizer) DailySummary(_ context.Context, date string) (string, error) {
	f.dates = append(f.dates, date)
	return "summary " + date, nil
}

func (f *fakeSummarizer) ExportDay(_ context.Context, date string) (int, error) {
	f.dates = append(f.dates, date)
	return 3, f.exportErr
}

type fakeNotifier struct {
	sent []models.OutboundMessageRequest
	err  error
}

func (f *fakeNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return f.err
}

func reportingConfig() config.ReportingConfig {
	return config.ReportingConfig{CronSchedule: "0 21 * * *", Timezone: "Asia/Kolkata"}
}

func TestRunDailySummaryUsesLocalDate(t *testing.T) {
	rep := &fakeSummarizer{}
	notifier := &fakeNotifier{}
	s := NewScheduler(reportingConfig(), "9198", rep, notifier, nil)
	// 20:00 UTC is already the next day in India.
	s.now = func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) }

	if err := s.RunDailySummary(context.Background()); err != nil {
		t.Fatalf("RunDailySummary: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].To != "9198" || notifier.sent[0].Message != "summary 2026-10-17" {
		t.Fatalf("unexpected send %+v", notifier.sent)
	}
	if len(rep.dates) != 2 || rep.dates[1] != "2026-10-17" {
		t.Fatalf("unexpected dates %v", rep.dates)
	}
}

func TestRunDailySummaryCollectsErrors(t *testing.T) {
	rep := &fakeSummarizer{exportErr: errors.New("sheets quota")}
	notifier := &fakeNotifier{err: errors.New("whatsapp down")}
	s := NewScheduler(reportingConfig(), "9198", rep, notifier, nil)

	err := s.RunDailySummary(context.Background())
	if err == nil || !strings.Contains(err.Error(), "whatsapp down") || !strings.Contains(err.Error(), "sheets quota") {
		t.Fatalf("expected both failures, got %v", err)
	}
}

func TestRunDailySummaryWithoutNotifier(t *testing.T) {
	rep := &fakeSummarizer{}
	s := NewScheduler(reportingConfig(), "", rep, nil, nil)

	if err := s.RunDailySummary(context.Background()); err != nil {
		t.Fatalf("RunDailySummary: %v", err)
	}
	if len(rep.dates) != 1 {
		t.Fatalf("only the export should run, got %v", rep.dates)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := reportingConfig()
	cfg.CronSchedule = "whenever"
	s := NewScheduler(cfg, "", &fakeSummarizer{}, nil, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected schedule error")
	}

	ok := NewScheduler(reportingConfig(), "", &fakeSummarizer{}, nil, nil)
	if err := ok.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ok.Stop(ctx)
}
