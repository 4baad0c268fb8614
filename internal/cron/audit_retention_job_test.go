package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/logger"
)

type fakePurger struct {
	olderThan time.Duration
	called    int
	err       error
}

func (f *fakePurger) Purge(_ context.Context, olderThan time.Duration) (int64, error) {
	f.called++
	f.olderThan = olderThan
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func TestAuditRetentionJobUsesDefaultWindow(t *testing.T) {
	purger := &fakePurger{}
	job, err := NewAuditRetentionJob(AuditRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Purger: purger,
	})
	if err != nil {
		t.Fatalf("NewAuditRetentionJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.called != 1 {
		t.Fatalf("expected purge once, got %d", purger.called)
	}
	if purger.olderThan != defaultAuditRetention {
		t.Fatalf("expected %s, got %s", defaultAuditRetention, purger.olderThan)
	}
}

func TestAuditRetentionJobUsesConfiguredWindow(t *testing.T) {
	purger := &fakePurger{}
	job, err := NewAuditRetentionJob(AuditRetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Purger:    purger,
		Retention: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewAuditRetentionJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.olderThan != 30*24*time.Hour {
		t.Fatalf("unexpected window %s", purger.olderThan)
	}
}

func TestAuditRetentionJobPropagatesError(t *testing.T) {
	job, err := NewAuditRetentionJob(AuditRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Purger: &fakePurger{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewAuditRetentionJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewAuditRetentionJobRequiresPurger(t *testing.T) {
	if _, err := NewAuditRetentionJob(AuditRetentionJobParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected error")
	}
}
