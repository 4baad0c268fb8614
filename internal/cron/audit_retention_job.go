package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/logger"
)

const defaultAuditRetention = 180 * 24 * time.Hour

// AuditRetentionJobParams wires the audit retention job.
type AuditRetentionJobParams struct {
	Logger    *logger.Logger
	Purger    auditPurger
	Retention time.Duration
}

type auditPurger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewAuditRetentionJob deletes audit entries older than the retention window.
func NewAuditRetentionJob(params AuditRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("audit purger required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultAuditRetention
	}
	return &auditRetentionJob{
		logg:      params.Logger,
		purger:    params.Purger,
		retention: retention,
	}, nil
}

type auditRetentionJob struct {
	logg      *logger.Logger
	purger    auditPurger
	retention time.Duration
}

func (j *auditRetentionJob) Name() string { return "audit-retention" }

func (j *auditRetentionJob) Run(ctx context.Context) error {
	deleted, err := j.purger.Purge(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("audit retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"retention_days": int(j.retention / (24 * time.Hour)),
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "audit retention cleanup complete")
	return nil
}
