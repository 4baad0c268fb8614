package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/evolutionflow/admin-bff/internal/dashboard"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

const defaultSnapshotTTL = 10 * time.Minute

// DashboardSnapshotJobParams wires the dashboard snapshot job.
type DashboardSnapshotJobParams struct {
	Logger    *logger.Logger
	Account   tokenRunner
	Dashboard dashboardSnapshotter
	TTL       time.Duration
}

type tokenRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, token string) error) error
}

type dashboardSnapshotter interface {
	Snapshot(ctx context.Context, token string, ttl time.Duration) (*dashboard.Dashboard, error)
}

// NewDashboardSnapshotJob precomputes the dashboard under the service account.
func NewDashboardSnapshotJob(params DashboardSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Account == nil {
		return nil, fmt.Errorf("service account required")
	}
	if params.Dashboard == nil {
		return nil, fmt.Errorf("dashboard service required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &dashboardSnapshotJob{
		logg:      params.Logger,
		account:   params.Account,
		dashboard: params.Dashboard,
		ttl:       ttl,
	}, nil
}

type dashboardSnapshotJob struct {
	logg      *logger.Logger
	account   tokenRunner
	dashboard dashboardSnapshotter
	ttl       time.Duration
}

func (j *dashboardSnapshotJob) Name() string { return "dashboard-snapshot" }

func (j *dashboardSnapshotJob) Run(ctx context.Context) error {
	var snapshot *dashboard.Dashboard
	err := j.account.Do(ctx, func(ctx context.Context, token string) error {
		out, err := j.dashboard.Snapshot(ctx, token, j.ttl)
		if err != nil {
			return err
		}
		snapshot = out
		return nil
	})
	if err != nil {
		return fmt.Errorf("dashboard snapshot: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"ttl_seconds": int(j.ttl.Seconds()),
		"unavailable": snapshot.Unavailable,
	})
	if len(snapshot.Unavailable) > 0 {
		j.logg.Warn(logCtx, "dashboard snapshot stored with unavailable tiles")
		return nil
	}
	j.logg.Info(logCtx, "dashboard snapshot stored")
	return nil
}
