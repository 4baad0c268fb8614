// Package app assembles the domain services shared by the api server and the cron-worker.
package app

import (
	"fmt"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/contacts"
	"github.com/evolutionflow/admin-bff/internal/dashboard"
	"github.com/evolutionflow/admin-bff/internal/instructors"
	"github.com/evolutionflow/admin-bff/internal/members"
	"github.com/evolutionflow/admin-bff/internal/requests"
	"github.com/evolutionflow/admin-bff/internal/schedules"
	"github.com/evolutionflow/admin-bff/internal/studios"
	"github.com/evolutionflow/admin-bff/internal/workshops"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
	"github.com/evolutionflow/admin-bff/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Params are the process-level resources the services are built on.
type Params struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         *gorm.DB
	Redis      *redis.Client
	Registerer prometheus.Registerer
}

// Services is the wired domain layer.
type Services struct {
	Backend     *backend.Client
	Audit       audit.Service
	Members     members.Service
	Instructors instructors.Service
	Workshops   workshops.Service
	Schedules   schedules.Service
	Contacts    contacts.Service
	Requests    requests.Service
	Studios     studios.Service
	Dashboard   dashboard.Service
}

// NewServices builds every domain service against one backend client and audit trail.
func NewServices(p Params) (*Services, error) {
	if p.Config == nil || p.Logger == nil || p.DB == nil || p.Redis == nil {
		return nil, fmt.Errorf("config, logger, db and redis are required")
	}
	reg := p.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	cfg := p.Config
	pageSize := cfg.ListView.PageSize
	fetchLimit := cfg.Backend.FetchLimit

	client, err := backend.NewClient(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(metrics.NewBackendMetrics(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	workflow := metrics.NewWorkflowMetrics(reg)

	auditSvc, err := audit.NewService(audit.ServiceParams{
		Repo:     audit.NewRepository(p.DB),
		Logger:   p.Logger,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("audit service: %w", err)
	}

	out := &Services{Backend: client, Audit: auditSvc}
	if out.Members, err = members.NewService(members.ServiceParams{
		Backend: client, Audit: auditSvc, Metrics: workflow, PageSize: pageSize, FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("members service: %w", err)
	}
	if out.Instructors, err = instructors.NewService(instructors.ServiceParams{
		Backend: client, Audit: auditSvc, Metrics: workflow, PageSize: pageSize, FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("instructors service: %w", err)
	}
	if out.Workshops, err = workshops.NewService(workshops.ServiceParams{
		Backend: client, Audit: auditSvc, Metrics: workflow, PageSize: pageSize, FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("workshops service: %w", err)
	}
	if out.Schedules, err = schedules.NewService(schedules.ServiceParams{
		Backend: client, Audit: auditSvc, Metrics: workflow, PageSize: pageSize, FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("schedules service: %w", err)
	}
	if out.Contacts, err = contacts.NewService(contacts.ServiceParams{
		Backend: client, Audit: auditSvc, Metrics: workflow, PageSize: pageSize, FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("contacts service: %w", err)
	}
	if out.Requests, err = requests.NewService(requests.ServiceParams{
		Backend:    client,
		Locks:      p.Redis,
		Audit:      auditSvc,
		Metrics:    workflow,
		Logger:     p.Logger,
		PageSize:   pageSize,
		FetchLimit: fetchLimit,
	}); err != nil {
		return nil, fmt.Errorf("requests service: %w", err)
	}
	if out.Studios, err = studios.NewService(studios.ServiceParams{
		Repo: studios.NewRepository(p.DB), Audit: auditSvc, PageSize: pageSize,
	}); err != nil {
		return nil, fmt.Errorf("studios service: %w", err)
	}
	if out.Dashboard, err = dashboard.NewService(dashboard.ServiceParams{
		Members:     out.Members,
		Instructors: out.Instructors,
		Workshops:   out.Workshops,
		Schedules:   out.Schedules,
		Requests:    out.Requests,
		Contacts:    out.Contacts,
		Studios:     out.Studios,
		Activity:    auditSvc,
		Snapshots:   p.Redis,
		Logger:      p.Logger,
	}); err != nil {
		return nil, fmt.Errorf("dashboard service: %w", err)
	}
	return out, nil
}
