package audit

import (
	"context"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/google/uuid"
)

const defaultFetchLimit = 500

// Recorder is the write side every mutating service depends on.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Service records and lists admin actions.
type Service interface {
	Recorder
	List(ctx context.Context, q listview.Query) (listview.Result[Entry], error)
	Recent(ctx context.Context, n int) ([]Entry, error)
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ServiceParams wires the audit service.
type ServiceParams struct {
	Repo       Repository
	Logger     *logger.Logger
	PageSize   int
	FetchLimit int
	Now        func() time.Time
}

type service struct {
	repo       Repository
	logg       *logger.Logger
	spec       listview.Spec[Entry]
	fetchLimit int
	now        func() time.Time
}

// NewService builds the audit service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	fetchLimit := params.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		logg:       params.Logger,
		spec:       EntrySpec(params.PageSize),
		fetchLimit: fetchLimit,
		now:        now,
	}, nil
}

// EntrySpec is the list configuration of the audit page.
func EntrySpec(pageSize int) listview.Spec[Entry] {
	return listview.Spec[Entry]{
		Search: []func(Entry) string{
			func(e Entry) string { return e.Resource },
			func(e Entry) string { return e.ResourceID },
			func(e Entry) string { return e.ActorEmail },
		},
		Filters: map[string]func(Entry) string{
			"resource": func(e Entry) string { return e.Resource },
			"action":   func(e Entry) string { return string(e.Action) },
			"outcome":  func(e Entry) string { return string(e.Outcome) },
		},
		Sorts: map[string]func(Entry) listview.Value{
			"createdAt":  func(e Entry) listview.Value { return listview.Time(e.CreatedAt) },
			"resource":   func(e Entry) listview.Value { return listview.String(e.Resource) },
			"actorEmail": func(e Entry) listview.Value { return listview.OptString(e.ActorEmail) },
		},
		DefaultSort: "createdAt",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

// Record persists event. Failures are logged and swallowed so the admin action itself stands.
func (s *service) Record(ctx context.Context, event Event) {
	actor := ActorFromContext(ctx)
	entry := &Entry{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Resource:   event.Resource,
		ResourceID: event.ResourceID,
		Action:     event.Action,
		FromValue:  event.From,
		ToValue:    event.To,
		Outcome:    enums.AuditOutcomeSuccess,
		CreatedAt:  s.now().UTC(),
	}
	if event.Err != nil {
		entry.Outcome = enums.AuditOutcomeFailure
		entry.Error = event.Err.Error()
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"resource":    event.Resource,
			"resource_id": event.ResourceID,
			"action":      string(event.Action),
		})
		s.logg.Error(logCtx, "failed to record audit entry", err)
	}
}

func (s *service) List(ctx context.Context, q listview.Query) (listview.Result[Entry], error) {
	rows, err := s.repo.ListRecent(ctx, s.fetchLimit)
	if err != nil {
		return listview.Result[Entry]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.repo.ListRecent(ctx, n)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent audit entries")
	}
	return rows, nil
}

func (s *service) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	cutoff := s.now().UTC().Add(-olderThan)
	deleted, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge audit entries")
	}
	return deleted, nil
}

type discard struct{}

func (discard) Record(context.Context, Event) {}

// Discard is a Recorder that drops every event.
var Discard Recorder = discard{}
