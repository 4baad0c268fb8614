package studios

import (
	"context"
	"strings"
	"time"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/internal/repo"
	"github.com/evolutionflow/admin-bff/pkg/db"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/validation"
	"github.com/google/uuid"
)

const defaultFetchLimit = 500

// Service manages the studio registry.
type Service interface {
	List(ctx context.Context, q listview.Query) (listview.Result[Studio], error)
	Get(ctx context.Context, id string) (*Studio, error)
	Create(ctx context.Context, input CreateInput) (*Studio, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Studio, error)
	ChangeStatus(ctx context.Context, id string, to enums.StudioStatus) (*Studio, error)
	Count(ctx context.Context) (int64, error)
}

// ServiceParams wires the studio service.
type ServiceParams struct {
	Repo       Repository
	Audit      audit.Recorder
	PageSize   int
	FetchLimit int
	Now        func() time.Time
}

type service struct {
	repo       Repository
	audit      audit.Recorder
	spec       listview.Spec[Studio]
	fetchLimit int
	now        func() time.Time
}

// NewService builds the studio service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "studio repository required")
	}
	recorder := params.Audit
	if recorder == nil {
		recorder = audit.Discard
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
		audit:      recorder,
		spec:       StudioSpec(params.PageSize),
		fetchLimit: fetchLimit,
		now:        now,
	}, nil
}

// StudioSpec is the list configuration of the studios page.
func StudioSpec(pageSize int) listview.Spec[Studio] {
	return listview.Spec[Studio]{
		Search: []func(Studio) string{
			func(s Studio) string { return s.Name },
			func(s Studio) string { return s.Location },
			func(s Studio) string { return s.ManagerName },
		},
		Filters: map[string]func(Studio) string{
			"status": func(s Studio) string { return string(s.Status) },
		},
		Sorts: map[string]func(Studio) listview.Value{
			"createdAt": func(s Studio) listview.Value { return listview.Time(s.CreatedAt) },
			"name":      func(s Studio) listview.Value { return listview.String(s.Name) },
			"capacity":  func(s Studio) listview.Value { return listview.Int(s.Capacity) },
		},
		DefaultSort: "createdAt",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, q listview.Query) (listview.Result[Studio], error) {
	rows, err := s.repo.List(ctx, s.fetchLimit)
	if err != nil {
		return listview.Result[Studio]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list studios")
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) Get(ctx context.Context, id string) (*Studio, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "studio id required")
	}
	studio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.NotFound(err, "studio not found")
	}
	return studio, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Studio, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.StudioStatusActive
	}

	now := s.now().UTC()
	studio := &Studio{
		ID:          uuid.NewString(),
		Name:        name,
		Location:    location,
		ManagerName: strings.TrimSpace(input.ManagerName),
		Contact:     strings.TrimSpace(input.Contact),
		Capacity:    input.Capacity,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.repo.Create(ctx, studio)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceStudio, ResourceID: studio.ID, Action: enums.AuditActionCreate, To: string(status), Err: err})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "studio %q already exists", name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create studio")
	}
	return studio, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Studio, error) {
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	studio, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		studio.Name = strings.TrimSpace(*input.Name)
	}
	if input.Location != nil {
		studio.Location = strings.TrimSpace(*input.Location)
	}
	if input.ManagerName != nil {
		studio.ManagerName = strings.TrimSpace(*input.ManagerName)
	}
	if input.Contact != nil {
		studio.Contact = strings.TrimSpace(*input.Contact)
	}
	if input.Capacity != nil {
		studio.Capacity = *input.Capacity
	}
	studio.UpdatedAt = s.now().UTC()

	err = s.repo.Save(ctx, studio)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceStudio, ResourceID: studio.ID, Action: enums.AuditActionUpdate, Err: err})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "studio %q already exists", studio.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update studio")
	}
	return studio, nil
}

func (s *service) ChangeStatus(ctx context.Context, id string, to enums.StudioStatus) (*Studio, error) {
	if !to.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid studio status %q", to)
	}
	studio, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := studio.Status
	if err := lifecycle.Studio.Check(from, to); err != nil {
		return nil, err
	}
	studio.Status = to
	studio.UpdatedAt = s.now().UTC()

	err = s.repo.Save(ctx, studio)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceStudio, ResourceID: id, Action: enums.AuditActionStatusChange, From: string(from), To: string(to), Err: err})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change studio status")
	}
	return studio, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count studios")
	}
	return count, nil
}
