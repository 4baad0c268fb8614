package instructors

import (
	"context"
	"strconv"
	"strings"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
	"github.com/evolutionflow/admin-bff/pkg/validation"
)

const (
	teachersPath = "/teachers"
	defaultFetch = 500
)

// Service exposes instructor profile administration.
type Service interface {
	List(ctx context.Context, token string, q listview.Query) (listview.Result[Instructor], error)
	Get(ctx context.Context, token, code string) (*Instructor, error)
	Create(ctx context.Context, token string, input CreateInput) (*Instructor, error)
	Update(ctx context.Context, token, code string, input UpdateInput) (*Instructor, error)
	SetVisibility(ctx context.Context, token, code string, visible bool) (*Instructor, error)
	Delete(ctx context.Context, token, code string) (backend.DeleteResult, error)
}

// ServiceParams wires the instructor service.
type ServiceParams struct {
	Backend    backend.API
	Audit      audit.Recorder
	Metrics    *metrics.WorkflowMetrics
	PageSize   int
	FetchLimit int
}

type service struct {
	api        backend.API
	audit      audit.Recorder
	metrics    *metrics.WorkflowMetrics
	spec       listview.Spec[Instructor]
	fetchLimit int
}

// NewService builds the instructor service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client required")
	}
	recorder := params.Audit
	if recorder == nil {
		recorder = audit.Discard
	}
	fetchLimit := params.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = defaultFetch
	}
	return &service{
		api:        params.Backend,
		audit:      recorder,
		metrics:    params.Metrics,
		spec:       InstructorSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// InstructorSpec is the list configuration of the instructors page.
func InstructorSpec(pageSize int) listview.Spec[Instructor] {
	return listview.Spec[Instructor]{
		Search: []func(Instructor) string{
			func(i Instructor) string { return i.Code },
			func(i Instructor) string { return i.Name },
			func(i Instructor) string { return i.Tagline },
		},
		Filters: map[string]func(Instructor) string{
			"grade":    func(i Instructor) string { return string(i.Grade) },
			"country":  func(i Instructor) string { return string(i.Country) },
			"level":    func(i Instructor) string { return string(i.Level) },
			"isActive": func(i Instructor) string { return strconv.FormatBool(i.IsActive) },
		},
		Sorts: map[string]func(Instructor) listview.Value{
			"sortOrder": func(i Instructor) listview.Value { return listview.Int(i.SortOrder) },
			"name":      func(i Instructor) listview.Value { return listview.OptString(i.Name) },
			"code":      func(i Instructor) listview.Value { return listview.String(i.Code) },
			"grade":     func(i Instructor) listview.Value { return listview.Int(i.Grade.Rank()) },
			"country":   func(i Instructor) listview.Value { return listview.OptString(string(i.Country)) },
		},
		DefaultSort: "sortOrder",
		DefaultDir:  listview.Asc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, q listview.Query) (listview.Result[Instructor], error) {
	var env backend.ListEnvelope[Instructor]
	if err := s.api.Get(ctx, teachersPath, backend.PageQuery(1, s.fetchLimit), token, &env); err != nil {
		return listview.Result[Instructor]{}, err
	}
	return listview.Apply(env.Data, q, s.spec), nil
}

func (s *service) Get(ctx context.Context, token, code string) (*Instructor, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instructor code required")
	}
	var out backend.Flexible[Instructor]
	if err := s.api.Get(ctx, teachersPath+"/"+backend.PathID(code), nil, token, &out); err != nil {
		return nil, err
	}
	return &out.Value, nil
}

func (s *service) Create(ctx context.Context, token string, input CreateInput) (*Instructor, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	input.Career = cleanCareer(input.Career)

	var out backend.Flexible[Instructor]
	err := s.api.Post(ctx, teachersPath, token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceInstructor, ResourceID: input.Code, Action: enums.AuditActionCreate, Err: err})
	if err != nil {
		return nil, err
	}
	return &out.Value, nil
}

func (s *service) Update(ctx context.Context, token, code string, input UpdateInput) (*Instructor, error) {
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Career != nil {
		cleaned := cleanCareer(*input.Career)
		input.Career = &cleaned
	}

	var out backend.Flexible[Instructor]
	err := s.api.Patch(ctx, teachersPath+"/"+backend.PathID(code), token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceInstructor, ResourceID: code, Action: enums.AuditActionUpdate, Err: err})
	if err != nil {
		return nil, err
	}
	return &out.Value, nil
}

// SetVisibility sends only the isActive flag.
func (s *service) SetVisibility(ctx context.Context, token, code string, visible bool) (*Instructor, error) {
	current, err := s.Get(ctx, token, code)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckVisibility(audit.ResourceInstructor, current.IsActive, visible); err != nil {
		return nil, err
	}

	var out backend.Flexible[Instructor]
	err = s.api.Patch(ctx, teachersPath+"/"+backend.PathID(code), token, map[string]bool{"isActive": visible}, &out)
	s.metrics.IncTransition(audit.ResourceInstructor, err == nil)
	s.audit.Record(ctx, audit.Event{
		Resource:   audit.ResourceInstructor,
		ResourceID: code,
		Action:     enums.AuditActionVisibilityChange,
		From:       strconv.FormatBool(current.IsActive),
		To:         strconv.FormatBool(visible),
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	result := *current
	if out.Value.Code != "" {
		result = out.Value
	}
	result.IsActive = visible
	return &result, nil
}

func (s *service) Delete(ctx context.Context, token, code string) (backend.DeleteResult, error) {
	if strings.TrimSpace(code) == "" {
		return backend.DeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "instructor code required")
	}
	var res backend.DeleteResult
	err := s.api.Delete(ctx, teachersPath+"/"+backend.PathID(code), token, &res)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceInstructor, ResourceID: code, Action: enums.AuditActionDelete, Err: err})
	if err != nil {
		return backend.DeleteResult{}, err
	}
	return res, nil
}
