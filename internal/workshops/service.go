package workshops

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
	workshopsPath = "/workshops"
	defaultFetch  = 500
)

// Service exposes workshop administration.
type Service interface {
	List(ctx context.Context, token string, q listview.Query) (listview.Result[Workshop], error)
	Get(ctx context.Context, token, id string) (*Workshop, error)
	Create(ctx context.Context, token string, input Input) (*Workshop, error)
	Update(ctx context.Context, token, id string, input Input) (*Workshop, error)
	ChangeStatus(ctx context.Context, token, id string, to enums.WorkshopStatus) (*Workshop, error)
	SetVisibility(ctx context.Context, token, id string, visible bool) (*Workshop, error)
	Delete(ctx context.Context, token, id string) (backend.DeleteResult, error)
	Summary(ctx context.Context, token string) (Summary, error)
}

// Summary is the dashboard tile for workshops.
type Summary struct {
	Total          int `json:"total"`
	Open           int `json:"open"`
	OpenApplicants int `json:"openApplicants"`
}

// ServiceParams wires the workshop service.
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
	spec       listview.Spec[Workshop]
	fetchLimit int
}

// NewService builds the workshop service.
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
		spec:       WorkshopSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// WorkshopSpec is the list configuration of the workshops page.
func WorkshopSpec(pageSize int) listview.Spec[Workshop] {
	return listview.Spec[Workshop]{
		Search: []func(Workshop) string{
			func(w Workshop) string { return w.Title },
			func(w Workshop) string { return w.InstructorName },
			func(w Workshop) string { return w.LocationInfo },
		},
		Filters: map[string]func(Workshop) string{
			"status":   func(w Workshop) string { return string(w.Status) },
			"level":    func(w Workshop) string { return string(w.Level) },
			"category": func(w Workshop) string { return string(w.Category) },
			"isActive": func(w Workshop) string { return strconv.FormatBool(w.IsActive) },
		},
		Sorts: map[string]func(Workshop) listview.Value{
			"startDate":         func(w Workshop) listview.Value { return listview.OptString(w.StartDate) },
			"title":             func(w Workshop) listview.Value { return listview.OptString(w.Title) },
			"instructorName":    func(w Workshop) listview.Value { return listview.OptString(w.InstructorName) },
			"capacity":          func(w Workshop) listview.Value { return listview.Int(w.Capacity) },
			"currentApplicants": func(w Workshop) listview.Value { return listview.Int(w.CurrentApplicants) },
			"price":             func(w Workshop) listview.Value { return listview.Number(w.Price.InexactFloat64()) },
			"status":            func(w Workshop) listview.Value { return listview.String(string(w.Status)) },
		},
		DefaultSort: "startDate",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, q listview.Query) (listview.Result[Workshop], error) {
	rows, err := s.fetchAll(ctx, token)
	if err != nil {
		return listview.Result[Workshop]{}, err
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) fetchAll(ctx context.Context, token string) ([]Workshop, error) {
	var env backend.ListEnvelope[upstreamWorkshop]
	if err := s.api.Get(ctx, workshopsPath, backend.PageQuery(1, s.fetchLimit), token, &env); err != nil {
		return nil, err
	}
	rows := make([]Workshop, 0, len(env.Data))
	for _, w := range env.Data {
		rows = append(rows, w.toWorkshop())
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, token, id string) (*Workshop, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workshop id required")
	}
	var out backend.Flexible[upstreamWorkshop]
	if err := s.api.Get(ctx, workshopsPath+"/"+backend.PathID(id), nil, token, &out); err != nil {
		return nil, err
	}
	w := out.Value.toWorkshop()
	return &w, nil
}

func (s *service) Create(ctx context.Context, token string, input Input) (*Workshop, error) {
	if err := validateInput(input, true); err != nil {
		return nil, err
	}
	var out backend.Flexible[upstreamWorkshop]
	err := s.api.Post(ctx, workshopsPath, token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceWorkshop, ResourceID: out.Value.ID.String(), Action: enums.AuditActionCreate, Err: err})
	if err != nil {
		return nil, err
	}
	w := out.Value.toWorkshop()
	return &w, nil
}

func (s *service) Update(ctx context.Context, token, id string, input Input) (*Workshop, error) {
	if err := validateInput(input, false); err != nil {
		return nil, err
	}
	var out backend.Flexible[upstreamWorkshop]
	err := s.api.Patch(ctx, workshopsPath+"/"+backend.PathID(id), token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceWorkshop, ResourceID: id, Action: enums.AuditActionUpdate, Err: err})
	if err != nil {
		return nil, err
	}
	if out.Value.ID == "" {
		return s.Get(ctx, token, id)
	}
	w := out.Value.toWorkshop()
	return &w, nil
}

func (s *service) ChangeStatus(ctx context.Context, token, id string, to enums.WorkshopStatus) (*Workshop, error) {
	if !to.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid workshop status %q", to)
	}
	current, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if err := lifecycle.Workshop.Check(from, to); err != nil {
		return nil, err
	}

	err = s.api.Patch(ctx, workshopsPath+"/"+backend.PathID(id), token, map[string]enums.WorkshopStatus{"status": to}, nil)
	s.metrics.IncTransition(audit.ResourceWorkshop, err == nil)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceWorkshop, ResourceID: id, Action: enums.AuditActionStatusChange, From: string(from), To: string(to), Err: err})
	if err != nil {
		return nil, err
	}
	result := *current
	result.Status = to
	result.AllowedTransitions = lifecycle.Workshop.Allowed(to)
	return &result, nil
}

func (s *service) SetVisibility(ctx context.Context, token, id string, visible bool) (*Workshop, error) {
	current, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckVisibility(audit.ResourceWorkshop, current.IsActive, visible); err != nil {
		return nil, err
	}

	err = s.api.Patch(ctx, workshopsPath+"/"+backend.PathID(id), token, map[string]bool{"isActive": visible}, nil)
	s.metrics.IncTransition(audit.ResourceWorkshop, err == nil)
	s.audit.Record(ctx, audit.Event{
		Resource:   audit.ResourceWorkshop,
		ResourceID: id,
		Action:     enums.AuditActionVisibilityChange,
		From:       strconv.FormatBool(current.IsActive),
		To:         strconv.FormatBool(visible),
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	result := *current
	result.IsActive = visible
	return &result, nil
}

func (s *service) Delete(ctx context.Context, token, id string) (backend.DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return backend.DeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "workshop id required")
	}
	var res backend.DeleteResult
	err := s.api.Delete(ctx, workshopsPath+"/"+backend.PathID(id), token, &res)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceWorkshop, ResourceID: id, Action: enums.AuditActionDelete, Err: err})
	if err != nil {
		return backend.DeleteResult{}, err
	}
	return res, nil
}

func (s *service) Summary(ctx context.Context, token string) (Summary, error) {
	rows, err := s.fetchAll(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{Total: len(rows)}
	for _, w := range rows {
		if w.Status == enums.WorkshopStatusOpen {
			out.Open++
			out.OpenApplicants += w.CurrentApplicants
		}
	}
	return out, nil
}

func validateInput(in Input, create bool) error {
	if !create && in == (Input{}) {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	var required []validation.Field
	if create {
		required = []validation.Field{
			{Name: "title", Value: in.Title, Tag: "required,notblank"},
			{Name: "instructorName", Value: in.InstructorName, Tag: "required,notblank"},
			{Name: "startDate", Value: in.StartDate, Tag: "required,notblank"},
		}
	}
	return validation.Struct(in, required...)
}
