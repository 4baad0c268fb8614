package schedules

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

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
	schedulesPath = "/schedules"
	defaultFetch  = 500
	monthLayout   = "2006-01"
)

// Service exposes class schedule and trip & event administration.
type Service interface {
	List(ctx context.Context, token string, scope Scope, q listview.Query) (listview.Result[Schedule], error)
	Get(ctx context.Context, token, id string) (*Schedule, error)
	Create(ctx context.Context, token string, input Input) (*Schedule, error)
	Update(ctx context.Context, token, id string, input Input) (*Schedule, error)
	ChangeStatus(ctx context.Context, token, id string, to enums.ScheduleStatus) (*Schedule, error)
	Delete(ctx context.Context, token, id string) (backend.DeleteResult, error)
	Summary(ctx context.Context, token string) (Summary, error)
}

// Summary is the dashboard tile for classes and trip & event offerings.
type Summary struct {
	Classes         int `json:"classes"`
	Events          int `json:"events"`
	OpenEvents      int `json:"openEvents"`
	EventApplicants int `json:"eventApplicants"`
}

// ServiceParams wires the schedule service.
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
	spec       listview.Spec[Schedule]
	fetchLimit int
}

// NewService builds the schedule service.
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
		spec:       ScheduleSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// ScheduleSpec is the list configuration shared by the schedules and trip & event pages.
func ScheduleSpec(pageSize int) listview.Spec[Schedule] {
	return listview.Spec[Schedule]{
		Search: []func(Schedule) string{
			func(s Schedule) string { return s.ClassName },
			func(s Schedule) string { return s.InstructorName },
			func(s Schedule) string { return s.LocationInfo },
		},
		Filters: map[string]func(Schedule) string{
			"status":    func(s Schedule) string { return string(s.Status) },
			"classType": func(s Schedule) string { return string(s.ClassType) },
			"isActive":  func(s Schedule) string { return strconv.FormatBool(s.IsActive) },
		},
		Sorts: map[string]func(Schedule) listview.Value{
			"startDate":         func(s Schedule) listview.Value { return listview.OptString(s.StartDate) },
			"className":         func(s Schedule) listview.Value { return listview.OptString(s.ClassName) },
			"classType":         func(s Schedule) listview.Value { return listview.String(string(s.ClassType)) },
			"instructorName":    func(s Schedule) listview.Value { return listview.OptString(s.InstructorName) },
			"capacity":          func(s Schedule) listview.Value { return listview.Int(s.Capacity) },
			"currentApplicants": func(s Schedule) listview.Value { return listview.Int(s.CurrentApplicants) },
			"price":             func(s Schedule) listview.Value { return listview.Number(s.Price.InexactFloat64()) },
			"status":            func(s Schedule) listview.Value { return listview.String(string(s.Status)) },
		},
		DefaultSort: "startDate",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, scope Scope, q listview.Query) (listview.Result[Schedule], error) {
	params := backend.PageQuery(1, s.fetchLimit)
	if month := strings.TrimSpace(scope.Month); month != "" {
		if _, err := time.Parse(monthLayout, month); err != nil {
			return listview.Result[Schedule]{}, pkgerrors.New(pkgerrors.CodeValidation, "month must be YYYY-MM").
				WithDetails(map[string]string{"month": month})
		}
		params.Set("month", month)
	}
	rows, err := s.fetch(ctx, token, params)
	if err != nil {
		return listview.Result[Schedule]{}, err
	}
	view := scope.View
	if view == "" {
		view = ViewSchedules
	}
	scoped := rows[:0]
	for _, row := range rows {
		if view.includes(row.ClassType) {
			scoped = append(scoped, row)
		}
	}
	return listview.Apply(scoped, q, s.spec), nil
}

func (s *service) fetch(ctx context.Context, token string, params url.Values) ([]Schedule, error) {
	var env backend.ListEnvelope[upstreamSchedule]
	if err := s.api.Get(ctx, schedulesPath, params, token, &env); err != nil {
		return nil, err
	}
	rows := make([]Schedule, 0, len(env.Data))
	for _, u := range env.Data {
		rows = append(rows, u.toSchedule())
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, token, id string) (*Schedule, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "schedule id required")
	}
	var out backend.Flexible[upstreamSchedule]
	if err := s.api.Get(ctx, schedulesPath+"/"+backend.PathID(id), nil, token, &out); err != nil {
		return nil, err
	}
	row := out.Value.toSchedule()
	return &row, nil
}

func (s *service) Create(ctx context.Context, token string, input Input) (*Schedule, error) {
	if err := validateInput(input, true); err != nil {
		return nil, err
	}
	var out backend.Flexible[upstreamSchedule]
	err := s.api.Post(ctx, schedulesPath, token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceSchedule, ResourceID: out.Value.ID.String(), Action: enums.AuditActionCreate, Err: err})
	if err != nil {
		return nil, err
	}
	row := out.Value.toSchedule()
	return &row, nil
}

// Update sends a partial edit. Status changes go through ChangeStatus so the
// transition table is consulted.
func (s *service) Update(ctx context.Context, token, id string, input Input) (*Schedule, error) {
	if input.Status != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is changed through the status endpoint")
	}
	if err := validateInput(input, false); err != nil {
		return nil, err
	}
	var out backend.Flexible[upstreamSchedule]
	err := s.api.Patch(ctx, schedulesPath+"/"+backend.PathID(id), token, input, &out)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceSchedule, ResourceID: id, Action: enums.AuditActionUpdate, Err: err})
	if err != nil {
		return nil, err
	}
	if out.Value.ID == "" {
		return s.Get(ctx, token, id)
	}
	row := out.Value.toSchedule()
	return &row, nil
}

func (s *service) ChangeStatus(ctx context.Context, token, id string, to enums.ScheduleStatus) (*Schedule, error) {
	if !to.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid schedule status %q", to)
	}
	current, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if err := lifecycle.Schedule.Check(from, to); err != nil {
		return nil, err
	}

	err = s.api.Patch(ctx, schedulesPath+"/"+backend.PathID(id), token, map[string]enums.ScheduleStatus{"status": to}, nil)
	s.metrics.IncTransition(audit.ResourceSchedule, err == nil)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceSchedule, ResourceID: id, Action: enums.AuditActionStatusChange, From: string(from), To: string(to), Err: err})
	if err != nil {
		return nil, err
	}
	result := *current
	result.Status = to
	result.AllowedTransitions = lifecycle.Schedule.Allowed(to)
	return &result, nil
}

func (s *service) Delete(ctx context.Context, token, id string) (backend.DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return backend.DeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "schedule id required")
	}
	var res backend.DeleteResult
	err := s.api.Delete(ctx, schedulesPath+"/"+backend.PathID(id), token, &res)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceSchedule, ResourceID: id, Action: enums.AuditActionDelete, Err: err})
	if err != nil {
		return backend.DeleteResult{}, err
	}
	return res, nil
}

func (s *service) Summary(ctx context.Context, token string) (Summary, error) {
	rows, err := s.fetch(ctx, token, backend.PageQuery(1, s.fetchLimit))
	if err != nil {
		return Summary{}, err
	}
	var out Summary
	for _, row := range rows {
		switch {
		case ViewSchedules.includes(row.ClassType):
			out.Classes++
		case ViewEvents.includes(row.ClassType):
			out.Events++
			out.EventApplicants += row.CurrentApplicants
			if row.Status == enums.ScheduleStatusOpen {
				out.OpenEvents++
			}
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
			{Name: "startDate", Value: in.StartDate, Tag: "required,notblank"},
		}
		if in.Status != nil {
			required = append(required, validation.Field{Name: "status", Value: string(*in.Status), Tag: "eq=" + string(enums.ScheduleStatusOpen)})
		}
	}
	return validation.Struct(in, required...)
}
