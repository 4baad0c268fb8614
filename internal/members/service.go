package members

import (
	"context"
	"net/url"
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
	usersPath       = "/users"
	adminMembersAPI = "/api/admin/members"
	defaultFetch    = 500
)

// Service exposes member administration backed by the platform API.
type Service interface {
	List(ctx context.Context, token string, q listview.Query) (listview.Result[Member], error)
	Get(ctx context.Context, token, id string) (*Member, error)
	Update(ctx context.Context, token, id string, input UpdateInput) (*Member, error)
	ChangeStatus(ctx context.Context, token, id string, to enums.MemberStatus) (*Member, error)
	Delete(ctx context.Context, token, id string) (backend.DeleteResult, error)
	Activity(ctx context.Context, token, id string, page, pageSize int) (ActivityPage, error)
	Stats(ctx context.Context, token string) (Stats, error)
}

// ServiceParams wires the member service.
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
	spec       listview.Spec[Member]
	fetchLimit int
}

// NewService builds the member service.
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
		spec:       MemberSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// MemberSpec is the list configuration of the members page.
func MemberSpec(pageSize int) listview.Spec[Member] {
	return listview.Spec[Member]{
		Search: []func(Member) string{
			func(m Member) string { return m.Name },
			func(m Member) string { return m.Email },
			func(m Member) string { return m.Phone },
		},
		Filters: map[string]func(Member) string{
			"status":          func(m Member) string { return string(m.Status) },
			"membershipLevel": func(m Member) string { return string(m.MembershipLevel) },
		},
		Sorts: map[string]func(Member) listview.Value{
			"name":                func(m Member) listview.Value { return listview.OptString(m.Name) },
			"email":               func(m Member) listview.Value { return listview.OptString(m.Email) },
			"registrationDate":    func(m Member) listview.Value { return listview.TimePtr(m.RegistrationDate) },
			"lastLogin":           func(m Member) listview.Value { return listview.TimePtr(m.LastLogin) },
			"status":              func(m Member) listview.Value { return listview.String(string(m.Status)) },
			"membershipLevel":     func(m Member) listview.Value { return listview.String(string(m.MembershipLevel)) },
			"profileCompleteness": func(m Member) listview.Value { return listview.IntPtr(m.ProfileCompleteness) },
		},
		DefaultSort: "registrationDate",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, q listview.Query) (listview.Result[Member], error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("pageSize", strconv.Itoa(s.fetchLimit))

	var env backend.ListEnvelope[upstreamUser]
	if err := s.api.Get(ctx, usersPath, query, token, &env); err != nil {
		return listview.Result[Member]{}, err
	}
	rows := make([]Member, 0, len(env.Data))
	for _, u := range env.Data {
		rows = append(rows, u.toMember())
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) Get(ctx context.Context, token, id string) (*Member, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	var user backend.Flexible[upstreamUser]
	if err := s.api.Get(ctx, usersPath+"/"+backend.PathID(id), nil, token, &user); err != nil {
		return nil, err
	}
	member := user.Value.toMember()
	return &member, nil
}

func (s *service) Update(ctx context.Context, token, id string, input UpdateInput) (*Member, error) {
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var user backend.Flexible[upstreamUser]
	err := s.api.Patch(ctx, usersPath+"/"+backend.PathID(id), token, input, &user)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceMember, ResourceID: id, Action: enums.AuditActionUpdate, Err: err})
	if err != nil {
		return nil, err
	}
	if user.Value.ID == "" {
		return s.Get(ctx, token, id)
	}
	member := user.Value.toMember()
	return &member, nil
}

// ChangeStatus checks the transition table against the current status before
// sending the single-field update.
func (s *service) ChangeStatus(ctx context.Context, token, id string, to enums.MemberStatus) (*Member, error) {
	if !to.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid member status %q", to)
	}
	current, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if err := lifecycle.Member.Check(from, to); err != nil {
		return nil, err
	}

	var updated backend.Flexible[upstreamUser]
	err = s.api.Put(ctx, adminMembersAPI+"/"+backend.PathID(id), token, map[string]enums.MemberStatus{"status": to}, &updated)
	s.metrics.IncTransition(audit.ResourceMember, err == nil)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceMember, ResourceID: id, Action: enums.AuditActionStatusChange, From: string(from), To: string(to), Err: err})
	if err != nil {
		return nil, err
	}

	result := *current
	if updated.Value.ID != "" {
		result = updated.Value.toMember()
	}
	result.Status = to
	result.AllowedTransitions = lifecycle.Member.Allowed(to)
	return &result, nil
}

func (s *service) Delete(ctx context.Context, token, id string) (backend.DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return backend.DeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	var res backend.DeleteResult
	err := s.api.Delete(ctx, usersPath+"/"+backend.PathID(id), token, &res)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceMember, ResourceID: id, Action: enums.AuditActionDelete, To: string(enums.MemberStatusInactive), Err: err})
	if err != nil {
		return backend.DeleteResult{}, err
	}
	return res, nil
}

func (s *service) Activity(ctx context.Context, token, id string, page, pageSize int) (ActivityPage, error) {
	if strings.TrimSpace(id) == "" {
		return ActivityPage{}, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	var out ActivityPage
	if err := s.api.Get(ctx, usersPath+"/"+backend.PathID(id)+"/activity", query, token, &out); err != nil {
		return ActivityPage{}, err
	}
	if out.Data == nil {
		out.Data = []ActivityLog{}
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, token string) (Stats, error) {
	var stats backend.Flexible[Stats]
	if err := s.api.Get(ctx, adminMembersAPI+"/stats", nil, token, &stats); err != nil {
		return Stats{}, err
	}
	return stats.Value, nil
}
