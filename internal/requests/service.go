package requests

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
)

const (
	defaultFetch   = 500
	maxLookupPages = 50
)

// Service is the approval inbox for teacher, workshop and schedule requests.
type Service interface {
	// List returns every request of a kind, narrowed by status and a
	// case-insensitive match on applicant and title fields.
	List(ctx context.Context, token string, kind enums.RequestKind, status enums.RequestStatus, search string) ([]Request, error)
	// Page runs the list pipeline over the requests of a kind.
	Page(ctx context.Context, token string, kind enums.RequestKind, q listview.Query) (listview.Result[Request], error)
	Approve(ctx context.Context, token string, kind enums.RequestKind, id string) (*Decision, error)
	Reject(ctx context.Context, token string, kind enums.RequestKind, id string) (*Decision, error)
	// Pending counts pending requests of a kind.
	Pending(ctx context.Context, token string, kind enums.RequestKind) (int, error)
}

// ServiceParams wires the request service. Locks may be nil on a single replica.
type ServiceParams struct {
	Backend    backend.API
	Locks      LockClient
	Audit      audit.Recorder
	Metrics    *metrics.WorkflowMetrics
	Logger     *logger.Logger
	PageSize   int
	FetchLimit int
}

type service struct {
	api        backend.API
	guard      *inflight
	audit      audit.Recorder
	metrics    *metrics.WorkflowMetrics
	spec       listview.Spec[Request]
	fetchLimit int
}

// NewService builds the request service.
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
		guard:      newInflight(params.Locks, params.Logger),
		audit:      recorder,
		metrics:    params.Metrics,
		spec:       RequestSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// RequestSpec is the list configuration of the requests inbox.
func RequestSpec(pageSize int) listview.Spec[Request] {
	return listview.Spec[Request]{
		Search: []func(Request) string{
			func(r Request) string { return strings.Join(r.searchText(), "\x00") },
		},
		Filters: map[string]func(Request) string{
			"status": func(r Request) string { return string(r.Status) },
		},
		Sorts: map[string]func(Request) listview.Value{
			"createdAt": func(r Request) listview.Value { return listview.TimePtr(r.CreatedAt) },
			"status":    func(r Request) listview.Value { return listview.String(string(r.Status)) },
			"email":     func(r Request) listview.Value { return listview.OptString(r.User.Email) },
		},
		DefaultSort: "createdAt",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, kind enums.RequestKind, status enums.RequestStatus, search string) ([]Request, error) {
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid request status %q", status)
	}
	h, err := handlerFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.fetchAll(ctx, token, h)
	if err != nil {
		return nil, err
	}
	spec := s.spec
	spec.PageSize = max(len(rows), 1)
	q := listview.Query{Search: search}
	if status != "" {
		q.Filters = map[string]string{"status": string(status)}
	}
	return listview.Apply(rows, q, spec).Items, nil
}

func (s *service) Page(ctx context.Context, token string, kind enums.RequestKind, q listview.Query) (listview.Result[Request], error) {
	h, err := handlerFor(kind)
	if err != nil {
		return listview.Result[Request]{}, err
	}
	rows, err := s.fetchAll(ctx, token, h)
	if err != nil {
		return listview.Result[Request]{}, err
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) Pending(ctx context.Context, token string, kind enums.RequestKind) (int, error) {
	rows, err := s.List(ctx, token, kind, enums.RequestStatusPending, "")
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *service) fetchAll(ctx context.Context, token string, h handler) ([]Request, error) {
	rows, _, err := s.fetchPage(ctx, token, h, 1)
	return rows, err
}

func (s *service) fetchPage(ctx context.Context, token string, h handler, page int) ([]Request, int, error) {
	var env backend.ListEnvelope[json.RawMessage]
	if err := s.api.Get(ctx, h.listPath, backend.PageQuery(page, s.fetchLimit), token, &env); err != nil {
		return nil, 0, err
	}
	rows := make([]Request, 0, len(env.Data))
	for _, raw := range env.Data {
		req, err := decodeRequest(h.kind, raw, h.decode)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+string(h.kind)+" request")
		}
		rows = append(rows, req)
	}
	return rows, env.Total, nil
}

func (s *service) Approve(ctx context.Context, token string, kind enums.RequestKind, id string) (*Decision, error) {
	return s.decide(ctx, token, kind, id, enums.RequestStatusApproved)
}

func (s *service) Reject(ctx context.Context, token string, kind enums.RequestKind, id string) (*Decision, error) {
	return s.decide(ctx, token, kind, id, enums.RequestStatusRejected)
}

func (s *service) decide(ctx context.Context, token string, kind enums.RequestKind, id string, to enums.RequestStatus) (*Decision, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	h, err := handlerFor(kind)
	if err != nil {
		return nil, err
	}
	// Read the row under the guard; a decision that just finished must be seen as settled.
	release, err := s.guard.acquire(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.find(ctx, token, h, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Request.Check(current.Status, to); err != nil {
		return nil, err
	}

	var resp decisionResponse
	err = s.api.Patch(ctx, h.decisionPath(id, to), token, nil, &resp)
	s.metrics.IncDecision(string(kind), string(to), err == nil)
	action := enums.AuditActionReject
	if to == enums.RequestStatusApproved {
		action = enums.AuditActionApprove
	}
	s.audit.Record(ctx, audit.Event{
		Resource:   audit.ResourceRequest + ":" + string(kind),
		ResourceID: id,
		Action:     action,
		From:       string(current.Status),
		To:         string(to),
		Err:        err,
	})
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Status = to
	updated.AllowedTransitions = lifecycle.Request.Allowed(to)
	return &Decision{
		Request:        updated,
		Message:        resp.Message,
		MaterializedID: h.materialized(resp),
	}, nil
}

// find resolves the current row; the backend exposes no single-request read,
// so it pages through the list until the id shows up.
func (s *service) find(ctx context.Context, token string, h handler, id string) (*Request, error) {
	for page := 1; page <= maxLookupPages; page++ {
		rows, total, err := s.fetchPage(ctx, token, h, page)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			if rows[i].ID == id {
				return &rows[i], nil
			}
		}
		if len(rows) < s.fetchLimit || page*s.fetchLimit >= total {
			break
		}
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "%s request %s not found", h.kind, id)
}
