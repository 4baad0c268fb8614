package contacts

import (
	"context"
	"strings"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
)

const (
	contactsPath = "/requests/contact"
	defaultFetch = 500
)

// Service exposes the inquiry inbox.
type Service interface {
	List(ctx context.Context, token string, view View, q listview.Query) (listview.Result[Contact], error)
	ChangeStatus(ctx context.Context, token, id string, to enums.ContactStatus) (*Contact, error)
}

// ServiceParams wires the contact service.
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
	spec       listview.Spec[Contact]
	fetchLimit int
}

// NewService builds the contact service.
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
		spec:       ContactSpec(params.PageSize),
		fetchLimit: fetchLimit,
	}, nil
}

// ContactSpec is the list configuration of the inquiries and partnerships pages.
func ContactSpec(pageSize int) listview.Spec[Contact] {
	return listview.Spec[Contact]{
		Search: []func(Contact) string{
			func(c Contact) string { return c.Company },
			func(c Contact) string { return c.Name },
			func(c Contact) string { return c.Email },
			func(c Contact) string { return c.Message },
		},
		Filters: map[string]func(Contact) string{
			"contactType": func(c Contact) string { return string(c.ContactType) },
			"status":      func(c Contact) string { return string(c.Status) },
		},
		Sorts: map[string]func(Contact) listview.Value{
			"createdAt": func(c Contact) listview.Value { return listview.TimePtr(c.CreatedAt) },
			"company":   func(c Contact) listview.Value { return listview.OptString(c.Company) },
			"name":      func(c Contact) listview.Value { return listview.OptString(c.Name) },
			"status":    func(c Contact) listview.Value { return listview.String(string(c.Status)) },
		},
		DefaultSort: "createdAt",
		DefaultDir:  listview.Desc,
		PageSize:    pageSize,
	}
}

func (s *service) List(ctx context.Context, token string, view View, q listview.Query) (listview.Result[Contact], error) {
	rows, err := s.fetchAll(ctx, token)
	if err != nil {
		return listview.Result[Contact]{}, err
	}
	if view == ViewPartnerships {
		q = q.Clone()
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters["contactType"] = string(enums.ContactTypePartnership)
	}
	return listview.Apply(rows, q, s.spec), nil
}

func (s *service) fetchAll(ctx context.Context, token string) ([]Contact, error) {
	var env backend.ListEnvelope[upstreamContact]
	if err := s.api.Get(ctx, contactsPath, backend.PageQuery(1, s.fetchLimit), token, &env); err != nil {
		return nil, err
	}
	rows := make([]Contact, 0, len(env.Data))
	for _, u := range env.Data {
		rows = append(rows, u.toContact())
	}
	return rows, nil
}

func (s *service) find(ctx context.Context, token, id string) (*Contact, error) {
	rows, err := s.fetchAll(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "inquiry %s not found", id)
}

// ChangeStatus sets any inquiry status other than the current one. The backend
// has no single-inquiry read, so the current row is resolved from the list.
func (s *service) ChangeStatus(ctx context.Context, token, id string, to enums.ContactStatus) (*Contact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry id required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid inquiry status %q", to)
	}
	current, err := s.find(ctx, token, id)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if err := lifecycle.Contact.Check(from, to); err != nil {
		return nil, err
	}

	err = s.api.Patch(ctx, contactsPath+"/"+backend.PathID(id)+"/status", token, map[string]enums.ContactStatus{"status": to}, nil)
	s.metrics.IncTransition(audit.ResourceContact, err == nil)
	s.audit.Record(ctx, audit.Event{Resource: audit.ResourceContact, ResourceID: id, Action: enums.AuditActionStatusChange, From: string(from), To: string(to), Err: err})
	if err != nil {
		return nil, err
	}
	result := *current
	result.Status = to
	result.AllowedTransitions = lifecycle.Contact.Allowed(to)
	return &result, nil
}
