package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evolutionflow/admin-bff/internal/requests"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
)

type stubRequestService struct {
	kind     enums.RequestKind
	query    listview.Query
	decided  string
	decision enums.RequestStatus
	err      error
}

func (s *stubRequestService) List(context.Context, string, enums.RequestKind, enums.RequestStatus, string) ([]requests.Request, error) {
	return nil, s.err
}

func (s *stubRequestService) Page(_ context.Context, _ string, kind enums.RequestKind, q listview.Query) (listview.Result[requests.Request], error) {
	s.kind = kind
	s.query = q
	return listview.Result[requests.Request]{Page: 1, Query: q}, s.err
}

func (s *stubRequestService) Approve(_ context.Context, _ string, kind enums.RequestKind, id string) (*requests.Decision, error) {
	return s.decide(kind, id, enums.RequestStatusApproved)
}

func (s *stubRequestService) Reject(_ context.Context, _ string, kind enums.RequestKind, id string) (*requests.Decision, error) {
	return s.decide(kind, id, enums.RequestStatusRejected)
}

func (s *stubRequestService) decide(kind enums.RequestKind, id string, to enums.RequestStatus) (*requests.Decision, error) {
	s.kind = kind
	s.decided = id
	s.decision = to
	if s.err != nil {
		return nil, s.err
	}
	return &requests.Decision{}, nil
}

func (s *stubRequestService) Pending(context.Context, string, enums.RequestKind) (int, error) {
	return 0, s.err
}

func TestRequestListParsesKindAndStatus(t *testing.T) {
	svc := &stubRequestService{}
	handler := RequestList(svc, 10, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/requests/workshop?status=pending", nil)
	req = withRouteParams(req, map[string]string{"kind": "workshop"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.kind != enums.RequestKindWorkshop {
		t.Fatalf("expected workshop kind got %q", svc.kind)
	}
	if svc.query.Filters["status"] != string(enums.RequestStatusPending) {
		t.Fatalf("expected pending filter got %+v", svc.query.Filters)
	}
}

func TestRequestListRejectsUnknownKindAndStatus(t *testing.T) {
	handler := RequestList(&stubRequestService{}, 10, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/requests/studio", nil)
	req = withRouteParams(req, map[string]string{"kind": "studio"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/requests/teacher?status=maybe", nil)
	req = withRouteParams(req, map[string]string{"kind": "teacher"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestRequestApproveAndReject(t *testing.T) {
	svc := &stubRequestService{}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/requests/teacher/5/approve", nil)
	req = withRouteParams(req, map[string]string{"kind": "teacher", "id": "5"})
	rec := httptest.NewRecorder()
	RequestApprove(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.decided != "5" || svc.decision != enums.RequestStatusApproved {
		t.Fatalf("unexpected decision %s/%s", svc.decided, svc.decision)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/requests/schedule/6/reject", nil)
	req = withRouteParams(req, map[string]string{"kind": "schedule", "id": "6"})
	rec = httptest.NewRecorder()
	RequestReject(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.kind != enums.RequestKindSchedule || svc.decision != enums.RequestStatusRejected {
		t.Fatalf("unexpected decision %s/%s", svc.kind, svc.decision)
	}
}

func TestRequestDecisionOnSettledRequest(t *testing.T) {
	svc := &stubRequestService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "request already approved")}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/requests/teacher/5/reject", nil)
	req = withRouteParams(req, map[string]string{"kind": "teacher", "id": "5"})
	rec := httptest.NewRecorder()
	RequestReject(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "request already approved" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}
