package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evolutionflow/admin-bff/internal/studios"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/evolutionflow/admin-bff/pkg/listview"
)

type stubStudioService struct {
	created studios.CreateInput
	updated studios.UpdateInput
	rows    []studios.Studio
}

func (s *stubStudioService) List(_ context.Context, q listview.Query) (listview.Result[studios.Studio], error) {
	return listview.Result[studios.Studio]{Items: s.rows, Total: len(s.rows), Page: 1, PageSize: 10, TotalPages: 1, Query: q}, nil
}

func (s *stubStudioService) Get(_ context.Context, id string) (*studios.Studio, error) {
	return &studios.Studio{ID: id, Status: enums.StudioStatusActive}, nil
}

func (s *stubStudioService) Create(_ context.Context, input studios.CreateInput) (*studios.Studio, error) {
	s.created = input
	status := input.Status
	if status == "" {
		status = enums.StudioStatusActive
	}
	return &studios.Studio{ID: "s-1", Name: input.Name, Location: input.Location, Status: status}, nil
}

func (s *stubStudioService) Update(_ context.Context, id string, input studios.UpdateInput) (*studios.Studio, error) {
	s.updated = input
	return &studios.Studio{ID: id, Status: enums.StudioStatusActive}, nil
}

func (s *stubStudioService) ChangeStatus(_ context.Context, id string, to enums.StudioStatus) (*studios.Studio, error) {
	return &studios.Studio{ID: id, Status: to}, nil
}

func (s *stubStudioService) Count(context.Context) (int64, error) { return int64(len(s.rows)), nil }

type studioRowPayload struct {
	ID                 string               `json:"id"`
	Status             enums.StudioStatus   `json:"status"`
	AllowedTransitions []enums.StudioStatus `json:"allowedTransitions"`
}

func TestStudioListDecoratesTransitions(t *testing.T) {
	svc := &stubStudioService{rows: []studios.Studio{{ID: "a", Status: enums.StudioStatusMaintenance}}}
	handler := StudioList(svc, 10, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/studios", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data listview.Result[studioRowPayload] `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one row got %d", len(envelope.Data.Items))
	}
	row := envelope.Data.Items[0]
	if len(row.AllowedTransitions) != 2 {
		t.Fatalf("expected two transitions from maintenance, got %v", row.AllowedTransitions)
	}
	for _, to := range row.AllowedTransitions {
		if to == enums.StudioStatusMaintenance {
			t.Fatalf("current status offered as a transition")
		}
	}
}

func TestStudioCreateValidatesBody(t *testing.T) {
	svc := &stubStudioService{}
	handler := StudioCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/studios", bytes.NewBufferString(`{"name":"Gangnam"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing location, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/studios", bytes.NewBufferString(`{"name":"Gangnam","location":"Seoul","capacity":20,"status":"closed"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestStudioCreateReturnsCreated(t *testing.T) {
	svc := &stubStudioService{}
	handler := StudioCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/studios", bytes.NewBufferString(`{"name":"Gangnam","location":"Seoul","capacity":20}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Name != "Gangnam" || svc.created.Capacity != 20 {
		t.Fatalf("unexpected input %+v", svc.created)
	}
}

func TestStudioUpdateKeepsOmittedFieldsNil(t *testing.T) {
	svc := &stubStudioService{}
	handler := StudioUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/studios/a", bytes.NewBufferString(`{"capacity":12}`))
	req = withRouteParams(req, map[string]string{"id": "a"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.updated.Capacity == nil || *svc.updated.Capacity != 12 {
		t.Fatalf("expected capacity 12, got %+v", svc.updated.Capacity)
	}
	if svc.updated.Name != nil || svc.updated.Location != nil {
		t.Fatalf("omitted fields must stay nil")
	}
}
