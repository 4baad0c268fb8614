package members

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Record(_ context.Context, e audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newTestService(t *testing.T, mux *http.ServeMux) (Service, *recordingAudit) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(srv.URL)
	require.NoError(t, err)
	rec := &recordingAudit{}
	svc, err := NewService(ServiceParams{Backend: client, Audit: rec, PageSize: 10})
	require.NoError(t, err)
	return svc, rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func user(id int, name, role string, active bool, created time.Time) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"email":     fmt.Sprintf("%s@example.com", name),
		"role":      role,
		"isActive":  active,
		"createdAt": created.Format(time.RFC3339),
	}
}

func TestListMapsBackendUsers(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "500", r.URL.Query().Get("pageSize"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []any{
				user(1, "kim", "ADMIN", true, base),
				user(2, "lee", "INSTRUCTOR", false, base.Add(24*time.Hour)),
				user(3, "park", "MEMBER", true, base.Add(48*time.Hour)),
			},
			"total": 3, "page": 1, "pageSize": 500,
		})
	})
	svc, _ := newTestService(t, mux)

	res, err := svc.List(context.Background(), "tok", listview.Query{})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)

	assert.Equal(t, "park", res.Items[0].Name, "newest registration first")
	byName := map[string]Member{}
	for _, m := range res.Items {
		byName[m.Name] = m
	}
	assert.Equal(t, enums.MembershipLevelPremium, byName["kim"].MembershipLevel)
	assert.Equal(t, enums.MembershipLevelInstructor, byName["lee"].MembershipLevel)
	assert.Equal(t, enums.MembershipLevelGeneral, byName["park"].MembershipLevel)
	assert.Equal(t, enums.MemberStatusInactive, byName["lee"].Status)
	assert.Equal(t, "1", byName["kim"].ID)
	assert.Equal(t, []enums.MemberStatus{enums.MemberStatusActive, enums.MemberStatusSuspended}, byName["lee"].AllowedTransitions)

	res, err = svc.List(context.Background(), "tok", listview.Query{Filters: map[string]string{"status": "active"}, Search: "K"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total, "kim and park match k and are active")
}

func TestListPagesTwentyThreeMembers(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var data []any
	for i := 1; i <= 23; i++ {
		data = append(data, user(i, fmt.Sprintf("m%02d", i), "MEMBER", true, base.Add(time.Duration(i)*time.Hour)))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": data, "total": 23})
	})
	svc, _ := newTestService(t, mux)

	res, err := svc.List(context.Background(), "tok", listview.Query{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 23, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Items, 3)
	assert.Equal(t, []string{"m03", "m02", "m01"}, []string{res.Items[0].Name, res.Items[1].Name, res.Items[2].Name})
}

func TestGetAcceptsBareUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u := user(9, "choi", "MEMBER", true, time.Now())
		u["status"] = "suspended"
		writeJSON(w, http.StatusOK, u)
	})
	svc, _ := newTestService(t, mux)

	m, err := svc.Get(context.Background(), "tok", "9")
	require.NoError(t, err)
	assert.Equal(t, enums.MemberStatusSuspended, m.Status)
	assert.Empty(t, m.AllowedTransitions)
}

func TestChangeStatusSendsOnlyStatus(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user(5, "jung", "MEMBER", true, time.Now()))
	})
	mux.HandleFunc("PUT /api/admin/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "5", "name": "jung", "status": "suspended"}})
	})
	svc, rec := newTestService(t, mux)

	m, err := svc.ChangeStatus(context.Background(), "tok", "5", enums.MemberStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "suspended"}, body)
	assert.Equal(t, enums.MemberStatusSuspended, m.Status)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "active", rec.events[0].From)
	assert.Equal(t, "suspended", rec.events[0].To)
}

func TestChangeStatusRejectsIllegalTransitionWithoutCalling(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u := user(5, "jung", "MEMBER", false, time.Now())
		u["status"] = "suspended"
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("PUT /api/admin/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	svc, rec := newTestService(t, mux)

	_, err := svc.ChangeStatus(context.Background(), "tok", "5", enums.MemberStatusActive)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.False(t, called)
	assert.Empty(t, rec.events)
}

func TestChangeStatusSurfacesUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user(5, "jung", "MEMBER", true, time.Now()))
	})
	mux.HandleFunc("PUT /api/admin/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "admin only"})
	})
	svc, rec := newTestService(t, mux)

	_, err := svc.ChangeStatus(context.Background(), "tok", "5", enums.MemberStatusInactive)
	apiErr, ok := backend.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "admin only", apiErr.Message)
	require.Len(t, rec.events, 1)
	assert.Error(t, rec.events[0].Err)
}

func TestUpdateDeleteActivityAndStats(t *testing.T) {
	var patched map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &patched)
		writeJSON(w, http.StatusOK, user(4, "new-name", "MEMBER", true, time.Now()))
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "deactivated"})
	})
	mux.HandleFunc("GET /users/{id}/activity", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{map[string]any{"id": 1, "type": "login", "description": "signed in", "timestamp": "2026-01-01T00:00:00Z"}}, "total": 11, "page": 2, "pageSize": 10})
	})
	mux.HandleFunc("GET /api/admin/members/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"totalMembers": 10, "activeMembers": 7, "suspendedMembers": 1})
	})
	svc, rec := newTestService(t, mux)
	ctx := context.Background()

	name := "new-name"
	m, err := svc.Update(ctx, "tok", "4", UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new-name", m.Name)
	assert.Equal(t, map[string]any{"name": "new-name"}, patched)

	_, err = svc.Update(ctx, "tok", "4", UpdateInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	blank := "   "
	_, err = svc.Update(ctx, "tok", "4", UpdateInput{Name: &blank})
	var perr *pkgerrors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, map[string]string{"name": "is required"}, perr.Details())

	del, err := svc.Delete(ctx, "tok", "4")
	require.NoError(t, err)
	assert.True(t, del.Success)

	page, err := svc.Activity(ctx, "tok", "4", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, backend.ID("1"), page.Data[0].ID)

	stats, err := svc.Stats(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 7, stats.ActiveMembers)

	assert.Len(t, rec.events, 2)
}
