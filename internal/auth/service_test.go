package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	pkgAuth "github.com/evolutionflow/admin-bff/pkg/auth"
	"github.com/evolutionflow/admin-bff/pkg/auth/session"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
)

type stubSessionManager struct {
	mu      sync.Mutex
	records map[string]session.Record
	tokens  map[string]string
	revoked []string
	seq     int
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{records: map[string]session.Record{}, tokens: map[string]string{}}
}

func (s *stubSessionManager) Generate(_ context.Context, rec session.Record) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := "sess-" + string(rune('0'+s.seq))
	s.records[id] = rec
	s.tokens[id] = "refresh-" + id
	return id, s.tokens[id], nil
}

func (s *stubSessionManager) Load(_ context.Context, id string) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return session.Record{}, session.ErrSessionNotFound
	}
	return rec, nil
}

func (s *stubSessionManager) UpdateUpstream(_ context.Context, id, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[id]
	rec.UpstreamAccessToken = access
	rec.UpstreamRefreshToken = refresh
	s.records[id] = rec
	return nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, id, provided string) (string, string, session.Record, error) {
	s.mu.Lock()
	rec, ok := s.records[id]
	valid := ok && s.tokens[id] == provided
	if valid {
		delete(s.records, id)
		delete(s.tokens, id)
	}
	s.mu.Unlock()
	if !valid {
		return "", "", session.Record{}, session.ErrInvalidRefreshToken
	}
	newID, token, err := s.Generate(ctx, rec)
	return newID, token, rec, err
}

func (s *stubSessionManager) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	s.revoked = append(s.revoked, id)
	return nil
}

type fakeBackend struct {
	mu          sync.Mutex
	role        enums.UserRole
	validTokens map[string]bool
	logouts     int
}

func (f *fakeBackend) allow(token string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ok {
		f.validTokens[token] = true
		return
	}
	delete(f.validTokens, token)
}

func (f *fakeBackend) valid(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validTokens[token]
}

func (f *fakeBackend) logoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	user := func() map[string]any {
		return map[string]any{"id": 1, "email": "admin@ef.kr", "name": "Admin", "role": f.role}
	}
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body upstreamCredentials
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "bad credentials"})
			return
		}
		f.allow("up-access", true)
		writeJSON(w, http.StatusOK, map[string]any{"accessToken": "up-access", "refreshToken": "up-refresh", "user": user()})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body upstreamRefreshBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != "up-refresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
			return
		}
		f.allow("up-access-2", true)
		writeJSON(w, http.StatusOK, map[string]any{"accessToken": "up-access-2", "refreshToken": "up-refresh-2"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !f.valid(token) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, user())
	})
	return mux
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "efadmin", ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60}
}

func buildTestService(t *testing.T, role enums.UserRole) (Service, *stubSessionManager, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{role: role, validTokens: map[string]bool{}}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{Backend: client, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions, fb
}

func TestSignInIssuesTokenBoundToSession(t *testing.T) {
	svc, sessions, _ := buildTestService(t, enums.UserRoleAdmin)

	resp, err := svc.SignIn(context.Background(), LoginRequest{Email: " Admin@EF.kr ", Password: "pw"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	rec, err := sessions.Load(context.Background(), claims.SessionID())
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if rec.UpstreamAccessToken != "up-access" || rec.User.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected record %+v", rec)
	}
	if claims.UserID != "1" || resp.ExpiresIn != 900 {
		t.Fatalf("unexpected claims %+v expires %d", claims, resp.ExpiresIn)
	}
}

func TestSignInRejectsBadCredentialsAndNonAdmins(t *testing.T) {
	svc, _, fb := buildTestService(t, enums.UserRoleMember)

	_, err := svc.SignIn(context.Background(), LoginRequest{Email: "admin@ef.kr", Password: "wrong"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.SignIn(context.Background(), LoginRequest{Email: "admin@ef.kr", Password: "pw"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if fb.logoutCount() != 1 {
		t.Fatalf("expected the upstream session of a non-admin to be closed")
	}
}

func TestRestoreRefreshesExpiredUpstreamToken(t *testing.T) {
	svc, sessions, fb := buildTestService(t, enums.UserRoleAdmin)
	ctx := context.Background()
	resp, err := svc.SignIn(ctx, LoginRequest{Email: "admin@ef.kr", Password: "pw"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	claims, _ := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)

	fb.allow("up-access", false)
	user, err := svc.Restore(ctx, claims.SessionID())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if user.Email != "admin@ef.kr" {
		t.Fatalf("unexpected user %+v", user)
	}
	token, err := svc.UpstreamToken(ctx, claims.SessionID())
	if err != nil || token != "up-access-2" {
		t.Fatalf("expected refreshed upstream token, got %q %v", token, err)
	}

	fb.allow("up-access-2", false)
	_ = sessions.UpdateUpstream(ctx, claims.SessionID(), "dead", "dead")
	_, err = svc.Restore(ctx, claims.SessionID())
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := sessions.Load(ctx, claims.SessionID()); err == nil {
		t.Fatalf("expected dead session to be cleared")
	}
}

func TestRestoreUnknownSessionLooksLikeMissingToken(t *testing.T) {
	svc, _, _ := buildTestService(t, enums.UserRoleAdmin)
	_, err := svc.Restore(context.Background(), "nope")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized || typed.Message() != loginRequiredMessage {
		t.Fatalf("expected login required, got %v", err)
	}
}

func TestRefreshRotatesAndSignOutRevokes(t *testing.T) {
	svc, sessions, fb := buildTestService(t, enums.UserRoleAdmin)
	ctx := context.Background()
	resp, err := svc.SignIn(ctx, LoginRequest{Email: "admin@ef.kr", Password: "pw"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	claims, _ := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)

	if _, err := svc.Refresh(ctx, claims.SessionID(), "guess"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong refresh token, got %v", err)
	}
	rotated, err := svc.Refresh(ctx, claims.SessionID(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	newClaims, _ := pkgAuth.ParseAccessToken(testJWTConfig(), rotated.AccessToken)
	if newClaims.SessionID() == claims.SessionID() {
		t.Fatalf("expected a new session id")
	}

	if err := svc.SignOut(ctx, newClaims.SessionID()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if fb.logoutCount() != 1 || len(sessions.revoked) != 1 {
		t.Fatalf("expected upstream logout and revoke, got %d/%d", fb.logoutCount(), len(sessions.revoked))
	}
	if err := svc.SignOut(ctx, newClaims.SessionID()); err != nil {
		t.Fatalf("second sign out should be a no-op: %v", err)
	}
}

func TestStoreLifecycle(t *testing.T) {
	fb := &fakeBackend{role: enums.UserRoleAdmin, validTokens: map[string]bool{}}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	storage := NewFileStorage(filepath.Join(t.TempDir(), "console", "session.json"))
	store, err := NewStore(client, storage, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	var seen []State
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s) })
	defer unsubscribe()
	ctx := context.Background()

	if !store.State().Loading {
		t.Fatalf("expected loading before init")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init without tokens: %v", err)
	}
	if store.State().SignedIn() || store.State().Loading {
		t.Fatalf("expected signed-out idle state")
	}

	if err := store.SignIn(ctx, "admin@ef.kr", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if v, ok, _ := storage.Get(AccessTokenKey); !ok || v != "up-access" {
		t.Fatalf("access token not persisted")
	}

	restored, _ := NewStore(client, storage, nil)
	if err := restored.Init(ctx); err != nil || !restored.State().SignedIn() {
		t.Fatalf("expected restore from storage, err=%v", err)
	}

	fb.allow("up-access", false)
	rejected, _ := NewStore(client, storage, nil)
	if err := rejected.Init(ctx); err != nil {
		t.Fatalf("init with dead token: %v", err)
	}
	if rejected.State().SignedIn() {
		t.Fatalf("expected dead token to sign out")
	}
	if _, ok, _ := storage.Get(RefreshTokenKey); ok {
		t.Fatalf("expected tokens cleared")
	}

	if err := store.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(seen) != 3 || seen[1].User == nil || seen[2].SignedIn() {
		t.Fatalf("unexpected notifications %+v", seen)
	}
}
