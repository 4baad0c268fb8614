package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
)

func newTestServiceAccount(t *testing.T, role enums.UserRole, password string) (*ServiceAccount, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{role: role, validTokens: map[string]bool{}}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	account, err := NewServiceAccount(client, config.ServiceAccountConfig{Email: " Jobs@EF.kr ", Password: password})
	if err != nil {
		t.Fatalf("NewServiceAccount: %v", err)
	}
	return account, fb
}

func TestNewServiceAccountRequiresCredentials(t *testing.T) {
	client, err := backend.NewClient("http://localhost:1")
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	_, err = NewServiceAccount(client, config.ServiceAccountConfig{Email: "jobs@ef.kr"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceAccountDoPassesTokenAndLogsOut(t *testing.T) {
	account, fb := newTestServiceAccount(t, enums.UserRoleAdmin, "pw")

	var got string
	err := account.Do(context.Background(), func(ctx context.Context, token string) error {
		got = token
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "up-access" {
		t.Fatalf("expected upstream token, got %q", got)
	}
	if fb.logoutCount() != 1 {
		t.Fatalf("expected one logout, got %d", fb.logoutCount())
	}
}

func TestServiceAccountDoReturnsCallbackErrorAfterLogout(t *testing.T) {
	account, fb := newTestServiceAccount(t, enums.UserRoleAdmin, "pw")
	boom := errors.New("boom")

	err := account.Do(context.Background(), func(context.Context, string) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if fb.logoutCount() != 1 {
		t.Fatalf("expected logout after failure, got %d", fb.logoutCount())
	}
}

func TestServiceAccountDoRejectsNonAdmin(t *testing.T) {
	account, fb := newTestServiceAccount(t, enums.UserRoleMember, "pw")

	called := false
	err := account.Do(context.Background(), func(context.Context, string) error {
		called = true
		return nil
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if called {
		t.Fatal("callback must not run for a non-admin account")
	}
	if fb.logoutCount() != 1 {
		t.Fatalf("expected logout for rejected account, got %d", fb.logoutCount())
	}
}

func TestServiceAccountDoLoginFailure(t *testing.T) {
	account, _ := newTestServiceAccount(t, enums.UserRoleAdmin, "wrong")

	err := account.Do(context.Background(), func(context.Context, string) error {
		t.Fatal("callback must not run")
		return nil
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
