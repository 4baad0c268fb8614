package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/evolutionflow/admin-bff/api/responses"
	"github.com/evolutionflow/admin-bff/internal/audit"
	pkgAuth "github.com/evolutionflow/admin-bff/pkg/auth"
	"github.com/evolutionflow/admin-bff/pkg/config"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

// SessionResolver maps a BFF session onto the upstream token held for it.
type SessionResolver interface {
	UpstreamToken(ctx context.Context, sessionID string) (string, error)
}

// BearerToken extracts the token of an Authorization header, or "".
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// Auth validates the BFF bearer token, resolves its session and seeds the
// request context with the admin identity and upstream token. A missing
// token and a dead session both answer 401 "login required".
func Auth(cfg config.JWTConfig, sessions SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "login required"))
				return
			}

			sessionID := claims.SessionID()
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}

			upstream, err := sessions.UpstreamToken(r.Context(), sessionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), claims.UserID, string(claims.Role), sessionID, upstream)
			ctx = audit.WithActor(ctx, audit.Actor{ID: claims.UserID, Email: claims.Email})

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
				ctx = logg.WithSessionID(ctx, sessionID)
				ctx = logg.WithField(ctx, "actor_role", string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
