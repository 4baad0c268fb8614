package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/evolutionflow/admin-bff/pkg/auth"
	"github.com/evolutionflow/admin-bff/pkg/auth/session"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	loginRequiredMessage      = "login required"
	adminOnlyMessage          = "admin access required"
)

// Service signs admins in against the platform backend and keeps their
// upstream tokens in a server-side session.
type Service interface {
	SignIn(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Restore resolves the current admin of a session, refreshing the upstream
	// token once when it expired. A dead session is cleared.
	Restore(ctx context.Context, sessionID string) (*session.Principal, error)
	Refresh(ctx context.Context, sessionID, refreshToken string) (*LoginResponse, error)
	SignOut(ctx context.Context, sessionID string) error
	// UpstreamToken returns the backend access token held for a session.
	UpstreamToken(ctx context.Context, sessionID string) (string, error)
}

type sessionManager interface {
	Generate(ctx context.Context, rec session.Record) (string, string, error)
	Load(ctx context.Context, sessionID string) (session.Record, error)
	UpdateUpstream(ctx context.Context, sessionID, accessToken, refreshToken string) error
	Rotate(ctx context.Context, oldSessionID, provided string) (string, string, session.Record, error)
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Backend        backend.API
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	api      backend.API
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the admin auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		api:      params.Backend,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		logg:     logg,
		now:      now,
	}, nil
}

func (s *service) SignIn(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var upstream upstreamLoginResponse
	err := s.api.Post(ctx, loginPath, "", upstreamCredentials{Email: email, Password: req.Password}, &upstream)
	if err != nil {
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Status < 500 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
		}
		return nil, err
	}
	if upstream.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend login returned no token")
	}
	if upstream.User.Role != enums.UserRoleAdmin {
		s.logoutUpstream(ctx, upstream.AccessToken, upstream.RefreshToken)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, adminOnlyMessage)
	}

	principal := upstream.User.principal()
	sessionID, refreshToken, err := s.sessions.Generate(ctx, session.Record{
		UpstreamAccessToken:  upstream.AccessToken,
		UpstreamRefreshToken: upstream.RefreshToken,
		User:                 principal,
		CreatedAt:            s.now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}
	return s.issue(sessionID, refreshToken, principal)
}

func (s *service) issue(sessionID, refreshToken string, principal session.Principal) (*LoginResponse, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: principal.ID,
		Email:  principal.Email,
		Role:   principal.Role,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
		User:         principal,
	}, nil
}

func (s *service) Restore(ctx context.Context, sessionID string) (*session.Principal, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.me(ctx, rec.UpstreamAccessToken)
	if backend.IsUnauthorized(err) && rec.UpstreamRefreshToken != "" {
		var tokens upstreamTokens
		if refreshErr := s.api.Post(ctx, refreshPath, "", upstreamRefreshBody{RefreshToken: rec.UpstreamRefreshToken}, &tokens); refreshErr == nil && tokens.AccessToken != "" {
			if err := s.sessions.UpdateUpstream(ctx, sessionID, tokens.AccessToken, tokens.RefreshToken); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update session")
			}
			user, err = s.me(ctx, tokens.AccessToken)
		}
	}
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.clear(ctx, sessionID)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, loginRequiredMessage)
		}
		return nil, err
	}
	if user.Role != enums.UserRoleAdmin {
		s.clear(ctx, sessionID)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, adminOnlyMessage)
	}
	principal := user.principal()
	return &principal, nil
}

func (s *service) me(ctx context.Context, token string) (upstreamUser, error) {
	var out backend.Flexible[upstreamUser]
	if err := s.api.Get(ctx, mePath, nil, token, &out); err != nil {
		return upstreamUser{}, err
	}
	return out.Value, nil
}

func (s *service) Refresh(ctx context.Context, sessionID, refreshToken string) (*LoginResponse, error) {
	newID, newToken, rec, err := s.sessions.Rotate(ctx, sessionID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, loginRequiredMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}
	return s.issue(newID, newToken, rec.User)
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	rec, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	s.logoutUpstream(ctx, rec.UpstreamAccessToken, rec.UpstreamRefreshToken)
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) UpstreamToken(ctx context.Context, sessionID string) (string, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return rec.UpstreamAccessToken, nil
}

func (s *service) load(ctx context.Context, sessionID string) (session.Record, error) {
	rec, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.Record{}, pkgerrors.New(pkgerrors.CodeUnauthorized, loginRequiredMessage)
		}
		return session.Record{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	return rec, nil
}

// logoutUpstream is best effort; the local session goes away regardless.
func (s *service) logoutUpstream(ctx context.Context, accessToken, refreshToken string) {
	if accessToken == "" {
		return
	}
	if err := s.api.Post(ctx, logoutPath, accessToken, upstreamRefreshBody{RefreshToken: refreshToken}, nil); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "upstream logout failed")
	}
}

func (s *service) clear(ctx context.Context, sessionID string) {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clear session failed")
	}
}
