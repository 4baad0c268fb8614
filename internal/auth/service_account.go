package auth

import (
	"context"
	"strings"

	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"go.uber.org/multierr"
)

// ServiceAccount signs background jobs into the backend without a BFF session.
type ServiceAccount struct {
	api      backend.API
	email    string
	password string
}

// NewServiceAccount builds a ServiceAccount from config.
func NewServiceAccount(api backend.API, cfg config.ServiceAccountConfig) (*ServiceAccount, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client required")
	}
	if !cfg.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service account credentials missing")
	}
	return &ServiceAccount{
		api:      api,
		email:    strings.ToLower(strings.TrimSpace(cfg.Email)),
		password: cfg.Password,
	}, nil
}

// Do signs in, runs fn with the upstream access token and signs out again.
func (a *ServiceAccount) Do(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	var upstream upstreamLoginResponse
	if err := a.api.Post(ctx, loginPath, "", upstreamCredentials{Email: a.email, Password: a.password}, &upstream); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "service account login")
	}
	if upstream.AccessToken == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend login returned no token")
	}
	if upstream.User.Role != enums.UserRoleAdmin {
		err := pkgerrors.New(pkgerrors.CodeForbidden, adminOnlyMessage)
		return multierr.Append(err, a.logout(ctx, upstream.upstreamTokens))
	}
	err := fn(ctx, upstream.AccessToken)
	return multierr.Append(err, a.logout(context.WithoutCancel(ctx), upstream.upstreamTokens))
}

func (a *ServiceAccount) logout(ctx context.Context, tokens upstreamTokens) error {
	body := upstreamRefreshBody{RefreshToken: tokens.RefreshToken}
	if err := a.api.Post(ctx, logoutPath, tokens.AccessToken, body, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "service account logout")
	}
	return nil
}
