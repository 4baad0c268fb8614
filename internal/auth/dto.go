package auth

import (
	"github.com/evolutionflow/admin-bff/pkg/auth/session"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// LoginRequest captures the admin credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the opaque refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse contains the BFF tokens and the signed-in admin.
type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int               `json:"expires_in"`
	User         session.Principal `json:"user"`
}

// upstreamUser is the backend's AuthUser.
type upstreamUser struct {
	ID    backend.ID     `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  enums.UserRole `json:"role"`
}

func (u upstreamUser) principal() session.Principal {
	return session.Principal{ID: u.ID.String(), Email: u.Email, Name: u.Name, Role: u.Role}
}

type upstreamTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type upstreamLoginResponse struct {
	upstreamTokens
	User upstreamUser `json:"user"`
}

type upstreamCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type upstreamRefreshBody struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

const (
	loginPath   = "/auth/login"
	logoutPath  = "/auth/logout"
	refreshPath = "/auth/refresh"
	mePath      = "/users/me"
)
