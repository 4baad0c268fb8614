package auth

import (
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Email  string
	Role   enums.UserRole
	// JTI is the server-side session id; a fresh uuid is used when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to the admin SPA.
type AccessTokenClaims struct {
	UserID string         `json:"user_id"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the jti, which keys the server-side session record.
func (c *AccessTokenClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
