package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	redisclient "github.com/evolutionflow/admin-bff/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionNotFound     = errors.New("session not found")
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Principal is the signed-in platform user as reported by the backend.
type Principal struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name,omitempty"`
	Role  enums.UserRole `json:"role"`
}

// Record is what the BFF keeps per signed-in admin. Upstream tokens never leave the server.
type Record struct {
	UpstreamAccessToken  string    `json:"upstream_access_token"`
	UpstreamRefreshToken string    `json:"upstream_refresh_token"`
	User                 Principal `json:"user"`
	RefreshDigest        string    `json:"refresh_digest"`
	CreatedAt            time.Time `json:"created_at"`
}

// Manager stores session records in Redis keyed by session id (the JWT jti).
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	key   []byte
	now   func() time.Time
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := cfg.AccessTokenTTL(); ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required to key refresh digests")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
		key:   digestKey(cfg.Secret),
		now:   time.Now,
	}, nil
}

// Generate stores rec under a new session id and returns the id plus the opaque refresh token.
func (m *Manager) Generate(ctx context.Context, rec Record) (string, string, error) {
	if strings.TrimSpace(rec.User.ID) == "" {
		return "", "", fmt.Errorf("session user is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}
	sessionID := NewSessionID()
	rec.RefreshDigest = m.digest(token)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now().UTC()
	}
	if err := m.save(ctx, sessionID, rec); err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Load returns the record for sessionID or ErrSessionNotFound.
func (m *Manager) Load(ctx context.Context, sessionID string) (Record, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Record{}, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Record{}, ErrSessionNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

// UpdateUpstream replaces the upstream token pair of an existing session.
func (m *Manager) UpdateUpstream(ctx context.Context, sessionID, accessToken, refreshToken string) error {
	rec, err := m.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	rec.UpstreamAccessToken = accessToken
	if refreshToken != "" {
		rec.UpstreamRefreshToken = refreshToken
	}
	return m.save(ctx, sessionID, rec)
}

// Rotate validates the provided refresh token, invalidates the prior session and
// moves its record under a new session id with a new refresh token.
func (m *Manager) Rotate(ctx context.Context, oldSessionID, provided string) (string, string, Record, error) {
	if strings.TrimSpace(oldSessionID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", Record{}, ErrInvalidRefreshToken
	}

	rec, err := m.Load(ctx, oldSessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", "", Record{}, ErrInvalidRefreshToken
		}
		return "", "", Record{}, err
	}

	if subtle.ConstantTimeCompare([]byte(rec.RefreshDigest), []byte(m.digest(provided))) != 1 {
		return "", "", Record{}, ErrInvalidRefreshToken
	}

	newToken, err := generateRefreshToken()
	if err != nil {
		return "", "", Record{}, err
	}
	newSessionID := NewSessionID()
	rec.RefreshDigest = m.digest(newToken)
	if err := m.save(ctx, newSessionID, rec); err != nil {
		return "", "", Record{}, err
	}
	if err := m.store.Del(ctx, m.keyer.SessionKey(oldSessionID)); err != nil {
		return "", "", Record{}, err
	}
	return newSessionID, newToken, rec, nil
}

// Revoke deletes the session record.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// HasSession reports whether the session id still has a live record.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces the identifier used as the JWT jti and Redis key suffix.
func NewSessionID() string {
	return uuid.NewString()
}

func (m *Manager) save(ctx context.Context, sessionID string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(payload), m.ttl)
}

func (m *Manager) digest(token string) string {
	h, err := blake2b.New256(m.key)
	if err != nil {
		// key length is bounded by digestKey
		panic(err)
	}
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// digestKey fits secrets of any length into blake2b's 64 byte key limit.
func digestKey(secret string) []byte {
	if len(secret) <= blake2b.Size {
		return []byte(secret)
	}
	sum := blake2b.Sum256([]byte(secret))
	return sum[:]
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
