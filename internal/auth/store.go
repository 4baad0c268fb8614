package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/evolutionflow/admin-bff/pkg/auth/session"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

// Keys under which the console persists the upstream tokens.
const (
	AccessTokenKey  = "ef_access_token"
	RefreshTokenKey = "ef_refresh_token"
)

// TokenStorage is a small persistent key/value store.
type TokenStorage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

// State is what the console knows about the signed-in admin.
type State struct {
	User        *session.Principal
	AccessToken string
	Loading     bool
}

// SignedIn reports whether a user and token are present.
func (s State) SignedIn() bool {
	return s.User != nil && s.AccessToken != ""
}

// Store is the single observable holder of the console session. It talks to
// the platform backend directly.
type Store struct {
	api     backend.API
	storage TokenStorage
	logg    *logger.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore builds a store in the loading state; call Init to restore.
func NewStore(api backend.API, storage TokenStorage, logg *logger.Logger) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	if storage == nil {
		return nil, fmt.Errorf("token storage is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		api:     api,
		storage: storage,
		logg:    logg,
		state:   State{Loading: true},
		subs:    map[int]func(State){},
	}, nil
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every state change and returns the unsubscribe func.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(next State) {
	s.mu.Lock()
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
}

// Init restores the session from storage. Any failure clears the stored tokens.
func (s *Store) Init(ctx context.Context) error {
	token, ok, err := s.storage.Get(AccessTokenKey)
	if err != nil || !ok || token == "" {
		s.set(State{})
		return err
	}
	var me backend.Flexible[upstreamUser]
	if err := s.api.Get(ctx, mePath, nil, token, &me); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stored session rejected")
		if rmErr := s.storage.Remove(AccessTokenKey, RefreshTokenKey); rmErr != nil {
			s.set(State{})
			return rmErr
		}
		s.set(State{})
		return nil
	}
	principal := me.Value.principal()
	s.set(State{User: &principal, AccessToken: token})
	return nil
}

// SignIn logs in against the backend and persists the tokens.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	var upstream upstreamLoginResponse
	if err := s.api.Post(ctx, loginPath, "", upstreamCredentials{Email: email, Password: password}, &upstream); err != nil {
		return err
	}
	if upstream.User.Role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, adminOnlyMessage)
	}
	if err := s.storage.Set(AccessTokenKey, upstream.AccessToken); err != nil {
		return err
	}
	if err := s.storage.Set(RefreshTokenKey, upstream.RefreshToken); err != nil {
		return err
	}
	principal := upstream.User.principal()
	s.set(State{User: &principal, AccessToken: upstream.AccessToken})
	return nil
}

// SignOut calls the backend best effort, then forgets the tokens.
func (s *Store) SignOut(ctx context.Context) error {
	token, _, _ := s.storage.Get(AccessTokenKey)
	refresh, _, _ := s.storage.Get(RefreshTokenKey)
	if token != "" {
		if err := s.api.Post(ctx, logoutPath, token, upstreamRefreshBody{RefreshToken: refresh}, nil); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "upstream logout failed")
		}
	}
	err := s.storage.Remove(AccessTokenKey, RefreshTokenKey)
	s.set(State{})
	return err
}

// FileStorage persists keys as a JSON object in one file.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage stores tokens at path, creating parent directories on write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return out, nil
}

func (f *FileStorage) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *FileStorage) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	return f.write(values)
}
