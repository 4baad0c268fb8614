package requests

import (
	"context"
	"sync"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/redis"
)

const decisionLockTTL = 30 * time.Second

// LockClient is the redis surface used to serialize decisions across replicas.
type LockClient interface {
	redis.LockStore
	LockKey(parts ...string) string
}

// inflight allows one decision per request id at a time. The local map covers
// this process; the redis lock, when configured, covers other replicas.
type inflight struct {
	mu     sync.Mutex
	active map[string]struct{}
	locks  LockClient
	logg   *logger.Logger
}

func newInflight(locks LockClient, logg *logger.Logger) *inflight {
	if logg == nil {
		logg = logger.Nop()
	}
	return &inflight{active: map[string]struct{}{}, locks: locks, logg: logg}
}

func errInProgress() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "action already in progress")
}

func (g *inflight) acquire(ctx context.Context, kind enums.RequestKind, id string) (func(), error) {
	key := string(kind) + ":" + id

	g.mu.Lock()
	if _, busy := g.active[key]; busy {
		g.mu.Unlock()
		return nil, errInProgress()
	}
	g.active[key] = struct{}{}
	g.mu.Unlock()

	local := func() {
		g.mu.Lock()
		delete(g.active, key)
		g.mu.Unlock()
	}
	if g.locks == nil {
		return local, nil
	}

	lock, err := redis.NewLock(g.locks, g.locks.LockKey("request", string(kind), id), decisionLockTTL)
	if err != nil {
		local()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build decision lock")
	}
	ok, err := lock.Acquire(ctx)
	if err != nil {
		local()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire decision lock")
	}
	if !ok {
		local()
		return nil, errInProgress()
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			g.logg.Warn(g.logg.WithField(ctx, "error", err.Error()), "release decision lock")
		}
		local()
	}, nil
}

func (g *inflight) busy(kind enums.RequestKind, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.active[string(kind)+":"+id]
	return ok
}
