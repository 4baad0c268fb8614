package listview

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrInFlight is returned when a mutation for the same row is still outstanding.
	ErrInFlight = errors.New("action already in progress for this row")
	// ErrRowNotFound is returned when the mutated row is not on the current page.
	ErrRowNotFound = errors.New("row not loaded")
	// ErrClosed is returned once the view has been torn down.
	ErrClosed = errors.New("list view closed")
)

// Status is the load state of a view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State is an immutable snapshot delivered to subscribers.
type State[T any] struct {
	Status Status
	Query  Query
	Result Result[T]
	// Err is the last fetch failure; set only when Status is StatusError.
	Err error
	// ActionErr is the last failed mutation. It does not change Status and is
	// cleared by the next mutation or fetch.
	ActionErr *ActionError
	InFlight  map[string]bool
}

// Empty reports a successful load with zero rows.
func (s State[T]) Empty() bool {
	return s.Status == StatusReady && s.Result.Total == 0
}

// ActionError ties a failed mutation to its row.
type ActionError struct {
	Key string
	Err error
}

func (e *ActionError) Error() string { return e.Key + ": " + e.Err.Error() }

func (e *ActionError) Unwrap() error { return e.Err }

// Fetcher loads one page for a query.
type Fetcher[T any] func(ctx context.Context, q Query) (Result[T], error)

type ViewOption func(*viewOptions)

type viewOptions struct {
	debounce time.Duration
}

// WithDebounce delays search-driven fetches until input pauses.
func WithDebounce(d time.Duration) ViewOption {
	return func(o *viewOptions) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// View owns the query state and loaded page of one list screen. Search edits
// are debounced; filter, sort and page edits fetch immediately. Each fetch
// cancels its predecessor and stale responses are dropped.
//
// Subscribers are invoked synchronously and must not call back into the view.
type View[T any] struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	fetch    Fetcher[T]
	keyOf    func(T) string
	debounce time.Duration

	state    State[T]
	gen      uint64
	version  uint64
	cancel   context.CancelFunc
	timer    *time.Timer
	inflight map[string]bool
	subs     map[int]func(State[T])
	nextSub  int
	closed   bool
}

func NewView[T any](fetch Fetcher[T], keyOf func(T) string, initial Query, opts ...ViewOption) *View[T] {
	o := viewOptions{debounce: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	if initial.Page < 1 {
		initial.Page = 1
	}
	return &View[T]{
		fetch:    fetch,
		keyOf:    keyOf,
		debounce: o.debounce,
		state:    State[T]{Status: StatusIdle, Query: initial.Clone()},
		inflight: map[string]bool{},
		subs:     map[int]func(State[T]){},
	}
}

// State returns the current snapshot.
func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Subscribe registers fn for every state change and returns its cancel func.
func (v *View[T]) Subscribe(fn func(State[T])) func() {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Refresh re-runs the current query immediately.
func (v *View[T]) Refresh() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.stopTimerLocked()
	v.startFetchLocked()
	v.mu.Unlock()
	v.emit()
}

// SetSearch updates the search text, resets to page 1 and schedules a fetch.
func (v *View[T]) SetSearch(text string) {
	v.mu.Lock()
	if v.closed || v.state.Query.Search == text {
		v.mu.Unlock()
		return
	}
	v.state.Query.Search = text
	v.state.Query.Page = 1
	v.stopTimerLocked()
	if v.debounce <= 0 {
		v.startFetchLocked()
	} else {
		var t *time.Timer
		t = time.AfterFunc(v.debounce, func() { v.fireSearch(t) })
		v.timer = t
	}
	v.mu.Unlock()
	v.emit()
}

// SetFilter sets one filter selection; an empty value clears it.
func (v *View[T]) SetFilter(key, value string) {
	v.update(func(q *Query) {
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		if value == "" {
			delete(q.Filters, key)
		} else {
			q.Filters[key] = value
		}
		q.Page = 1
	})
}

// ClearFilters drops every filter selection.
func (v *View[T]) ClearFilters() {
	v.update(func(q *Query) {
		q.Filters = nil
		q.Page = 1
	})
}

// SetSort changes the sort column and direction.
func (v *View[T]) SetSort(key string, dir Direction) {
	v.update(func(q *Query) {
		q.SortKey = key
		q.SortDir = dir
		q.Page = 1
	})
}

// SetPage moves to another page without touching the other inputs.
func (v *View[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.update(func(q *Query) { q.Page = page })
}

func (v *View[T]) update(mutate func(*Query)) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	q := v.state.Query.Clone()
	mutate(&q)
	v.state.Query = q
	v.stopTimerLocked()
	v.startFetchLocked()
	v.mu.Unlock()
	v.emit()
}

// Busy reports whether a mutation for key is outstanding.
func (v *View[T]) Busy(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inflight[key]
}

// Mutate applies an optimistic change to the row identified by key, runs call,
// and restores the previous row if call fails. Only one mutation per key may
// be outstanding; other keys proceed independently.
func (v *View[T]) Mutate(ctx context.Context, key string, apply func(T) T, call func(context.Context) error) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.inflight[key] {
		v.mu.Unlock()
		return ErrInFlight
	}
	idx := v.indexLocked(key)
	if idx < 0 {
		v.mu.Unlock()
		return ErrRowNotFound
	}
	previous := v.state.Result.Items[idx]
	v.replaceLocked(idx, apply(previous))
	v.inflight[key] = true
	v.state.ActionErr = nil
	version := v.version
	v.mu.Unlock()
	v.emit()

	err := call(ctx)

	v.mu.Lock()
	delete(v.inflight, key)
	if err != nil {
		// A reload since the optimistic write already replaced the row.
		if version == v.version {
			if idx := v.indexLocked(key); idx >= 0 {
				v.replaceLocked(idx, previous)
			}
		}
		v.state.ActionErr = &ActionError{Key: key, Err: err}
	}
	v.mu.Unlock()
	v.emit()
	return err
}

// Close cancels pending timers and fetches and drops subscribers.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.stopTimerLocked()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.subs = map[int]func(State[T]){}
}

func (v *View[T]) startFetchLocked() {
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.state.Status = StatusLoading
	v.state.Err = nil
	v.state.ActionErr = nil
	q := v.state.Query.Clone()

	go func() {
		result, err := v.fetch(ctx, q)
		v.mu.Lock()
		if v.closed || gen != v.gen {
			v.mu.Unlock()
			return
		}
		cancel()
		v.cancel = nil
		if err != nil {
			v.state.Status = StatusError
			v.state.Err = err
			v.state.Result = Result[T]{}
		} else {
			v.state.Status = StatusReady
			v.state.Result = result
			// The fetcher may have normalized the page (default sort etc).
			v.state.Query.Page = result.Page
			if result.Page == 0 {
				v.state.Query.Page = q.Page
			}
		}
		v.version++
		v.mu.Unlock()
		v.emit()
	}()
}

func (v *View[T]) fireSearch(t *time.Timer) {
	v.mu.Lock()
	if v.closed || v.timer != t {
		v.mu.Unlock()
		return
	}
	v.timer = nil
	v.startFetchLocked()
	v.mu.Unlock()
	v.emit()
}

func (v *View[T]) stopTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *View[T]) indexLocked(key string) int {
	for i, item := range v.state.Result.Items {
		if v.keyOf(item) == key {
			return i
		}
	}
	return -1
}

// replaceLocked swaps one row in a fresh slice so earlier snapshots stay intact.
func (v *View[T]) replaceLocked(idx int, item T) {
	items := make([]T, len(v.state.Result.Items))
	copy(items, v.state.Result.Items)
	items[idx] = item
	v.state.Result.Items = items
}

func (v *View[T]) snapshotLocked() State[T] {
	s := v.state
	s.Query = v.state.Query.Clone()
	s.InFlight = make(map[string]bool, len(v.inflight))
	for k := range v.inflight {
		s.InFlight[k] = true
	}
	return s
}

func (v *View[T]) emit() {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	state := v.snapshotLocked()
	subs := make([]func(State[T]), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
