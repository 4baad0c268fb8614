package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Status string
}

func rowKey(r row) string { return r.ID }

func waitFor(t *testing.T, v *View[row], cond func(State[row]) bool) State[row] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := v.State(); cond(st) {
			return st
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached; state=%+v", v.State())
	return State[row]{}
}

func staticFetcher(rows []row, calls *atomic.Int32) Fetcher[row] {
	return func(ctx context.Context, q Query) (Result[row], error) {
		if calls != nil {
			calls.Add(1)
		}
		return Result[row]{Items: rows, Total: len(rows), Page: q.Page, PageSize: 10, Query: q}, nil
	}
}

func TestViewDistinguishesLoadingErrorAndEmpty(t *testing.T) {
	release := make(chan struct{})
	fail := errors.New("backend down")
	var shouldFail atomic.Bool
	v := NewView(func(ctx context.Context, q Query) (Result[row], error) {
		<-release
		if shouldFail.Load() {
			return Result[row]{}, fail
		}
		return Result[row]{Page: q.Page}, nil
	}, rowKey, Query{})
	defer v.Close()

	assert.Equal(t, StatusIdle, v.State().Status)
	v.Refresh()
	assert.Equal(t, StatusLoading, v.State().Status)
	assert.False(t, v.State().Empty(), "loading is not empty")

	release <- struct{}{}
	st := waitFor(t, v, func(s State[row]) bool { return s.Status == StatusReady })
	assert.True(t, st.Empty())
	assert.NoError(t, st.Err)

	shouldFail.Store(true)
	v.Refresh()
	release <- struct{}{}
	st = waitFor(t, v, func(s State[row]) bool { return s.Status == StatusError })
	assert.ErrorIs(t, st.Err, fail)
	assert.False(t, st.Empty(), "error is not empty")
}

func TestViewResetsPageOnSearchFilterAndSort(t *testing.T) {
	v := NewView(staticFetcher(nil, nil), rowKey, Query{Page: 4}, WithDebounce(0))
	defer v.Close()

	v.SetPage(3)
	assert.Equal(t, 3, v.State().Query.Page)
	v.SetFilter("status", "active")
	assert.Equal(t, 1, v.State().Query.Page)

	v.SetPage(2)
	v.SetSort("name", Desc)
	assert.Equal(t, 1, v.State().Query.Page)

	v.SetPage(5)
	v.SetSearch("kim")
	assert.Equal(t, 1, v.State().Query.Page)

	v.SetPage(2)
	v.ClearFilters()
	assert.Equal(t, 1, v.State().Query.Page)
	assert.Empty(t, v.State().Query.Filters)
}

func TestViewDebouncesSearchOnly(t *testing.T) {
	var calls atomic.Int32
	v := NewView(staticFetcher(nil, &calls), rowKey, Query{}, WithDebounce(40*time.Millisecond))
	defer v.Close()

	v.SetSearch("k")
	v.SetSearch("ki")
	v.SetSearch("kim")
	assert.Equal(t, int32(0), calls.Load(), "search must wait for the debounce")

	st := waitFor(t, v, func(s State[row]) bool { return s.Status == StatusReady })
	assert.Equal(t, "kim", st.Query.Search)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "rapid edits collapse into one fetch")

	v.SetPage(2)
	waitFor(t, v, func(s State[row]) bool { return calls.Load() == 2 })
}

func TestViewDropsStaleResponses(t *testing.T) {
	slow := make(chan struct{})
	var cancelled atomic.Bool
	v := NewView(func(ctx context.Context, q Query) (Result[row], error) {
		if q.Search == "old" {
			select {
			case <-slow:
			case <-ctx.Done():
				cancelled.Store(true)
			}
			return Result[row]{Items: []row{{ID: "stale"}}, Total: 1, Page: 1}, nil
		}
		return Result[row]{Items: []row{{ID: "fresh"}}, Total: 1, Page: 1}, nil
	}, rowKey, Query{}, WithDebounce(0))
	defer v.Close()

	v.SetSearch("old")
	v.SetSearch("new")
	st := waitFor(t, v, func(s State[row]) bool { return s.Status == StatusReady })
	require.Len(t, st.Result.Items, 1)
	assert.Equal(t, "fresh", st.Result.Items[0].ID)

	close(slow)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "fresh", v.State().Result.Items[0].ID)
	assert.True(t, cancelled.Load(), "superseded fetch must be cancelled")
}

func loadedView(t *testing.T) *View[row] {
	t.Helper()
	v := NewView(staticFetcher([]row{{ID: "r1", Status: "pending"}, {ID: "r2", Status: "pending"}}, nil), rowKey, Query{}, WithDebounce(0))
	v.Refresh()
	waitFor(t, v, func(s State[row]) bool { return s.Status == StatusReady })
	return v
}

func setStatus(status string) func(row) row {
	return func(r row) row {
		r.Status = status
		return r
	}
}

func TestViewMutateCommitsOnSuccess(t *testing.T) {
	v := loadedView(t)
	defer v.Close()

	err := v.Mutate(context.Background(), "r1", setStatus("approved"), func(context.Context) error { return nil })
	require.NoError(t, err)
	st := v.State()
	assert.Equal(t, "approved", st.Result.Items[0].Status)
	assert.Nil(t, st.ActionErr)
	assert.False(t, v.Busy("r1"))
}

func TestViewMutateRollsBackOnFailure(t *testing.T) {
	v := loadedView(t)
	defer v.Close()

	var seenOptimistic bool
	unsubscribe := v.Subscribe(func(s State[row]) {
		if len(s.Result.Items) > 0 && s.Result.Items[0].Status == "approved" && s.InFlight["r1"] {
			seenOptimistic = true
		}
	})
	defer unsubscribe()

	boom := errors.New("409 already decided")
	err := v.Mutate(context.Background(), "r1", setStatus("approved"), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	st := v.State()
	assert.True(t, seenOptimistic, "optimistic value should be visible while the call runs")
	assert.Equal(t, "pending", st.Result.Items[0].Status, "row must be restored")
	require.NotNil(t, st.ActionErr)
	assert.Equal(t, "r1", st.ActionErr.Key)
	assert.Equal(t, StatusReady, st.Status, "a failed action is not a load error")
	assert.False(t, st.InFlight["r1"], "row is re-enabled for retry")
}

func TestViewRefreshClearsActionError(t *testing.T) {
	v := loadedView(t)
	defer v.Close()

	err := v.Mutate(context.Background(), "r1", setStatus("approved"), func(context.Context) error { return errors.New("boom") })
	require.Error(t, err)
	require.NotNil(t, v.State().ActionErr)

	v.Refresh()
	st := waitFor(t, v, func(s State[row]) bool { return s.Status == StatusReady })
	assert.Nil(t, st.ActionErr)
	assert.Len(t, st.Result.Items, 2)
}

func TestViewMutateSingleInFlightPerRow(t *testing.T) {
	v := loadedView(t)
	defer v.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = v.Mutate(context.Background(), "r1", setStatus("approved"), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.True(t, v.Busy("r1"))
	err := v.Mutate(context.Background(), "r1", setStatus("rejected"), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInFlight)

	err = v.Mutate(context.Background(), "r2", setStatus("rejected"), func(context.Context) error { return nil })
	assert.NoError(t, err, "other rows are independent")

	close(release)
	wg.Wait()
	st := v.State()
	assert.Equal(t, "approved", st.Result.Items[0].Status)
	assert.Equal(t, "rejected", st.Result.Items[1].Status)
}

func TestViewMutateUnknownRow(t *testing.T) {
	v := loadedView(t)
	defer v.Close()
	err := v.Mutate(context.Background(), "missing", setStatus("x"), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestViewCloseStopsPendingSearch(t *testing.T) {
	var calls atomic.Int32
	v := NewView(staticFetcher(nil, &calls), rowKey, Query{}, WithDebounce(20*time.Millisecond))
	v.SetSearch("kim")
	v.Close()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.ErrorIs(t, v.Mutate(context.Background(), "r1", setStatus("x"), nil), ErrClosed)
}
