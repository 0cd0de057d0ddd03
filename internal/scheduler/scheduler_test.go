package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newstyping/internal/article/model"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) Cleanup(context.Context) (model.CleanupResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "cleanup")
	return model.CleanupResult{DeletedCount: 1}, r.err
}

func (r *recorder) Refresh(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "refresh")
	return 2, r.err
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestRunOnceCleansBeforeRefreshing(t *testing.T) {
	rec := &recorder{}
	New(time.Hour, rec, rec).RunOnce(context.Background())
	assert.Equal(t, []string{"cleanup", "refresh"}, rec.snapshot())
}

func TestRunOnceContinuesAfterCleanupFailure(t *testing.T) {
	rec := &recorder{err: errors.New("db down")}
	New(time.Hour, rec, rec).RunOnce(context.Background())
	assert.Equal(t, []string{"cleanup", "refresh"}, rec.snapshot())
}

func TestRunTicksUntilCancelled(t *testing.T) {
	rec := &recorder{}
	s := New(10*time.Millisecond, rec, rec)
	ticks := make(chan struct{}, 16)
	s.tick = func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not tick")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, len(rec.snapshot()), 4)
}

func TestDisabledReturnsImmediately(t *testing.T) {
	rec := &recorder{}
	s := New(0, rec, rec)
	assert.False(t, s.Enabled())
	s.Run(context.Background())
	assert.Empty(t, rec.snapshot())
}
