package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohit83k/bngclients/internal/logger"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSweeper) Sweep(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 1, c.err
}

func (c *countingSweeper) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRun_SweepsUntilCancelled(t *testing.T) {
	s := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, s, 10*time.Millisecond, logger.Discard())
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	if s.count() < 2 {
		t.Errorf("expected at least 2 sweeps, got %d", s.count())
	}
}

func TestRun_KeepsGoingOnError(t *testing.T) {
	s := &countingSweeper{err: errors.New("redis is down")}
	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	Run(ctx, s, 10*time.Millisecond, logger.Discard())

	if s.count() < 2 {
		t.Errorf("expected sweeps to continue after errors, got %d", s.count())
	}
}
