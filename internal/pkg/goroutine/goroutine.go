package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/gnelabs/authgate/internal/pkg/stacktrace"
)

// DefaultMaxPerCPU is the per-CPU slot count used when NewManager receives a
// non-positive limit.
const DefaultMaxPerCPU = 100

// Manager runs background work with a bounded amount of concurrency.
//
// Tasks that return an error are collected and surfaced by Wait during
// shutdown; a panicking task is recovered and logged instead of taking the
// process down.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu   sync.Mutex
	errs []error

	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager allowing at most max concurrent tasks.
func NewManager(max int) *Manager {
	if max < 1 {
		max = runtime.NumCPU() * DefaultMaxPerCPU
	}

	return &Manager{sema: make(chan struct{}, max)}
}

// Go schedules fn when a slot is available. When the manager is saturated or
// already closed the task is dropped with a warning, never blocked on.
func (m *Manager) Go(pCtx context.Context, fn func(ctx context.Context) error) {
	if m == nil {
		return
	}

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.closed {
		slog.WarnContext(pCtx, "goroutine manager is closed, dropping task")
		return
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(pCtx, "goroutine manager saturated, dropping task")
		return
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.sema
			m.wg.Done()

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if frames := stacktrace.InternalFrames(stack); len(frames) > 0 {
					slog.ErrorContext(pCtx, "panic in background task", "because", rvr, "stack", frames)
				} else {
					slog.ErrorContext(pCtx, "panic in background task", "because", rvr, "stack", string(stack))
				}
			}
		}()

		select {
		case <-pCtx.Done():
			slog.WarnContext(pCtx, "background task canceled", "because", pCtx.Err())
		default:
			if err := fn(pCtx); err != nil {
				m.mu.Lock()
				m.errs = append(m.errs, err)
				m.mu.Unlock()
			}
		}
	}()
}

// Wait closes the manager to new work, blocks until running tasks finish, and
// returns any errors they reported.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.stateMu.Lock()
	m.closed = true
	m.stateMu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
