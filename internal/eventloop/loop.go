// Package eventloop runs callbacks cooperatively on a single goroutine.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpggio/timestudy/internal/domain/scrub"
)

var (
	// ErrStopped is returned by Call once the loop has exited.
	ErrStopped = errors.New("event loop stopped")

	// ErrPanicked is returned by Call when the callback panicked.
	ErrPanicked = errors.New("callback panicked")
)

// Loop owns a FIFO of callbacks executed one at a time by Run. Post and
// Call are safe from any goroutine; Call must not be used from inside a
// callback.
type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

// New creates a loop. Nothing executes until Run is called.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Run executes queued callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()
	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			l.invoke(fn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn. It reports false when the loop has already stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Once queues a single deferred callback.
func (l *Loop) Once(fn func()) {
	l.Post(fn)
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	posted := l.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", ErrPanicked, r)
				panic(r)
			}
		}()
		result <- fn()
	})
	if !posted {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Ticker is a periodic callback scheduled by Every.
type Ticker struct {
	stop    chan struct{}
	once    sync.Once
	stopped atomic.Bool
	queued  atomic.Bool
}

// Stop cancels the ticker. When called on the loop, no further tick runs.
func (t *Ticker) Stop() {
	t.stopped.Store(true)
	t.once.Do(func() { close(t.stop) })
}

// Every runs fn on the loop at the given interval. While a tick is
// queued but not yet executed, further ticks are dropped.
func (l *Loop) Every(interval time.Duration, fn func()) scrub.Timer {
	t := &Ticker{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !t.queued.CompareAndSwap(false, true) {
					continue
				}
				l.Post(func() {
					t.queued.Store(false)
					if t.stopped.Load() {
						return
					}
					fn()
				})
			}
		}
	}()
	return t
}
