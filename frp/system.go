package frp

import (
	"context"
	"sync"
	"time"

	"github.com/petermattis/goid"
	"golang.org/x/sync/errgroup"
)

// Tick is a logical instant. Every externally triggered update takes a fresh,
// strictly greater tick.
type Tick uint64

// OnErrorFunc receives the errors of asynchronous effects. The future of a
// failed effect stays pending.
type OnErrorFunc func(err error)

// System owns the logical clock and every node built on it. It is not safe
// for concurrent use, except for the inbox which effects post back into.
type System struct {
	clock     Tick
	onError   OnErrorFunc
	wallClock func() time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	effects errgroup.Group

	mu    sync.Mutex
	inbox []func()
	wake  chan struct{}

	observers *dlist[*observer]
	closed    bool

	// goroutine owning the System when it came from Default
	gid int64
}

type Option func(*System)

// WithOnError reports failed effects to fn.
func WithOnError(fn OnErrorFunc) Option {
	return func(sys *System) {
		sys.onError = fn
	}
}

// WithWallClock replaces time.Now as the source of the Time behavior.
func WithWallClock(now func() time.Time) Option {
	return func(sys *System) {
		sys.wallClock = now
	}
}

// WithContext sets the parent context handed to effects. Close cancels it.
func WithContext(ctx context.Context) Option {
	return func(sys *System) {
		sys.ctx = ctx
	}
}

func NewSystem(opts ...Option) *System {
	sys := &System{
		wallClock: time.Now,
		ctx:       context.Background(),
		wake:      make(chan struct{}, 1),
		observers: newDlist[*observer](),
	}
	for _, opt := range opts {
		opt(sys)
	}
	sys.ctx, sys.cancel = context.WithCancel(sys.ctx)
	return sys
}

var systems sync.Map

// Default returns the System of the calling goroutine, creating it on first
// use. It stays registered until it is closed.
func Default() *System {
	gid := goid.Get()
	if sys, ok := systems.Load(gid); ok {
		return sys.(*System)
	}
	sys := NewSystem()
	sys.gid = gid
	systems.Store(gid, sys)
	return sys
}

// Now reports the current logical time without advancing it.
func (sys *System) Now() Tick {
	return sys.clock
}

func (sys *System) tick() Tick {
	sys.clock++
	return sys.clock
}

// post queues fn to run on the engine's goroutine. Safe from any goroutine.
func (sys *System) post(fn func()) {
	sys.mu.Lock()
	sys.inbox = append(sys.inbox, fn)
	sys.mu.Unlock()

	select {
	case sys.wake <- struct{}{}:
	default:
	}
}

// Flush runs every queued completion and returns how many ran.
func (sys *System) Flush() int {
	ran := 0
	for {
		sys.mu.Lock()
		queued := sys.inbox
		sys.inbox = nil
		sys.mu.Unlock()

		if len(queued) == 0 {
			return ran
		}
		for _, fn := range queued {
			fn()
			ran++
		}
	}
}

// Run applies completions as they arrive until ctx is done.
func (sys *System) Run(ctx context.Context) error {
	for {
		sys.Flush()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sys.wake:
		}
	}
}

// AwaitFuture drives sys until f resolves or ctx is done. It listens to f for
// the duration of the call, so derived futures are activated as well.
func AwaitFuture[A any](ctx context.Context, f Future[A]) (A, error) {
	sys := f.n.sys
	var (
		v    any
		done bool
	)
	l := &pushFunc{fn: func(x any, _ Tick) { v, done = x, true }}
	f.n.addListener(l, sys.tick())
	defer f.n.removeListener(l)
	for {
		sys.Flush()
		if done {
			return as[A](v), nil
		}
		select {
		case <-ctx.Done():
			var zero A
			return zero, ctx.Err()
		case <-sys.wake:
		}
	}
}

// spawn runs an effect on its own goroutine and applies done on the engine's
// goroutine once it succeeds.
func (sys *System) spawn(run func(ctx context.Context) (any, error), done func(v any)) {
	ctx := sys.ctx
	sys.effects.Go(func() error {
		v, err := run(ctx)
		sys.post(func() {
			if err != nil {
				if sys.onError != nil {
					sys.onError(err)
				}
				return
			}
			done(v)
		})
		return nil
	})
}

// Close stops every observer, cancels the effect context and waits for
// running effects to return. Completions still queued are dropped.
func (sys *System) Close() error {
	if sys.closed {
		return nil
	}
	sys.closed = true
	if sys.gid != 0 {
		systems.CompareAndDelete(sys.gid, sys)
	}
	sys.observers.each(func(o *observer) {
		o.stop()
	})
	sys.cancel()
	err := sys.effects.Wait()

	sys.mu.Lock()
	sys.inbox = nil
	sys.mu.Unlock()
	return err
}

func sameSystem(sys *System, nodes ...*node) {
	for _, n := range nodes {
		if n.sys != sys {
			panic(ErrSystemMismatch)
		}
	}
}
