package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"

	"walletcore/internal/logging"
)

// ErrResetWhileRunning is returned by Reset when an operation is in flight.
var ErrResetWhileRunning = errors.New("action: reset while running")

// Func is the operation an action runs. It receives a context that is
// detached from the caller's cancellation but keeps its values.
type Func[T any] func(ctx context.Context) (T, error)

// Option configures an Action.
type Option func(*options)

type options struct {
	logger               *clog.Logger
	cancelWhenUnobserved bool
}

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(l *clog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCancelWhenUnobserved cancels the in-flight operation's context once
// every subscriber and waiter that showed interest in it has gone away.
func WithCancelWhenUnobserved() Option {
	return func(o *options) { o.cancelWhenUnobserved = true }
}

// Action is a single-flight wrapper around an operation producing a T.
// The zero value is not usable; construct with New.
type Action[T any] struct {
	name string
	opts options
	log  *clog.Logger

	mu      sync.Mutex
	state   State[T]
	last    State[T] // last terminal state, Idle when none
	current *run[T]
	queued  *run[T] // follow-up to an abandoned current run
	subs    map[*Subscription[T]]struct{}
}

type run[T any] struct {
	done   chan struct{}
	result State[T] // written once, before done is closed

	ctx context.Context
	fn  Func[T]

	cancel    context.CancelFunc
	interest  int  // attached subscribers and waiters
	abandoned bool // cancelled after losing every observer
}

// New returns an idle action. name identifies it in logs.
func New[T any](name string, opts ...Option) *Action[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Action[T]{
		name: name,
		opts: o,
		log:  logging.OrDiscard(o.logger).With("action", name),
		subs: make(map[*Subscription[T]]struct{}),
	}
}

// Name returns the name given to New.
func (a *Action[T]) Name() string { return a.name }

// Run starts fn unless an operation is already in flight, in which case the
// returned handle refers to that operation and fn is ignored. Callers that
// need per-argument isolation must use separate actions.
//
// If the in-flight operation was cancelled because nobody observed it, Run
// does not join it. fn is queued instead and starts as soon as the
// cancelled operation unwinds; later callers join that queued run.
//
// Run never blocks on fn and never returns its error; use the handle or a
// subscription to observe the outcome. A nil fn is a programming error.
func (a *Action[T]) Run(ctx context.Context, fn Func[T]) *Handle[T] {
	if fn == nil {
		panic(fmt.Sprintf("action %s: Run called with nil func", a.name))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.current == nil:
		r := &run[T]{done: make(chan struct{}), ctx: ctx, fn: fn}
		a.startLocked(r)
		return &Handle[T]{owner: a, r: r}
	case !a.current.abandoned:
		a.log.Debug("joining in-flight run")
		return &Handle[T]{owner: a, r: a.current}
	case a.queued != nil:
		a.log.Debug("joining queued run")
		return &Handle[T]{owner: a, r: a.queued}
	default:
		a.log.Debug("in-flight run was abandoned, queueing a new one")
		a.queued = &run[T]{done: make(chan struct{}), ctx: ctx, fn: fn}
		return &Handle[T]{owner: a, r: a.queued}
	}
}

// startLocked makes r the current run and launches it. a.mu must be held.
func (a *Action[T]) startLocked(r *run[T]) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(r.ctx))
	r.cancel = cancel
	r.interest += len(a.subs)
	a.current = r
	a.setLocked(State[T]{Status: Running})

	go a.execute(runCtx, r)
}

func (a *Action[T]) execute(ctx context.Context, r *run[T]) {
	start := time.Now()
	a.log.Debug("run started")

	value, err := invoke(ctx, r.fn)

	var st State[T]
	if err != nil {
		st = State[T]{Status: Failed, Err: err}
		a.log.Warn("run failed", "err", err, "elapsed", time.Since(start))
	} else {
		st = State[T]{Status: Succeeded, Value: value}
		a.log.Debug("run succeeded", "elapsed", time.Since(start))
	}

	a.mu.Lock()
	r.result = st
	r.fn, r.ctx = nil, nil
	a.current = nil
	a.last = st
	a.setLocked(st)
	close(r.done)
	if q := a.queued; q != nil {
		a.queued = nil
		a.startLocked(q)
	}
	a.mu.Unlock()

	r.cancel()
}

// invoke runs fn and converts a panic into an error so that the Running
// period still ends in a terminal state.
func invoke[T any](ctx context.Context, fn Func[T]) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			value, err = zero, fmt.Errorf("action panicked: %v", p)
		}
	}()
	return fn(ctx)
}

// setLocked records st and queues it for every subscriber. a.mu must be held.
func (a *Action[T]) setLocked(st State[T]) {
	a.state = st
	for s := range a.subs {
		s.push(st)
	}
}

// Subscribe attaches an observer. The current state is delivered first.
// Every subscription owns a delivery goroutine that only exits on Close, so
// callers must Close each subscription they no longer read.
func (a *Action[T]) Subscribe() *Subscription[T] {
	s := newSubscription(a)

	a.mu.Lock()
	a.subs[s] = struct{}{}
	if a.current != nil {
		a.current.interest++
	}
	s.push(a.state)
	a.mu.Unlock()

	go s.pump()
	return s
}

func (a *Action[T]) unsubscribe(s *Subscription[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.subs[s]; !ok {
		return
	}
	delete(a.subs, s)
	if a.current != nil {
		a.releaseLocked(a.current)
	}
}

// acquire registers a waiter on r if r is in flight or queued.
func (a *Action[T]) acquire(r *run[T]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != r && a.queued != r {
		return false
	}
	r.interest++
	return true
}

func (a *Action[T]) release(r *run[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch r {
	case a.current:
		a.releaseLocked(r)
	case a.queued:
		r.interest--
	}
}

func (a *Action[T]) releaseLocked(r *run[T]) {
	r.interest--
	if r.interest > 0 || !a.opts.cancelWhenUnobserved || r.abandoned {
		return
	}
	a.log.Debug("no observers left, cancelling run")
	r.abandoned = true
	r.cancel()
}

// Reset clears a cached terminal state so that observers see Idle again.
// It must not be called while an operation is in flight.
func (a *Action[T]) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		return ErrResetWhileRunning
	}
	a.last = State[T]{}
	if a.state.Status != Idle {
		a.setLocked(State[T]{})
	}
	return nil
}

// State returns the current state without blocking.
func (a *Action[T]) State() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Value returns the value of the last terminal state if it succeeded.
func (a *Action[T]) Value() (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last.Status != Succeeded {
		var zero T
		return zero, false
	}
	return a.last.Value, true
}

// Err returns the error of the last terminal state if it failed.
func (a *Action[T]) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last.Status != Failed {
		return nil
	}
	return a.last.Err
}
