// Package loader tracks the retrieval of documentation content for the slug
// a consumer is currently showing.
//
// A Loader holds the shared collaborators (resolver, fetcher, logging,
// metrics). Each consumer gets its own View. View.Load starts a request and
// returns a Handle; a newer Load cancels the previous request and bumps the
// View's generation, so a late result from an older request is never
// applied.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/aruvili/agamdocs/metrics"
	"github.com/aruvili/agamdocs/resolve"
)

// DefaultFallbackText replaces the content of a failed retrieval.
const DefaultFallbackText = "# Error loading documentation"

// DefaultTimeout bounds a single retrieval.
const DefaultTimeout = 15 * time.Second

// ErrCanceled is the result of a request that was superseded by a newer
// Load, canceled through its Handle, or whose caller context ended.
var ErrCanceled = errors.New("loader: request canceled")

// errSuperseded is the cause for requests replaced by a newer Load or
// dropped by Close. Their late results are counted stale, not canceled.
var errSuperseded = fmt.Errorf("%w: superseded", ErrCanceled)

// Logger is the diagnostic channel for retrieval failures. Both echo.Logger
// and gommon's *log.Logger satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Loader creates Views that share one resolver and fetcher.
type Loader struct {
	resolver     *resolve.Resolver
	fetcher      Fetcher
	logger       Logger
	recorder     metrics.Recorder
	timeout      time.Duration
	fallbackText string
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(ld *Loader) {
		if r != nil {
			ld.recorder = r
		}
	}
}

// WithTimeout bounds every retrieval. Zero disables the bound, leaving a
// hung retrieval Pending until a newer Load supersedes it.
func WithTimeout(d time.Duration) Option {
	return func(ld *Loader) {
		if d >= 0 {
			ld.timeout = d
		}
	}
}

// WithFallbackText overrides the placeholder shown on failure.
func WithFallbackText(text string) Option {
	return func(ld *Loader) {
		ld.fallbackText = text
	}
}

// New returns a Loader resolving slugs with r and retrieving content with f.
func New(r *resolve.Resolver, f Fetcher, opts ...Option) *Loader {
	ld := &Loader{
		resolver:     r,
		fetcher:      f,
		logger:       log.New("loader"),
		recorder:     metrics.NoopRecorder{},
		timeout:      DefaultTimeout,
		fallbackText: DefaultFallbackText,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Resolver returns the resolver the Loader was built with.
func (l *Loader) Resolver() *resolve.Resolver {
	return l.resolver
}

// FallbackText returns the placeholder used for failed retrievals.
func (l *Loader) FallbackText() string {
	return l.fallbackText
}

// NewView returns an idle View. Its State is Pending with no slug until the
// first Load.
func (l *Loader) NewView() *View {
	return &View{l: l, observers: make(map[int]func(State))}
}

// LoadSync performs a single load and waits for its terminal state. If ctx
// ends first the result is Failed.
func (l *Loader) LoadSync(ctx context.Context, slug string) State {
	v := l.NewView()
	defer v.Close()
	h := v.Load(ctx, slug)
	st, err := h.Wait(ctx)
	if err != nil {
		return State{Slug: slug, ResourceID: h.resourceID, Status: Failed, Text: l.fallbackText}
	}
	return st
}

// fetch calls the fetcher and converts a panic into an error.
func (l *Loader) fetch(ctx context.Context, resourceID string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch %s: panic: %v", resourceID, r)
		}
	}()
	return l.fetcher.Fetch(ctx, resourceID)
}

// View is the content state of one consumer, such as a rendered page.
//
// Observers are invoked synchronously, one transition at a time and in
// transition order. They may call State but must not call Load, Subscribe
// or Close.
type View struct {
	l *Loader

	emitMu sync.Mutex // serializes transitions with their notifications

	mu        sync.Mutex
	gen       uint64
	state     State
	current   *Handle
	observers map[int]func(State)
	nextID    int
	closed    bool
}

// Handle is one load request.
type Handle struct {
	gen        uint64
	slug       string
	resourceID string
	cancel     context.CancelCauseFunc
	done       chan struct{}

	// Written before done is closed.
	state   State
	err     error
	applied bool
}

// Load requests slug. The View moves to Pending immediately, any request
// still in flight is canceled, and the retrieval runs in the background.
// An empty slug means the default page.
func (v *View) Load(ctx context.Context, slug string) *Handle {
	r := v.l.resolver
	id := r.Resolve(slug)
	if _, ok := r.Lookup(slug); !ok && resolve.Normalize(slug) != "" {
		v.l.recorder.IncFallbackResolution()
		v.l.logger.Debugf("slug %q has no route, using %s", slug, id)
	}

	base, cancel := context.WithCancelCause(ctx)
	h := &Handle{slug: slug, resourceID: id, cancel: cancel, done: make(chan struct{})}
	pending := State{Slug: slug, ResourceID: id, Status: Pending}

	v.emitMu.Lock()
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		v.emitMu.Unlock()
		cancel(ErrCanceled)
		h.err = ErrCanceled
		close(h.done)
		return h
	}
	if v.current != nil {
		v.current.cancel(errSuperseded)
	}
	v.gen++
	h.gen = v.gen
	v.current = h
	v.state = pending
	obs := v.snapshotObservers()
	v.mu.Unlock()
	notify(obs, pending)
	v.emitMu.Unlock()

	runCtx, stop := base, context.CancelFunc(func() {})
	if v.l.timeout > 0 {
		runCtx, stop = context.WithTimeout(base, v.l.timeout)
	}
	go v.run(runCtx, base, stop, h, pending)
	return h
}

func (v *View) run(ctx, base context.Context, stop context.CancelFunc, h *Handle, st State) {
	defer stop()
	defer close(h.done)

	start := time.Now()
	text, err := v.l.fetch(ctx, st.ResourceID)
	v.l.recorder.ObserveFetchDuration(time.Since(start), err == nil)

	if base.Err() != nil && (err != nil || !errors.Is(context.Cause(base), errSuperseded)) {
		v.canceled(h, base, st)
		return
	}
	if err != nil {
		v.l.logger.Errorf("load %q (%s) failed: %v", st.Slug, st.ResourceID, err)
		st.Status = Failed
		st.Text = v.l.fallbackText
	} else {
		st.Status = Ready
		st.Text = text
	}
	h.state = st

	switch v.apply(base, h.gen, st) {
	case applyCanceled:
		h.state = State{}
		v.canceled(h, base, st)
		return
	case applyStale:
		v.l.recorder.IncLoadOutcome(metrics.OutcomeStale)
		v.l.logger.Debugf("discarding stale result %s (gen %d)", st, h.gen)
		return
	}
	h.applied = true
	if st.Status == Ready {
		v.l.recorder.IncLoadOutcome(metrics.OutcomeReady)
	} else {
		v.l.recorder.IncLoadOutcome(metrics.OutcomeFailed)
	}
}

// canceled finishes h without touching the View. The request context ends
// only through Cancel, a newer Load, Close or the caller's own context. The
// fetch timeout lives on a child context and still yields Failed.
func (v *View) canceled(h *Handle, base context.Context, st State) {
	h.err = ErrCanceled
	if cause := context.Cause(base); !errors.Is(cause, ErrCanceled) {
		// The caller's context ended, e.g. a client disconnect.
		h.err = fmt.Errorf("%w: %w", ErrCanceled, cause)
	}
	v.l.recorder.IncLoadOutcome(metrics.OutcomeCanceled)
	v.l.logger.Debugf("load %s (gen %d) canceled: %v", st, h.gen, context.Cause(base))
}

type applyResult int

const (
	applyOK applyResult = iota
	applyStale
	applyCanceled
)

// apply publishes st if the request is still live and gen is still the
// View's current generation.
func (v *View) apply(base context.Context, gen uint64, st State) applyResult {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.closed || gen != v.gen {
		v.mu.Unlock()
		return applyStale
	}
	if base.Err() != nil {
		v.mu.Unlock()
		return applyCanceled
	}
	v.state = st
	obs := v.snapshotObservers()
	v.mu.Unlock()

	notify(obs, st)
	return applyOK
}

func (v *View) snapshotObservers() []func(State) {
	if len(v.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(v.observers))
	for id := range v.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(State), len(ids))
	for i, id := range ids {
		out[i] = v.observers[id]
	}
	return out
}

func notify(obs []func(State), st State) {
	for _, fn := range obs {
		fn(st)
	}
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Generation returns the number of Load calls made on the View.
func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// Subscribe registers fn for every subsequent transition and returns a
// function that removes it.
func (v *View) Subscribe(fn func(State)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			v.mu.Unlock()
		})
	}
}

// Close cancels the request in flight. Later results are discarded and
// later Loads return already-canceled handles.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.current != nil {
		v.current.cancel(errSuperseded)
	}
}

// Cancel aborts the request. A canceled request leaves the View's state
// untouched even when the fetcher ignores its context and returns text; the
// hosting layer cancels the old handle and then issues a
// newer Load.
func (h *Handle) Cancel() {
	h.cancel(ErrCanceled)
}

// Done is closed when the request has finished, successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the request finishes or ctx ends. It returns the
// request's own terminal state, which the View may have discarded as stale;
// see Applied. A canceled request returns ErrCanceled.
func (h *Handle) Wait(ctx context.Context) (State, error) {
	select {
	case <-h.done:
		return h.state, h.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Applied reports whether the request's result became the View's state.
// It is only meaningful after Done is closed.
func (h *Handle) Applied() bool {
	select {
	case <-h.done:
		return h.applied
	default:
		return false
	}
}

// Generation returns the View generation this request was issued under.
func (h *Handle) Generation() uint64 {
	return h.gen
}

// Slug returns the slug as requested.
func (h *Handle) Slug() string {
	return h.slug
}

// ResourceID returns the resource the request retrieves.
func (h *Handle) ResourceID() string {
	return h.resourceID
}
