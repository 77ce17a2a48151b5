package eventbus

import (
	"context"
	"sort"
	"sync"
)

// DefaultPriority is used when handlers are registered without an explicit
// priority. Lower values run earlier.
const DefaultPriority = 50

// Handler processes a dispatched event.
// Handlers receive the dispatch arguments as-is and return a Result.
// Panics inside a handler are not recovered by the bus; they propagate to
// the caller so the application's crash reporting layer can deal with them.
type Handler func(ctx context.Context, args ...any) Result

// Result is the tagged return value of a handler: either a value (possibly
// nil) or an explicit failure. The distinction matters for Pass and Grab.
type Result struct {
	value  any
	failed bool
}

// Value wraps v in a successful Result.
func Value(v any) Result {
	return Result{value: v}
}

// OK is a successful Result carrying no value.
func OK() Result {
	return Result{}
}

// Failure is the explicit failure sentinel.
func Failure() Result {
	return Result{failed: true}
}

// Failed reports whether the result is the failure sentinel.
func (r Result) Failed() bool {
	return r.failed
}

// Get returns the carried value and whether the result succeeded.
func (r Result) Get() (any, bool) {
	if r.failed {
		return nil, false
	}
	return r.value, true
}

// registration pairs a handler with its priority and insertion sequence.
// The sequence keeps sorting stable for equal priorities.
type registration struct {
	handler  Handler
	priority int
	seq      int
}

// Bus is a process-wide named-event registry. Handlers subscribe to an
// event name with a priority; Dispatch invokes them in ascending priority
// order (registration order for ties) and collects their results.
//
// Registration is expected at module-init time; the bus is safe for
// concurrent registration and dispatch, but within one request dispatch is
// a plain nested call tree with no scheduling.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	seq      int
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]registration)}
}

// Register adds a handler for the named event at the given priority.
// There is no uniqueness constraint and no way to remove a handler;
// registration never fails.
func (b *Bus) Register(event string, priority int, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	regs := append(b.handlers[event], registration{handler: h, priority: priority, seq: b.seq})
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	b.handlers[event] = regs
}

// On registers a handler at DefaultPriority.
func (b *Bus) On(event string, h Handler) {
	b.Register(event, DefaultPriority, h)
}

// Listeners reports whether at least one handler is registered for event.
// The router uses this to decide whether a route exists before dispatching.
func (b *Bus) Listeners(event string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event]) > 0
}

// Dispatch invokes every handler registered for event in priority order,
// passing args, and returns their results in invocation order. With no
// handlers it returns an empty slice.
func (b *Bus) Dispatch(ctx context.Context, event string, args ...any) []Result {
	b.mu.RLock()
	regs := b.handlers[event]
	b.mu.RUnlock()

	results := make([]Result, 0, len(regs))
	for _, reg := range regs {
		results = append(results, reg.handler(ctx, args...))
	}
	return results
}

// Grab dispatches the event and returns the last result's value.
// The second return is false when no handlers ran or the last result was
// the failure sentinel.
func (b *Bus) Grab(ctx context.Context, event string, args ...any) (any, bool) {
	results := b.Dispatch(ctx, event, args...)
	if len(results) == 0 {
		return nil, false
	}
	return results[len(results)-1].Get()
}

// Pass dispatches the event and reports whether the last result is not the
// failure sentinel. With zero handlers Pass returns true: a missing
// optional hook is harmless by contract, while a present handler that
// explicitly fails is not. Callers rely on this asymmetry; do not change it.
func (b *Bus) Pass(ctx context.Context, event string, args ...any) bool {
	results := b.Dispatch(ctx, event, args...)
	if len(results) == 0 {
		return true
	}
	return !results[len(results)-1].Failed()
}
