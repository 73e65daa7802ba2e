// Package state holds the observable values shared between the view layer
// and event handlers of one browser session.
package state

import "github.com/vango-dev/starter/pkg/reactive"

// State is the per-session state container. Each field is an independent
// observable cell.
type State struct {
	// Path is the current route path, base prefix stripped.
	Path *reactive.Signal[string]

	// Counter is the demo counter.
	Counter *reactive.IntSignal

	// Submitting is true while the contact form submission is in flight.
	Submitting *reactive.BoolSignal

	// Submitted is true once the contact form submission resolved.
	Submitted *reactive.BoolSignal
}

// Option configures a State at construction.
type Option func(*options)

type options struct {
	path      string
	counter   int
	debugHook func(*State)
}

// WithPath sets the initial path. Default "/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithCounter sets the initial counter value.
func WithCounter(n int) Option {
	return func(o *options) {
		o.counter = n
	}
}

// WithDebugHook registers fn to be called once with the new State. It is the
// place to expose state to debugging tools.
func WithDebugHook(fn func(*State)) Option {
	return func(o *options) {
		o.debugHook = fn
	}
}

// New creates a State.
func New(opts ...Option) *State {
	o := options{path: "/"}
	for _, opt := range opts {
		opt(&o)
	}

	s := &State{
		Path:       reactive.NewSignal(o.path),
		Counter:    reactive.NewIntSignal(o.counter),
		Submitting: reactive.NewBoolSignal(false),
		Submitted:  reactive.NewBoolSignal(false),
	}
	if o.debugHook != nil {
		o.debugHook(s)
	}
	return s
}

// Increment adds 1 to the counter.
func Increment(s *State) {
	s.Counter.Inc()
}

// Decrement subtracts 1 from the counter.
func Decrement(s *State) {
	s.Counter.Dec()
}

// SetRoute replaces the current path. Setting the current path again does
// not notify path subscribers.
func SetRoute(s *State, path string) {
	s.Path.Set(path)
}

// Snapshot is a point-in-time copy of a State, suitable for JSON.
type Snapshot struct {
	Path       string `json:"path"`
	Counter    int    `json:"counter"`
	Submitting bool   `json:"submitting"`
	Submitted  bool   `json:"submitted"`
}

// Snapshot returns the current values.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Path:       s.Path.Get(),
		Counter:    s.Counter.Get(),
		Submitting: s.Submitting.Get(),
		Submitted:  s.Submitted.Get(),
	}
}
