// Package fsm implements a finite state machine for entity behaviour.
//
// A Machine owns a set of named states for one entity and routes the host's
// per-frame events (logic tick, physics tick, input) to the active state.
// TransitionTo is the only way to change state: it always calls Exit on the
// outgoing state, moves the current pointer, then calls Enter on the incoming
// one. A transition requested from inside Enter runs to completion before the
// outer call returns, so chained "instant" states are safe.
//
// Machines are not safe for concurrent use; the host serialises access.
package fsm

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/core"
)

// DefaultMaxChain bounds nested transitions requested from Enter.
const DefaultMaxChain = 32

// TransitionFunc observes a completed pointer move from one state to another.
// from is empty for the initial state.
type TransitionFunc func(from, to string)

type options struct {
	logger   *log.Logger
	maxChain int
}

// Option configures a Machine.
type Option func(*options)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxChain overrides DefaultMaxChain.
func WithMaxChain(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChain = n
		}
	}
}

// Machine coordinates exactly one active State for one entity of type E.
type Machine[E any] struct {
	entity    E
	states    map[string]State
	current   string
	previous  string
	active    bool
	exiting   bool
	depth     int
	observers []TransitionFunc
	opts      options
}

// New creates an empty machine for entity.
func New[E any](entity E, opts ...Option) *Machine[E] {
	o := options{
		logger:   log.New(io.Discard),
		maxChain: DefaultMaxChain,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Machine[E]{
		entity: entity,
		states: make(map[string]State),
		opts:   o,
	}
}

// Entity returns the entity this machine drives.
func (m *Machine[E]) Entity() E { return m.entity }

// Register adds a state under a unique name.
func (m *Machine[E]) Register(name string, s State) error {
	if s == nil {
		return ErrNilState
	}
	if _, exists := m.states[name]; exists {
		return &DuplicateStateError{Name: name}
	}
	switch a := s.(type) {
	case attacher[E]:
		if err := a.attach(m); err != nil {
			return err
		}
	case claimer:
		if err := a.claim(m); err != nil {
			return err
		}
	}
	m.states[name] = s
	return nil
}

// MustRegister is Register that panics on error, for static setup code.
func (m *Machine[E]) MustRegister(name string, s State) *Machine[E] {
	if err := m.Register(name, s); err != nil {
		panic(err)
	}
	return m
}

// SetInitial designates and enters the starting state. It must be called
// before the first tick. Calling it again behaves like TransitionTo.
func (m *Machine[E]) SetInitial(name string) error {
	return m.TransitionTo(name)
}

// TransitionTo switches the active state. On an unknown name the machine is
// left untouched. Re-entering the current state still fires Exit then Enter.
func (m *Machine[E]) TransitionTo(name string) error {
	next, ok := m.states[name]
	if !ok {
		return &UnknownStateError{Name: name}
	}
	if m.exiting {
		return ErrTransitionInExit
	}
	if m.depth >= m.opts.maxChain {
		return &TransitionDepthError{Name: name, Limit: m.opts.maxChain}
	}

	m.depth++
	defer func() { m.depth-- }()

	from := ""
	if m.active {
		from = m.current
		m.exiting = true
		m.states[from].Exit()
		m.exiting = false
	}

	m.previous = from
	m.current = name
	m.active = true

	m.opts.logger.Debug("transition", "from", from, "to", name, "depth", m.depth)
	for _, fn := range m.observers {
		fn(from, name)
	}

	next.Enter()
	return nil
}

// OnTransition registers an observer called after every pointer move and
// before the incoming state's Enter.
func (m *Machine[E]) OnTransition(fn TransitionFunc) {
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

// Tick forwards a logic tick to the active state.
func (m *Machine[E]) Tick(dt float64) {
	if s := m.CurrentState(); s != nil {
		s.Tick(dt)
	}
}

// PhysicsTick forwards a physics tick to the active state.
func (m *Machine[E]) PhysicsTick(dt float64) {
	if s := m.CurrentState(); s != nil {
		s.PhysicsTick(dt)
	}
}

// HandleInput forwards an input frame to the active state.
func (m *Machine[E]) HandleInput(in core.InputFrame) {
	if s := m.CurrentState(); s != nil {
		s.HandleInput(in)
	}
}

// Current returns the active state's name, or "" before SetInitial.
func (m *Machine[E]) Current() string {
	if !m.active {
		return ""
	}
	return m.current
}

// Previous returns the name of the state active before the last transition.
func (m *Machine[E]) Previous() string { return m.previous }

// CurrentState returns the active State, or nil before SetInitial.
func (m *Machine[E]) CurrentState() State {
	if !m.active {
		return nil
	}
	return m.states[m.current]
}

// Is reports whether name is the active state.
func (m *Machine[E]) Is(name string) bool {
	return m.active && m.current == name
}

// Has reports whether name is registered.
func (m *Machine[E]) Has(name string) bool {
	_, ok := m.states[name]
	return ok
}

// States returns the registered names in sorted order.
func (m *Machine[E]) States() []string {
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
