package fsm

import "github.com/vovakirdan/jam-starter/internal/core"

// State is one behaviour mode of an entity. The machine calls Enter and Exit
// around every transition and forwards per-frame events to the active state.
type State interface {
	Enter()
	Exit()
	Tick(dt float64)
	PhysicsTick(dt float64)
	HandleInput(in core.InputFrame)
}

// attacher is implemented by states that keep a reference to their machine.
type attacher[E any] interface {
	attach(m *Machine[E]) error
}

// Base is embedded by concrete states. It provides no-op callbacks and the
// non-owning back-reference to the machine the state is registered in.
type Base[E any] struct {
	machine *Machine[E]
}

func (b *Base[E]) attach(m *Machine[E]) error {
	if b.machine != nil && b.machine != m {
		return ErrStateAttached
	}
	b.machine = m
	return nil
}

// Machine returns the machine the state is registered in, or nil.
func (b *Base[E]) Machine() *Machine[E] { return b.machine }

// Entity returns the entity owning the machine.
func (b *Base[E]) Entity() E {
	if b.machine == nil {
		var zero E
		return zero
	}
	return b.machine.entity
}

// TransitionTo asks the owning machine to switch state.
func (b *Base[E]) TransitionTo(name string) error {
	if b.machine == nil {
		return &UnknownStateError{Name: name}
	}
	return b.machine.TransitionTo(name)
}

func (b *Base[E]) Enter() {}
func (b *Base[E]) Exit() {}
func (b *Base[E]) Tick(float64) {}
func (b *Base[E]) PhysicsTick(float64) {}
func (b *Base[E]) HandleInput(core.InputFrame) {}

// claimer is implemented by states that are not tied to an entity type but
// still belong to a single machine.
type claimer interface {
	claim(owner any) error
}

// Funcs is a State assembled from optional callbacks. Like Base, a Funcs
// value can be registered in one machine only.
type Funcs struct {
	OnEnter       func()
	OnExit        func()
	OnTick        func(dt float64)
	OnPhysicsTick func(dt float64)
	OnInput       func(in core.InputFrame)

	owner any
}

func (f *Funcs) claim(owner any) error {
	if f.owner != nil && f.owner != owner {
		return ErrStateAttached
	}
	f.owner = owner
	return nil
}

func (f *Funcs) Enter() {
	if f.OnEnter != nil {
		f.OnEnter()
	}
}

func (f *Funcs) Exit() {
	if f.OnExit != nil {
		f.OnExit()
	}
}

func (f *Funcs) Tick(dt float64) {
	if f.OnTick != nil {
		f.OnTick(dt)
	}
}

func (f *Funcs) PhysicsTick(dt float64) {
	if f.OnPhysicsTick != nil {
		f.OnPhysicsTick(dt)
	}
}

func (f *Funcs) HandleInput(in core.InputFrame) {
	if f.OnInput != nil {
		f.OnInput(in)
	}
}
