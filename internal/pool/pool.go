// Package pool provides a reusable-instance pool for spawned entities.
//
// Instances live in exactly one of two disjoint sets: free or active.
// Acquire pops the most recently released instance (LIFO) so the pool's
// footprint tracks peak concurrent use rather than total spawns. New
// instances are created through the factory only when the free set is empty
// and the optional size bound allows it.
//
// A Pool is not safe for concurrent use.
package pool

import (
	"io"

	"github.com/charmbracelet/log"
)

// Activator is implemented by instances that react to leaving the free set.
type Activator interface {
	Activate()
}

// Deactivator is implemented by instances that react to returning to the free set.
type Deactivator interface {
	Deactivate()
}

// Destroyer is implemented by instances that release resources at Teardown.
type Destroyer interface {
	Destroy()
}

// Factory creates one fresh, inactive instance.
type Factory[T any] func() T

// Hooks are host callbacks fired around ownership changes. They run after
// the instance's own Activate/Deactivate methods, if any.
type Hooks[T any] struct {
	OnActivate   func(T)
	OnDeactivate func(T)
	OnDestroy    func(T)
}

// Stats is a point-in-time view of a pool.
type Stats struct {
	Free     int
	Active   int
	Total    int
	Max      int
	Created  int
	Acquired int
	Released int
	Recycled int
}

type slot struct {
	active bool
	seq    uint64 // activation order, used to find the oldest active instance
}

// Pool owns the free and active sets for one entity type.
type Pool[T comparable] struct {
	name       string
	factory    Factory[T]
	hooks      Hooks[T]
	free       []T
	slots      map[T]*slot
	active     int
	maxSize    int
	seq        uint64
	configured bool
	stats      Stats
	logger     *log.Logger
}

// Option configures a Pool.
type Option[T comparable] func(*Pool[T])

// WithHooks installs activation, deactivation and destroy callbacks.
func WithHooks[T comparable](h Hooks[T]) Option[T] {
	return func(p *Pool[T]) { p.hooks = h }
}

// WithLogger sets the pool logger.
func WithLogger[T comparable](l *log.Logger) Option[T] {
	return func(p *Pool[T]) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an unconfigured pool. name is only used in log output.
func New[T comparable](name string, opts ...Option[T]) *Pool[T] {
	p := &Pool[T]{
		name:   name,
		slots:  make(map[T]*slot),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configure pre-populates initialSize inactive instances. maxSize bounds the
// total number of instances; 0 means unbounded. It may be called once.
func (p *Pool[T]) Configure(factory Factory[T], initialSize, maxSize int) error {
	if p.configured {
		return ErrAlreadyConfigured
	}
	if factory == nil {
		return ErrNilFactory
	}
	if initialSize < 0 || maxSize < 0 || (maxSize > 0 && initialSize > maxSize) {
		return &InvalidSizeError{Initial: initialSize, Max: maxSize}
	}

	p.factory = factory
	p.maxSize = maxSize
	p.free = make([]T, 0, max(initialSize, maxSize))
	for i := 0; i < initialSize; i++ {
		x, err := p.create()
		if err != nil {
			clear(p.slots)
			p.free = nil
			p.factory = nil
			p.maxSize = 0
			p.stats = Stats{}
			return err
		}
		p.free = append(p.free, x)
	}
	p.configured = true

	p.logger.Debug("pool configured", "pool", p.name, "initial", initialSize, "max", maxSize)
	return nil
}

// create adds a factory instance to the pool. An instance the pool already
// owns is rejected so it can never sit in both sets.
func (p *Pool[T]) create() (T, error) {
	x := p.factory()
	if _, ok := p.slots[x]; ok {
		var zero T
		return zero, ErrDuplicateInstance
	}
	p.slots[x] = &slot{}
	p.stats.Created++
	return x, nil
}

// Acquire hands out an inactive instance, creating one if the bound allows.
func (p *Pool[T]) Acquire() (T, error) {
	var zero T
	if !p.configured {
		return zero, ErrNotConfigured
	}

	var x T
	switch {
	case len(p.free) > 0:
		last := len(p.free) - 1
		x = p.free[last]
		p.free[last] = zero
		p.free = p.free[:last]
	case p.maxSize == 0 || len(p.slots) < p.maxSize:
		var err error
		if x, err = p.create(); err != nil {
			return zero, err
		}
	default:
		return zero, &PoolExhaustedError{Max: p.maxSize}
	}

	s := p.slots[x]
	p.seq++
	s.active = true
	s.seq = p.seq
	p.active++
	p.stats.Acquired++

	if a, ok := any(x).(Activator); ok {
		a.Activate()
	}
	if p.hooks.OnActivate != nil {
		p.hooks.OnActivate(x)
	}
	return x, nil
}

// AcquireOrRecycle is Acquire with a recycle-oldest fallback: when the pool
// is exhausted it releases the longest-active instance and hands it out
// again. recycled reports whether that happened.
func (p *Pool[T]) AcquireOrRecycle() (x T, recycled bool, err error) {
	x, err = p.Acquire()
	if err == nil || !IsExhausted(err) {
		return x, false, err
	}

	oldest, ok := p.Oldest()
	if !ok {
		return x, false, err
	}
	if err := p.Release(oldest); err != nil {
		return x, false, err
	}
	p.stats.Recycled++
	p.logger.Debug("pool recycled oldest", "pool", p.name)

	x, err = p.Acquire()
	return x, err == nil, err
}

// Release returns an active instance to the free set.
func (p *Pool[T]) Release(x T) error {
	s, ok := p.slots[x]
	if !ok {
		return &NotActiveError{Foreign: true}
	}
	if !s.active {
		return &NotActiveError{}
	}

	if d, ok := any(x).(Deactivator); ok {
		d.Deactivate()
	}
	if p.hooks.OnDeactivate != nil {
		p.hooks.OnDeactivate(x)
	}

	s.active = false
	p.active--
	p.free = append(p.free, x)
	p.stats.Released++
	return nil
}

// Oldest returns the instance that has been active the longest.
func (p *Pool[T]) Oldest() (T, bool) {
	var (
		oldest T
		best   uint64
		found  bool
	)
	for x, s := range p.slots {
		if s.active && (!found || s.seq < best) {
			oldest, best, found = x, s.seq, true
		}
	}
	return oldest, found
}

// IsActive reports whether x is currently in the active set.
func (p *Pool[T]) IsActive(x T) bool {
	s, ok := p.slots[x]
	return ok && s.active
}

// Owns reports whether x was created by this pool and not yet torn down.
func (p *Pool[T]) Owns(x T) bool {
	_, ok := p.slots[x]
	return ok
}

// Active returns the active instances ordered from oldest to newest.
func (p *Pool[T]) Active() []T {
	type entry struct {
		x   T
		seq uint64
	}
	entries := make([]entry, 0, p.active)
	for x, s := range p.slots {
		if s.active {
			entries = append(entries, entry{x, s.seq})
		}
	}
	// insertion sort: pools are small
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].seq < entries[j-1].seq; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.x
	}
	return out
}

// Free returns a copy of the free stack, bottom first.
func (p *Pool[T]) Free() []T {
	out := make([]T, len(p.free))
	copy(out, p.free)
	return out
}

// Len returns the total number of instances owned by the pool.
func (p *Pool[T]) Len() int { return len(p.slots) }

// Stats returns counters and set sizes.
func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Free = len(p.free)
	s.Active = p.active
	s.Total = len(p.slots)
	s.Max = p.maxSize
	return s
}

// Teardown deactivates active instances, destroys every instance and
// returns the pool to its unconfigured state.
func (p *Pool[T]) Teardown() {
	for _, x := range p.Active() {
		//nolint:errcheck // every x comes from the active set
		p.Release(x)
	}
	for x := range p.slots {
		if d, ok := any(x).(Destroyer); ok {
			d.Destroy()
		}
		if p.hooks.OnDestroy != nil {
			p.hooks.OnDestroy(x)
		}
	}
	p.logger.Debug("pool torn down", "pool", p.name, "instances", len(p.slots))

	clear(p.slots)
	p.free = nil
	p.active = 0
	p.factory = nil
	p.maxSize = 0
	p.configured = false
	p.stats = Stats{}
}
