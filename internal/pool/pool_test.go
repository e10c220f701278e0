package pool_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jam-starter/internal/pool"
)

type bullet struct {
	id          int
	visible     bool
	activations int
	deactivs    int
	destroyed   bool
}

func (b *bullet) Activate() { b.visible = true; b.activations++ }
func (b *bullet) Deactivate() { b.visible = false; b.deactivs++ }
func (b *bullet) Destroy() { b.destroyed = true }

func newPool(t *testing.T, initial, maxSize int, opts ...pool.Option[*bullet]) *pool.Pool[*bullet] {
	t.Helper()
	p := pool.New("bullets", opts...)
	next := 0
	require.NoError(t, p.Configure(func() *bullet {
		next++
		return &bullet{id: next}
	}, initial, maxSize))
	return p
}

// requireDisjoint checks free ∩ active = ∅ and the size bound.
func requireDisjoint(t *testing.T, p *pool.Pool[*bullet]) {
	t.Helper()
	active := make(map[*bullet]bool)
	for _, b := range p.Active() {
		active[b] = true
	}
	for _, b := range p.Free() {
		require.False(t, active[b], "instance %d in both sets", b.id)
	}
	st := p.Stats()
	require.Equal(t, st.Total, st.Free+st.Active)
	if st.Max > 0 {
		require.LessOrEqual(t, st.Total, st.Max)
	}
}

func TestConfigure(t *testing.T) {
	p := newPool(t, 3, 5)
	st := p.Stats()
	assert.Equal(t, 3, st.Free)
	assert.Equal(t, 0, st.Active)
	assert.Equal(t, 3, st.Created)

	for _, b := range p.Free() {
		assert.False(t, b.visible, "pre-populated instances start inactive")
		assert.Zero(t, b.activations)
	}

	err := p.Configure(func() *bullet { return &bullet{} }, 1, 1)
	assert.ErrorIs(t, err, pool.ErrAlreadyConfigured)
	assert.Equal(t, 3, p.Len())
}

func TestConfigureValidation(t *testing.T) {
	p := pool.New[*bullet]("x")
	assert.ErrorIs(t, p.Configure(nil, 0, 0), pool.ErrNilFactory)

	var sizeErr *pool.InvalidSizeError
	require.ErrorAs(t, p.Configure(func() *bullet { return &bullet{} }, 4, 2), &sizeErr)
	assert.Equal(t, 4, sizeErr.Initial)

	_, err := p.Acquire()
	assert.ErrorIs(t, err, pool.ErrNotConfigured)
}

func TestScenarioExhaustAndReuse(t *testing.T) {
	p := newPool(t, 2, 2)

	a, err := p.Acquire()
	require.NoError(t, err)
	b, err := p.Acquire()
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	_, err = p.Acquire()
	require.Error(t, err)
	assert.True(t, pool.IsExhausted(err))
	requireDisjoint(t, p)

	require.NoError(t, p.Release(a))
	c, err := p.Acquire()
	require.NoError(t, err)
	assert.Same(t, a, c, "the just-released instance is reused first")
	requireDisjoint(t, p)
}

func TestExhaustedOnMaxPlusOne(t *testing.T) {
	const maxSize = 7
	p := newPool(t, 0, maxSize)
	for i := 0; i < maxSize; i++ {
		_, err := p.Acquire()
		require.NoError(t, err, "acquire %d", i)
	}
	_, err := p.Acquire()
	var ex *pool.PoolExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, maxSize, ex.Max)
	assert.Equal(t, maxSize, p.Stats().Created)
}

func TestUnboundedGrows(t *testing.T) {
	p := newPool(t, 1, 0)
	for i := 0; i < 50; i++ {
		_, err := p.Acquire()
		require.NoError(t, err)
	}
	assert.Equal(t, 50, p.Stats().Active)
}

func TestReleaseErrors(t *testing.T) {
	p := newPool(t, 2, 0)

	foreign := &bullet{id: 99}
	err := p.Release(foreign)
	var na *pool.NotActiveError
	require.ErrorAs(t, err, &na)
	assert.True(t, na.Foreign)

	x, err := p.Acquire()
	require.NoError(t, err)
	require.NoError(t, p.Release(x))
	before := p.Stats()

	err = p.Release(x)
	require.ErrorAs(t, err, &na)
	assert.False(t, na.Foreign)
	assert.True(t, pool.IsNotActive(err))

	after := p.Stats()
	assert.Equal(t, before, after, "rejected release must not change the sets")
	assert.Equal(t, 1, x.deactivs, "hooks are not fired on a rejected release")
	requireDisjoint(t, p)
}

func TestRoundTripRestoresSets(t *testing.T) {
	var activated, deactivated []*bullet
	p := newPool(t, 3, 3, pool.WithHooks(pool.Hooks[*bullet]{
		OnActivate:   func(b *bullet) { activated = append(activated, b) },
		OnDeactivate: func(b *bullet) { deactivated = append(deactivated, b) },
	}))
	freeBefore := p.Free()

	x, err := p.Acquire()
	require.NoError(t, err)
	assert.True(t, x.visible)
	assert.True(t, p.IsActive(x))
	require.NoError(t, p.Release(x))

	assert.Equal(t, freeBefore, p.Free())
	assert.Empty(t, p.Active())
	assert.Equal(t, []*bullet{x}, activated)
	assert.Equal(t, []*bullet{x}, deactivated)
	assert.Equal(t, 1, x.activations)
	assert.Equal(t, 1, x.deactivs)
	assert.False(t, x.visible)
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := newPool(t, 2, 6)
	var held []*bullet

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			x, err := p.Acquire()
			if err != nil {
				require.True(t, pool.IsExhausted(err))
				require.Len(t, held, 6)
				break
			}
			held = append(held, x)
		case 2:
			if len(held) == 0 {
				break
			}
			k := rng.Intn(len(held))
			require.NoError(t, p.Release(held[k]))
			held = append(held[:k], held[k+1:]...)
		case 3:
			// Misuse: release something already free, if any.
			if free := p.Free(); len(free) > 0 {
				require.True(t, pool.IsNotActive(p.Release(free[0])))
			}
		}
		requireDisjoint(t, p)
		require.Equal(t, len(held), p.Stats().Active)
	}
}

func TestAcquireOrRecycle(t *testing.T) {
	p := newPool(t, 0, 2)
	first, _, err := p.AcquireOrRecycle()
	require.NoError(t, err)
	second, recycled, err := p.AcquireOrRecycle()
	require.NoError(t, err)
	assert.False(t, recycled)

	third, recycled, err := p.AcquireOrRecycle()
	require.NoError(t, err)
	assert.True(t, recycled)
	assert.Same(t, first, third, "oldest active instance is recycled")
	assert.Equal(t, 2, first.activations)
	assert.Equal(t, 1, first.deactivs)
	assert.Equal(t, []*bullet{second, third}, p.Active())
	assert.Equal(t, 1, p.Stats().Recycled)
}

func TestTeardown(t *testing.T) {
	p := newPool(t, 3, 0)
	a, err := p.Acquire()
	require.NoError(t, err)
	free := p.Free()

	p.Teardown()

	assert.False(t, a.visible)
	assert.True(t, a.destroyed)
	for _, b := range free {
		assert.True(t, b.destroyed)
	}
	assert.Zero(t, p.Len())
	assert.False(t, p.Owns(a))

	_, err = p.Acquire()
	assert.ErrorIs(t, err, pool.ErrNotConfigured)
	require.NoError(t, p.Configure(func() *bullet { return &bullet{} }, 1, 1))
}

func TestFactoryDuplicateRejected(t *testing.T) {
	shared := &bullet{id: 1}

	p := pool.New[*bullet]("shared")
	err := p.Configure(func() *bullet { return shared }, 2, 2)
	require.ErrorIs(t, err, pool.ErrDuplicateInstance)
	assert.Zero(t, p.Len())

	_, err = p.Acquire()
	assert.ErrorIs(t, err, pool.ErrNotConfigured)
}

func TestFactoryDuplicateOnGrowth(t *testing.T) {
	shared := &bullet{id: 1}
	p := pool.New[*bullet]("shared")
	require.NoError(t, p.Configure(func() *bullet { return shared }, 1, 2))

	a, err := p.Acquire()
	require.NoError(t, err)
	assert.Same(t, shared, a)

	_, err = p.Acquire()
	require.ErrorIs(t, err, pool.ErrDuplicateInstance)
	assert.Equal(t, 1, shared.activations)

	st := p.Stats()
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.Total)
	requireDisjoint(t, p)
}
