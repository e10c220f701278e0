package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/fsm"
)

type entity struct {
	log []string
}

// recorder appends its callbacks to the entity log.
type recorder struct {
	fsm.Base[*entity]
	name    string
	onEnter func()
	ticks   int
	phys    int
	inputs  int
}

func (r *recorder) Enter() {
	r.Entity().log = append(r.Entity().log, r.name+".enter")
	if r.onEnter != nil {
		r.onEnter()
	}
	r.Entity().log = append(r.Entity().log, r.name+".enter.done")
}

func (r *recorder) Exit() {
	r.Entity().log = append(r.Entity().log, r.name+".exit")
}

func (r *recorder) Tick(float64) { r.ticks++ }
func (r *recorder) PhysicsTick(float64) { r.phys++ }
func (r *recorder) HandleInput(core.InputFrame) { r.inputs++ }

func newMachine(t *testing.T, names ...string) (*fsm.Machine[*entity], map[string]*recorder) {
	t.Helper()
	e := &entity{}
	m := fsm.New(e)
	states := make(map[string]*recorder, len(names))
	for _, n := range names {
		r := &recorder{name: n}
		require.NoError(t, m.Register(n, r))
		states[n] = r
	}
	return m, states
}

func TestRegisterDuplicate(t *testing.T) {
	m, _ := newMachine(t, "idle")

	err := m.Register("idle", &recorder{name: "idle2"})
	require.Error(t, err)
	assert.True(t, fsm.IsDuplicateState(err))
	assert.False(t, fsm.IsUnknownState(err))
	assert.Equal(t, []string{"idle"}, m.States())

	assert.ErrorIs(t, m.Register("nil", nil), fsm.ErrNilState)
}

func TestSetInitialUnknown(t *testing.T) {
	m, _ := newMachine(t, "idle")

	err := m.SetInitial("missing")
	require.Error(t, err)
	assert.True(t, fsm.IsUnknownState(err))
	assert.Equal(t, "", m.Current())
	assert.Nil(t, m.CurrentState())
}

func TestTicksBeforeInitialAreNoops(t *testing.T) {
	m, states := newMachine(t, "idle")

	m.Tick(0.016)
	m.PhysicsTick(0.016)
	m.HandleInput(core.NewInputFrame(core.ActionJump))

	assert.Zero(t, states["idle"].ticks)
	assert.Zero(t, states["idle"].phys)
	assert.Zero(t, states["idle"].inputs)
}

func TestIdleToRunning(t *testing.T) {
	m, states := newMachine(t, "Idle", "Running")
	e := m.Entity()

	require.NoError(t, m.SetInitial("Idle"))
	assert.Equal(t, []string{"Idle.enter", "Idle.enter.done"}, e.log)

	e.log = nil
	require.NoError(t, m.TransitionTo("Running"))
	assert.Equal(t, []string{"Idle.exit", "Running.enter", "Running.enter.done"}, e.log)
	assert.Equal(t, "Running", m.Current())
	assert.Equal(t, "Idle", m.Previous())
	assert.True(t, m.Is("Running"))

	m.Tick(0.016)
	m.PhysicsTick(0.016)
	m.HandleInput(core.NewInputFrame())
	assert.Equal(t, 1, states["Running"].ticks)
	assert.Equal(t, 1, states["Running"].phys)
	assert.Equal(t, 1, states["Running"].inputs)
	assert.Zero(t, states["Idle"].ticks)
}

func TestUnknownTransitionLeavesStateUnchanged(t *testing.T) {
	m, _ := newMachine(t, "Idle", "Running")
	e := m.Entity()
	require.NoError(t, m.SetInitial("Idle"))
	e.log = nil

	err := m.TransitionTo("Flying")
	require.Error(t, err)
	assert.True(t, fsm.IsUnknownState(err))
	assert.Equal(t, "Idle", m.Current())
	assert.Empty(t, e.log, "no callbacks on a failed transition")
}

func TestSelfTransitionReenters(t *testing.T) {
	m, states := newMachine(t, "Idle")
	e := m.Entity()
	require.NoError(t, m.SetInitial("Idle"))
	e.log = nil

	require.NoError(t, m.TransitionTo("Idle"))
	assert.Equal(t, []string{"Idle.exit", "Idle.enter", "Idle.enter.done"}, e.log)
	assert.Same(t, states["Idle"], m.CurrentState())
}

func TestEveryRegisteredNameIsReachable(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	m, _ := newMachine(t, names...)
	e := m.Entity()

	for i, n := range names {
		e.log = nil
		require.NoError(t, m.TransitionTo(n))
		exits, enters := 0, 0
		for _, entry := range e.log {
			switch entry {
			case n + ".enter":
				enters++
			default:
				if len(entry) > 5 && entry[len(entry)-5:] == ".exit" {
					exits++
				}
			}
		}
		assert.Equal(t, 1, enters, "enter count for %s", n)
		if i == 0 {
			assert.Zero(t, exits)
		} else {
			assert.Equal(t, 1, exits, "exit count for %s", n)
		}
	}
}

func TestTransitionFromEnterCompletesFirst(t *testing.T) {
	m, states := newMachine(t, "Idle", "Dash", "Running")
	e := m.Entity()
	require.NoError(t, m.SetInitial("Idle"))
	e.log = nil

	states["Dash"].onEnter = func() {
		require.NoError(t, states["Dash"].TransitionTo("Running"))
		// The inner pair has fully run by the time control comes back.
		assert.Equal(t, "Running", m.Current())
	}

	require.NoError(t, m.TransitionTo("Dash"))
	assert.Equal(t, []string{
		"Idle.exit",
		"Dash.enter",
		"Dash.exit",
		"Running.enter",
		"Running.enter.done",
		"Dash.enter.done",
	}, e.log)
	assert.Equal(t, "Running", m.Current())
	assert.Equal(t, "Dash", m.Previous())
}

func TestTransitionChainLimit(t *testing.T) {
	e := &entity{}
	m := fsm.New(e, fsm.WithMaxChain(4))
	var lastErr error
	ping := &fsm.Funcs{}
	pong := &fsm.Funcs{}
	ping.OnEnter = func() {
		if err := m.TransitionTo("pong"); err != nil {
			lastErr = err
		}
	}
	pong.OnEnter = func() {
		if err := m.TransitionTo("ping"); err != nil {
			lastErr = err
		}
	}
	m.MustRegister("ping", ping).MustRegister("pong", pong)

	require.NoError(t, m.SetInitial("ping"))
	var depthErr *fsm.TransitionDepthError
	require.ErrorAs(t, lastErr, &depthErr)
	assert.Equal(t, 4, depthErr.Limit)
	assert.True(t, m.Has(m.Current()))
}

func TestTransitionFromExitRejected(t *testing.T) {
	e := &entity{}
	m := fsm.New(e)
	var exitErr error
	m.MustRegister("a", &fsm.Funcs{OnExit: func() { exitErr = m.TransitionTo("c") }})
	m.MustRegister("b", &fsm.Funcs{})
	m.MustRegister("c", &fsm.Funcs{})

	require.NoError(t, m.SetInitial("a"))
	require.NoError(t, m.TransitionTo("b"))
	assert.ErrorIs(t, exitErr, fsm.ErrTransitionInExit)
	assert.Equal(t, "b", m.Current())
}

func TestOnTransitionObserver(t *testing.T) {
	m, _ := newMachine(t, "Idle", "Running")
	var seen [][2]string
	m.OnTransition(func(from, to string) {
		seen = append(seen, [2]string{from, to})
	})

	require.NoError(t, m.SetInitial("Idle"))
	require.NoError(t, m.TransitionTo("Running"))
	assert.Equal(t, [][2]string{{"", "Idle"}, {"Idle", "Running"}}, seen)
}

func TestStateAttachedToOneMachine(t *testing.T) {
	shared := &recorder{name: "shared"}
	m1 := fsm.New(&entity{})
	m2 := fsm.New(&entity{})

	require.NoError(t, m1.Register("s", shared))
	assert.ErrorIs(t, m2.Register("s", shared), fsm.ErrStateAttached)
	assert.False(t, m2.Has("s"))
	assert.Same(t, m1, shared.Machine())
}

func TestFuncsAttachedToOneMachine(t *testing.T) {
	var entered int
	shared := &fsm.Funcs{OnEnter: func() { entered++ }}
	m1 := fsm.New(&entity{})
	m2 := fsm.New(&entity{})

	require.NoError(t, m1.Register("s", shared))
	require.NoError(t, m1.Register("alias", shared))
	assert.ErrorIs(t, m2.Register("s", shared), fsm.ErrStateAttached)
	assert.False(t, m2.Has("s"))

	require.NoError(t, m1.SetInitial("s"))
	assert.Equal(t, 1, entered)
	assert.True(t, fsm.IsUnknownState(m2.SetInitial("s")))
	assert.Empty(t, m2.Current())
}
