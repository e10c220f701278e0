package entity

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/fsm"
)

// Enemy state names.
const (
	StateWalk = "walk"
	StateDie  = "die"
)

// dieTicks is how long a killed enemy stays visible before it is released.
const dieTicks = 8

// EnemySpec describes one spawn.
type EnemySpec struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Width    int
	Height   int
	HP       int
	Damage   int
	Lifetime int // ticks, 0 = unlimited
}

// Enemy is a pooled walker. Instances are created once by the pool factory
// and re-initialised with Spawn each time they are acquired.
type Enemy struct {
	ID  int
	Pos core.Vec2
	Vel core.Vec2
	W   int
	H   int
	HP  int

	// Visible and Processing are the pool activation flags: an inactive
	// enemy is neither drawn nor ticked.
	Visible    bool
	Processing bool

	Hitbox  Hitbox
	Hurtbox Hurtbox

	// OnKilled fires once when HP reaches zero.
	OnKilled func(*Enemy)

	machine  *fsm.Machine[*Enemy]
	lifetime int
	dying    int
	killed   bool
	spawns   int
}

// NewEnemy creates an inactive enemy.
func NewEnemy(id int, logger *log.Logger) *Enemy {
	e := &Enemy{ID: id}
	e.Hitbox = Hitbox{Owner: e}
	e.Hurtbox = Hurtbox{Owner: e, OnHit: e.onHit}
	e.machine = fsm.New(e, fsm.WithLogger(logger))
	e.machine.
		MustRegister(StateWalk, &walkState{}).
		MustRegister(StateDie, &dieState{})
	return e
}

// Activate marks the enemy visible and processed.
func (e *Enemy) Activate() {
	e.Visible = true
	e.Processing = true
}

// Deactivate hides the enemy and disables its boxes.
func (e *Enemy) Deactivate() {
	e.Visible = false
	e.Processing = false
	e.Hitbox.Active = false
	e.Hurtbox.Active = false
	e.Vel = core.Vec2{}
}

// Spawn resets the enemy for a new life and enters the walk state.
func (e *Enemy) Spawn(spec EnemySpec) {
	e.Pos = spec.Pos
	e.Vel = spec.Vel
	e.W = max(spec.Width, 1)
	e.H = max(spec.Height, 1)
	e.HP = max(spec.HP, 1)
	e.Hitbox.Damage = max(spec.Damage, 1)
	e.lifetime = spec.Lifetime
	e.dying = 0
	e.killed = false
	e.spawns++
	e.syncBoxes()
	//nolint:errcheck // walk is registered in NewEnemy
	e.machine.TransitionTo(StateWalk)
}

// Spawns returns how many times this instance has been spawned.
func (e *Enemy) Spawns() int { return e.spawns }

// State returns the current state name.
func (e *Enemy) State() string { return e.machine.Current() }

// Machine exposes the enemy's state machine.
func (e *Enemy) Machine() *fsm.Machine[*Enemy] { return e.machine }

// Rect returns the enemy body.
func (e *Enemy) Rect() core.Rect { return core.RectAt(e.Pos, e.W, e.H) }

// Killed reports whether the enemy died from damage in its current life.
func (e *Enemy) Killed() bool { return e.killed }

// Damage removes hp and switches to the die state at zero.
// It reports whether this call killed the enemy.
func (e *Enemy) Damage(n int) bool {
	if e.killed || n <= 0 {
		return false
	}
	e.HP -= n
	if e.HP > 0 {
		return false
	}
	e.HP = 0
	e.killed = true
	//nolint:errcheck // die is registered in NewEnemy
	e.machine.TransitionTo(StateDie)
	if e.OnKilled != nil {
		e.OnKilled(e)
	}
	return true
}

// Tick runs the logic step.
func (e *Enemy) Tick(dt float64) {
	if !e.Processing {
		return
	}
	if e.lifetime > 0 {
		e.lifetime--
		if e.lifetime == 0 {
			e.lifetime = -1
		}
	}
	e.machine.Tick(dt)
}

// PhysicsTick runs the physics step.
func (e *Enemy) PhysicsTick(dt float64) {
	if !e.Processing {
		return
	}
	e.machine.PhysicsTick(dt)
	e.syncBoxes()
}

// Done reports whether the enemy should go back to the pool: its death
// animation finished, its lifetime ran out or it left bounds entirely.
func (e *Enemy) Done(bounds core.Rect) bool {
	switch {
	case e.killed:
		return e.dying == 0
	case e.lifetime < 0:
		return true
	default:
		return !e.Rect().Intersects(bounds)
	}
}

func (e *Enemy) syncBoxes() {
	e.Hitbox.Area = e.Rect()
	e.Hurtbox.Area = e.Hitbox.Area
}

func (e *Enemy) onHit(from *Hitbox) {
	e.Damage(from.Damage)
}

type walkState struct {
	fsm.Base[*Enemy]
}

func (s *walkState) Enter() {
	e := s.Entity()
	e.Hitbox.Active = true
	e.Hurtbox.Active = true
}

func (s *walkState) PhysicsTick(dt float64) {
	e := s.Entity()
	e.Pos = e.Pos.Add(e.Vel.Scale(dt))
}

type dieState struct {
	fsm.Base[*Enemy]
}

func (s *dieState) Enter() {
	e := s.Entity()
	e.Hitbox.Active = false
	e.Hurtbox.Active = false
	e.Vel = core.Vec2{}
	e.dying = dieTicks
}

func (s *dieState) Tick(float64) {
	if e := s.Entity(); e.dying > 0 {
		e.dying--
	}
}
