package entity

import (
	"math"

	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/fsm"
)

// runStopSpeed is the horizontal speed under which a player with no input counts as standing.
const runStopSpeed = 0.5

type idleState struct {
	fsm.Base[*Player]
}

func (s *idleState) HandleInput(in core.InputFrame) {
	p := s.Entity()
	p.readInput(in)
	if p.jumpPressed(in) && p.OnGround {
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateJump)
	}
}

func (s *idleState) Tick(float64) {
	if s.Entity().moveDir != (core.Vec2{}) {
		//nolint:errcheck // always registered
		s.TransitionTo(StateRun)
	}
}

func (s *idleState) PhysicsTick(dt float64) {
	p := s.Entity()
	p.integrate(dt)
	if p.Platformer() && !p.OnGround {
		p.coyote = p.cfg.CoyoteTicks
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateFall)
	}
}

type runState struct {
	fsm.Base[*Player]
}

func (s *runState) HandleInput(in core.InputFrame) {
	p := s.Entity()
	p.readInput(in)
	if p.jumpPressed(in) && p.OnGround {
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateJump)
	}
}

func (s *runState) Tick(float64) {
	p := s.Entity()
	if p.moveDir == (core.Vec2{}) && p.Vel.Len() < runStopSpeed {
		//nolint:errcheck // always registered
		s.TransitionTo(StateIdle)
	}
}

func (s *runState) PhysicsTick(dt float64) {
	p := s.Entity()
	p.integrate(dt)
	if p.Platformer() && !p.OnGround {
		p.coyote = p.cfg.CoyoteTicks
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateFall)
	}
}

type jumpState struct {
	fsm.Base[*Player]
}

func (s *jumpState) Enter() {
	p := s.Entity()
	p.Vel.Y = p.cfg.JumpVelocity
	p.OnGround = false
	p.coyote = 0
}

func (s *jumpState) HandleInput(in core.InputFrame) {
	s.Entity().readInput(in)
}

func (s *jumpState) PhysicsTick(dt float64) {
	p := s.Entity()
	p.integrate(dt)
	switch {
	case p.OnGround:
		//nolint:errcheck // always registered
		s.TransitionTo(landingState(p))
	case p.Vel.Y >= 0:
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateFall)
	}
}

type fallState struct {
	fsm.Base[*Player]
}

func (s *fallState) HandleInput(in core.InputFrame) {
	p := s.Entity()
	p.readInput(in)
	if p.jumpPressed(in) && p.coyote > 0 {
		//nolint:errcheck // registered in platformer mode
		s.TransitionTo(StateJump)
	}
}

func (s *fallState) PhysicsTick(dt float64) {
	p := s.Entity()
	if p.coyote > 0 {
		p.coyote--
	}
	p.integrate(dt)
	if p.OnGround {
		//nolint:errcheck // always registered
		s.TransitionTo(landingState(p))
	}
}

// landingState picks idle or run after touching the ground.
func landingState(p *Player) string {
	if p.moveDir != (core.Vec2{}) || math.Abs(p.Vel.X) >= runStopSpeed {
		return StateRun
	}
	return StateIdle
}

type hurtState struct {
	fsm.Base[*Player]
}

func (s *hurtState) Enter() {
	p := s.Entity()
	p.invuln = max(p.cfg.InvulnTicks, 1)
	p.moveDir = core.Vec2{}
	p.attacking = 0
	p.Attack.Active = false
	p.Hurtbox.Active = false
}

func (s *hurtState) Tick(float64) {
	if s.Entity().invuln == 0 {
		//nolint:errcheck // always registered
		s.TransitionTo(StateIdle)
	}
}

func (s *hurtState) PhysicsTick(dt float64) {
	s.Entity().integrate(dt)
}

type deadState struct {
	fsm.Base[*Player]
}

func (s *deadState) Enter() {
	p := s.Entity()
	p.moveDir = core.Vec2{}
	p.Vel.X = 0
	p.attacking = 0
	p.Attack.Active = false
	p.Hurtbox.Active = false
}

func (s *deadState) PhysicsTick(dt float64) {
	// Keep falling to the floor, nothing else.
	s.Entity().integrate(dt)
}
