package entity

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/fsm"
)

// Player state names.
const (
	StateIdle = "idle"
	StateRun  = "run"
	StateJump = "jump"
	StateFall = "fall"
	StateHurt = "hurt"
	StateDead = "dead"
)

// Player is the character controller. Movement runs in two phases per frame:
// input and the logic tick decide intent and transitions, the physics tick
// integrates velocity and resolves ground contact.
type Player struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Facing   int // -1 left, 1 right
	OnGround bool

	Hurtbox Hurtbox
	Attack  Hitbox

	cfg       config.PlayerConfig
	world     config.WorldConfig
	bounds    core.Rect
	machine   *fsm.Machine[*Player]
	moveDir   core.Vec2
	coyote    int
	invuln    int
	attacking int
	cooldown  int

	// OnDamaged is called when an enemy hitbox lands while the player is vulnerable.
	OnDamaged func(damage int)
}

// NewPlayer builds a player for the given playfield bounds. The player starts
// standing on the floor, centred horizontally, in the idle state.
func NewPlayer(cfg config.PlayerConfig, world config.WorldConfig, bounds core.Rect, logger *log.Logger) *Player {
	p := &Player{
		cfg:    cfg,
		world:  world,
		bounds: bounds,
		Facing: 1,
	}
	p.Hurtbox = Hurtbox{Owner: p, Active: true, OnHit: p.onHit}
	p.Attack = Hitbox{Owner: p, Damage: max(cfg.AttackDamage, 1), OncePerTarget: true}

	p.machine = fsm.New(p, fsm.WithLogger(logger))
	p.machine.
		MustRegister(StateIdle, &idleState{}).
		MustRegister(StateRun, &runState{}).
		MustRegister(StateHurt, &hurtState{}).
		MustRegister(StateDead, &deadState{})
	if p.Platformer() {
		p.machine.
			MustRegister(StateJump, &jumpState{}).
			MustRegister(StateFall, &fallState{})
	}

	p.Pos = core.V(float64(bounds.X+(bounds.W-cfg.Width)/2), p.floorY())
	p.OnGround = p.Platformer()
	p.syncBoxes()

	//nolint:errcheck // idle is registered above
	p.machine.SetInitial(StateIdle)
	return p
}

// Machine exposes the player's state machine.
func (p *Player) Machine() *fsm.Machine[*Player] { return p.machine }

// State returns the current state name.
func (p *Player) State() string { return p.machine.Current() }

// Platformer reports whether gravity and jumping apply.
func (p *Player) Platformer() bool { return p.cfg.Mode != config.ModeTopDown }

// Dead reports whether the player is in the dead state.
func (p *Player) Dead() bool { return p.machine.Is(StateDead) }

// Invulnerable reports whether incoming hits are currently ignored.
func (p *Player) Invulnerable() bool { return p.invuln > 0 || p.Dead() }

// Attacking reports whether the attack hitbox is live.
func (p *Player) Attacking() bool { return p.attacking > 0 }

// Rect returns the player's body in cell coordinates.
func (p *Player) Rect() core.Rect {
	return core.RectAt(p.Pos, p.cfg.Width, p.cfg.Height)
}

// HandleInput routes the frame's input to the active state.
func (p *Player) HandleInput(in core.InputFrame) { p.machine.HandleInput(in) }

// Tick runs the logic step.
func (p *Player) Tick(dt float64) {
	if p.invuln > 0 {
		p.invuln--
	}
	if p.cooldown > 0 {
		p.cooldown--
	}
	if p.attacking > 0 {
		p.attacking--
		if p.attacking == 0 {
			p.Attack.Active = false
		}
	}
	p.machine.Tick(dt)
	p.Hurtbox.Active = !p.Invulnerable()
}

// PhysicsTick runs the physics step.
func (p *Player) PhysicsTick(dt float64) {
	p.machine.PhysicsTick(dt)
	p.syncBoxes()
}

// Kill forces the dead state.
func (p *Player) Kill() {
	//nolint:errcheck // dead is always registered
	p.machine.TransitionTo(StateDead)
}

// readInput records movement intent and starts attacks.
func (p *Player) readInput(in core.InputFrame) {
	x := in.Axis(core.ActionLeft, core.ActionRight)
	y := 0.0
	if !p.Platformer() {
		y = in.Axis(core.ActionUp, core.ActionDown)
	}
	p.moveDir = core.V(x, y).Normalized()
	if x != 0 {
		p.Facing = int(x)
	}
	if in.Has(core.ActionAttack) && p.cooldown == 0 {
		p.attacking = max(p.cfg.AttackTicks, 1)
		p.cooldown = p.attacking * 2
		p.Attack.Arm()
	}
}

func (p *Player) jumpPressed(in core.InputFrame) bool {
	return p.Platformer() && (in.Has(core.ActionJump) || in.Has(core.ActionUp))
}

// integrate applies acceleration toward the intended velocity, gravity and
// bounds. It updates OnGround.
func (p *Player) integrate(dt float64) {
	target := p.moveDir.Scale(p.cfg.Speed)
	rateX := p.cfg.Acceleration
	if p.moveDir.X == 0 {
		rateX = p.cfg.Friction
	}
	p.Vel.X = core.MoveToward(p.Vel.X, target.X, rateX*dt)

	if p.Platformer() {
		p.Vel.Y = math.Min(p.Vel.Y+p.world.Gravity*dt, p.world.MaxFallSpeed)
	} else {
		rateY := p.cfg.Acceleration
		if p.moveDir.Y == 0 {
			rateY = p.cfg.Friction
		}
		p.Vel.Y = core.MoveToward(p.Vel.Y, target.Y, rateY*dt)
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))

	minX := float64(p.bounds.X)
	maxX := float64(p.bounds.Right() - p.cfg.Width)
	if p.Pos.X < minX || p.Pos.X > maxX {
		p.Pos.X = core.ClampF(p.Pos.X, minX, maxX)
		p.Vel.X = 0
	}

	minY := float64(p.bounds.Y)
	if p.Pos.Y < minY {
		p.Pos.Y = minY
		p.Vel.Y = math.Max(p.Vel.Y, 0)
	}
	p.OnGround = false
	if p.Pos.Y >= p.floorY() {
		p.Pos.Y = p.floorY()
		p.Vel.Y = 0
		p.OnGround = p.Platformer()
	}
}

func (p *Player) floorY() float64 {
	return float64(p.bounds.Bottom() - p.cfg.Height)
}

// syncBoxes moves the hurtbox and the attack hitbox with the body.
func (p *Player) syncBoxes() {
	body := p.Rect()
	p.Hurtbox.Area = body
	reach := max(p.cfg.AttackRange, 1)
	if p.Facing < 0 {
		p.Attack.Area = core.NewRect(body.X-reach, body.Y, reach, body.H)
	} else {
		p.Attack.Area = core.NewRect(body.Right(), body.Y, reach, body.H)
	}
}

func (p *Player) onHit(from *Hitbox) {
	if p.Invulnerable() {
		return
	}
	if p.OnDamaged != nil {
		p.OnDamaged(from.Damage)
	}
	if p.Dead() {
		return
	}
	// Knock back away from the attacker.
	dir := 1.0
	if from.Area.X > p.Rect().X {
		dir = -1
	}
	p.Vel.X = dir * p.cfg.Speed
	//nolint:errcheck // hurt is always registered
	p.machine.TransitionTo(StateHurt)
}
