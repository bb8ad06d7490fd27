package movement

import (
	"errors"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/logger"
)

// airControlThreshold is the input magnitude above which the actor steers
// while rising.
const airControlThreshold = 0.5

var (
	Up    = mgl64.Vec3{0, 1, 0}
	Down  = mgl64.Vec3{0, -1, 0}
	Left  = mgl64.Vec3{-1, 0, 0}
	Right = mgl64.Vec3{1, 0, 0}
)

var errNilRaycaster = errors.New("movement: nil raycaster")

// PlayerController is the surface input sources drive.
type PlayerController interface {
	ID() int
	SetHorizontalInput(value float64)
	RequestJump()
}

// ActorState is the simulated state of the controlled actor.
type ActorState struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// Displacement is the motion integrated during the last tick, with the
	// y component zeroed when a vertical correction was applied.
	Displacement    mgl64.Vec3
	Grounded        bool
	JumpsRemaining  int
	PendingJump     bool
	HorizontalInput float64
	Tick            uint64
}

// Controller advances one actor against static geometry, one fixed step at a
// time. Tick must not be called concurrently with itself. The input setters,
// State and CurrentPosition are safe to call from any goroutine.
type Controller struct {
	id     int
	cfg    Config
	caster Raycaster
	log    *slog.Logger

	state     ActorState
	committed atomic.Pointer[ActorState]

	axis atomic.Uint64
	jump atomic.Bool

	observer func(ProbeTrace)
}

var _ PlayerController = (*Controller)(nil)

var lastID atomic.Int64

// NewController places an airborne actor at spawn with no jumps available;
// the first downward probe that finds ground refills them.
func NewController(cfg Config, caster Raycaster, spawn mgl64.Vec3) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if caster == nil {
		return nil, errNilRaycaster
	}
	id := int(lastID.Add(1))
	c := &Controller{
		id:     id,
		cfg:    cfg,
		caster: caster,
		log:    logger.L().With("component", "movement", "actor", id),
		state:  ActorState{Position: spawn},
	}
	c.commit()
	return c, nil
}

// Reconfigure returns a controller with cfg that continues from the last
// committed state of c. Pending input carries over. c should not be ticked
// afterwards.
func (c *Controller) Reconfigure(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st := c.State()
	if st.JumpsRemaining > cfg.MaxJumps {
		st.JumpsRemaining = cfg.MaxJumps
	}
	next := &Controller{
		id:       c.id,
		cfg:      cfg,
		caster:   c.caster,
		log:      c.log,
		state:    st,
		observer: c.observer,
	}
	next.axis.Store(c.axis.Load())
	next.jump.Store(c.jump.Load())
	next.commit()
	c.log.Info("reconfigured", "move_speed", cfg.MoveSpeed, "jump_force", cfg.JumpForce, "gravity", cfg.Gravity, "max_jumps", cfg.MaxJumps)
	return next, nil
}

func (c *Controller) ID() int { return c.id }

func (c *Controller) Config() Config { return c.cfg }

// SetHorizontalInput stores the latest axis sample. The value is not clamped.
func (c *Controller) SetHorizontalInput(value float64) {
	c.axis.Store(math.Float64bits(value))
}

// RequestJump latches a jump for the next tick. Repeated calls before that
// tick collapse into one request.
func (c *Controller) RequestJump() {
	c.jump.Store(true)
}

// SetProbeObserver registers fn to receive every probe of every tick. fn runs
// synchronously inside Tick.
func (c *Controller) SetProbeObserver(fn func(ProbeTrace)) {
	c.observer = fn
}

// State returns a copy of the last committed state.
func (c *Controller) State() ActorState {
	return *c.committed.Load()
}

// CurrentPosition returns the resolved position of the last completed tick.
func (c *Controller) CurrentPosition() mgl64.Vec3 {
	return c.committed.Load().Position
}

// Tick advances the simulation by one step of dt seconds. A negative dt is
// treated as zero.
func (c *Controller) Tick(dt float64) {
	if !(dt > 0) {
		dt = 0
	}
	st := c.state
	st.HorizontalInput = math.Float64frombits(c.axis.Load())
	st.PendingJump = st.PendingJump || c.jump.Swap(false)
	wasGrounded := st.Grounded
	jumpsBefore := st.JumpsRemaining

	if st.Grounded || math.Abs(st.HorizontalInput) > airControlThreshold || st.Velocity.Y() < 0 {
		st.Velocity[0] = st.HorizontalInput * c.cfg.MoveSpeed
	}

	jumped, dropped := c.consumeJump(&st)

	if !st.Grounded {
		st.Velocity[1] -= c.cfg.Gravity
	}

	st.Displacement = st.Velocity.Mul(dt)

	r := resolver{
		cfg:       c.cfg,
		caster:    c.caster,
		observer:  c.observer,
		st:        &st,
		candidate: st.Position.Add(st.Displacement),
		dt:        dt,
	}
	r.probe(Up, c.cfg.SolidMask)
	r.probe(Left, c.cfg.SolidMask)
	r.probe(Right, c.cfg.SolidMask)
	r.probe(Down, c.cfg.GroundMask)

	st.Position = r.candidate
	st.Tick++
	c.state = st
	c.commit()

	switch {
	case jumped:
		c.log.Debug("jump", "tick", st.Tick, "jumps", st.JumpsRemaining, "from_ground", wasGrounded)
	case dropped:
		c.log.Debug("jump dropped", "tick", st.Tick, "jumps", jumpsBefore)
	}
	if st.Grounded && !wasGrounded {
		c.log.Debug("landed", "tick", st.Tick, "x", st.Position.X(), "y", st.Position.Y())
	} else if !st.Grounded && wasGrounded {
		c.log.Debug("left ground", "tick", st.Tick, "vy", st.Velocity.Y())
	}
}

// consumeJump applies a latched jump request and always clears it.
func (c *Controller) consumeJump(st *ActorState) (jumped, dropped bool) {
	// The actor walked off a ledge without jumping: the ground jump is gone.
	if !st.Grounded && st.JumpsRemaining >= c.cfg.MaxJumps {
		st.JumpsRemaining = c.cfg.MaxJumps - 1
	}
	if st.PendingJump {
		if st.Grounded || st.JumpsRemaining > 0 {
			st.Velocity[1] = c.cfg.JumpForce
			if st.JumpsRemaining > 0 {
				st.JumpsRemaining--
			}
			jumped = true
		} else {
			dropped = true
		}
	}
	st.PendingJump = false
	return jumped, dropped
}

func (c *Controller) commit() {
	snapshot := c.state
	c.committed.Store(&snapshot)
}
