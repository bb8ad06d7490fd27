package movement

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	testLayerSolid    LayerMask = 1 << 0
	testLayerPlatform LayerMask = 1 << 1
	testDT                      = 1.0 / 60.0
)

type box struct {
	bounds AABB
	layer  LayerMask
}

// boxWorld answers casts against axis-aligned boxes in the xy plane. Boxes
// that contain the ray origin are ignored.
type boxWorld struct {
	boxes []box
	casts int
}

func (w *boxWorld) add(minX, minY, maxX, maxY float64, layer LayerMask) {
	w.boxes = append(w.boxes, box{
		bounds: AABB{Min: mgl64.Vec3{minX, minY, -1}, Max: mgl64.Vec3{maxX, maxY, 1}},
		layer:  layer,
	})
}

func (w *boxWorld) Cast(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	w.casts++
	seg := direction.Mul(maxDistance)
	bestT := math.Inf(1)
	var best Hit
	for _, b := range w.boxes {
		if !mask.Has(b.layer) || b.bounds.Contains(origin) {
			continue
		}
		t, axis, ok := segmentBoxHit(origin, seg, b.bounds)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		var normal mgl64.Vec3
		normal[axis] = -math.Copysign(1, seg[axis])
		best = Hit{Point: origin.Add(seg.Mul(t)), Normal: normal, Bounds: b.bounds}
	}
	return best, !math.IsInf(bestT, 1)
}

func segmentBoxHit(o, d mgl64.Vec3, b AABB) (float64, int, bool) {
	tmin, tmax := 0.0, 1.0
	axis := -1
	for i := 0; i < 2; i++ {
		if d[i] == 0 {
			if o[i] < b.Min[i] || o[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (b.Min[i] - o[i]) * inv
		t2 := (b.Max[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
		}
		tmax = math.Min(tmax, t2)
	}
	if axis < 0 || tmax < tmin {
		return 0, 0, false
	}
	return tmin, axis, true
}

func testConfig() Config {
	return Config{
		MoveSpeed:   6,
		JumpForce:   10,
		Gravity:     1,
		MaxJumps:    1,
		HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5},
		GroundMask:  testLayerSolid | testLayerPlatform,
		SolidMask:   testLayerSolid,
	}
}

// floorWorld has a solid floor whose top is at y=0.5, so an actor with half
// extent 0.5 rests at y=1.
func floorWorld() *boxWorld {
	w := &boxWorld{}
	w.add(-50, -0.5, 50, 0.5, testLayerSolid)
	return w
}

func newTestController(t *testing.T, cfg Config, caster Raycaster, spawn mgl64.Vec3) *Controller {
	t.Helper()
	c, err := NewController(cfg, caster, spawn)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

// setState replaces the working state the way a finished tick would.
func setState(c *Controller, st ActorState) {
	c.state = st
	c.commit()
}

func settle(t *testing.T, c *Controller) ActorState {
	t.Helper()
	c.Tick(testDT)
	st := c.State()
	if !st.Grounded {
		t.Fatalf("actor did not settle on the floor: %+v", st)
	}
	return st
}

func approxEqual(t *testing.T, got, want float64, field string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %.9f, want %.9f", field, got, want)
	}
}

func TestTick_SettlesOntoFloor(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{0, 1, 0})
	if c.State().Grounded || c.State().JumpsRemaining != 0 {
		t.Fatalf("new controller should start airborne with no jumps: %+v", c.State())
	}

	st := settle(t, c)
	approxEqual(t, st.Position.Y(), 1, "position.y")
	approxEqual(t, st.Velocity.Y(), 0, "velocity.y")
	approxEqual(t, st.Displacement.Y(), 0, "displacement.y")
	if st.JumpsRemaining != 1 {
		t.Fatalf("jumpsRemaining = %d, want 1", st.JumpsRemaining)
	}
}

func TestTick_GroundedActorStaysAtRest(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{0, 1, 0})
	rest := settle(t, c)

	for i := 0; i < 120; i++ {
		c.Tick(testDT)
		st := c.State()
		if !st.Grounded {
			t.Fatalf("tick %d: actor left the ground", i)
		}
		if st.Velocity != (mgl64.Vec3{}) {
			t.Fatalf("tick %d: velocity = %v, want zero", i, st.Velocity)
		}
		if st.Position != rest.Position {
			t.Fatalf("tick %d: position = %v, want %v", i, st.Position, rest.Position)
		}
	}
}

func TestTick_JumpFromGround(t *testing.T) {
	cfg := testConfig()
	c := newTestController(t, cfg, floorWorld(), mgl64.Vec3{0, 1, 0})
	settle(t, c)

	c.RequestJump()
	c.Tick(testDT)
	st := c.State()
	approxEqual(t, st.Velocity.Y(), cfg.JumpForce, "velocity.y")
	if st.JumpsRemaining != 0 {
		t.Fatalf("jumpsRemaining = %d, want 0", st.JumpsRemaining)
	}
	if st.PendingJump {
		t.Fatalf("pendingJump still set after tick")
	}
	approxEqual(t, st.Position.Y(), 1+cfg.JumpForce*testDT, "position.y")

	c.Tick(testDT)
	st = c.State()
	if st.Grounded {
		t.Fatalf("actor still grounded one tick after jumping")
	}
	approxEqual(t, st.Velocity.Y(), cfg.JumpForce-cfg.Gravity, "velocity.y after gravity")
}

func TestTick_RepeatedRequestsCollapseToOneJump(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 3
	c := newTestController(t, cfg, floorWorld(), mgl64.Vec3{0, 1, 0})
	settle(t, c)

	c.RequestJump()
	c.RequestJump()
	c.RequestJump()
	c.Tick(testDT)
	if got := c.State().JumpsRemaining; got != 2 {
		t.Fatalf("jumpsRemaining = %d, want 2", got)
	}

	c.Tick(testDT)
	st := c.State()
	if st.JumpsRemaining != 2 {
		t.Fatalf("jumpsRemaining = %d after a tick without request, want 2", st.JumpsRemaining)
	}
	approxEqual(t, st.Velocity.Y(), cfg.JumpForce-cfg.Gravity, "velocity.y")
}

func TestTick_JumpDroppedWithoutJumpsLeft(t *testing.T) {
	cfg := testConfig()
	c := newTestController(t, cfg, &boxWorld{}, mgl64.Vec3{0, 10, 0})

	c.RequestJump()
	c.Tick(testDT)
	st := c.State()
	approxEqual(t, st.Velocity.Y(), -cfg.Gravity, "velocity.y")
	if st.PendingJump || st.JumpsRemaining != 0 {
		t.Fatalf("dropped jump left state %+v", st)
	}

	// The dropped request must not be replayed.
	c.Tick(testDT)
	approxEqual(t, c.State().Velocity.Y(), -2*cfg.Gravity, "velocity.y")
}

func TestTick_AirJumpAfterWalkingOffLedge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 2
	c := newTestController(t, cfg, &boxWorld{}, mgl64.Vec3{0, 10, 0})
	setState(c, ActorState{Position: mgl64.Vec3{0, 10, 0}, JumpsRemaining: 2})

	c.Tick(testDT)
	if got := c.State().JumpsRemaining; got != 1 {
		t.Fatalf("jumpsRemaining after leaving ground = %d, want 1", got)
	}

	c.RequestJump()
	c.Tick(testDT)
	st := c.State()
	if st.JumpsRemaining != 0 {
		t.Fatalf("jumpsRemaining = %d, want 0", st.JumpsRemaining)
	}
	approxEqual(t, st.Velocity.Y(), cfg.JumpForce-cfg.Gravity, "velocity.y")
}

func TestTick_LandingFromFall(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 2
	c := newTestController(t, cfg, floorWorld(), mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 1.05, 0}, Velocity: mgl64.Vec3{0, -5, 0}})

	c.Tick(testDT)
	st := c.State()
	if !st.Grounded {
		t.Fatalf("actor not grounded after landing: %+v", st)
	}
	approxEqual(t, st.Velocity.Y(), 0, "velocity.y")
	approxEqual(t, st.Position.Y(), 1, "position.y")
	if st.JumpsRemaining != cfg.MaxJumps {
		t.Fatalf("jumpsRemaining = %d, want %d", st.JumpsRemaining, cfg.MaxJumps)
	}
}

func TestTick_LandingResetsJumpsRegardlessOfPriorValue(t *testing.T) {
	for _, prior := range []int{0, 1, 2} {
		cfg := testConfig()
		cfg.MaxJumps = 3
		c := newTestController(t, cfg, floorWorld(), mgl64.Vec3{})
		setState(c, ActorState{
			Position:       mgl64.Vec3{0, 1.02, 0},
			Velocity:       mgl64.Vec3{0, -2, 0},
			JumpsRemaining: prior,
		})
		c.Tick(testDT)
		if got := c.State().JumpsRemaining; got != cfg.MaxJumps {
			t.Fatalf("prior=%d: jumpsRemaining = %d, want %d", prior, got, cfg.MaxJumps)
		}
	}
}

func TestTick_RightWallSnapsX(t *testing.T) {
	cfg := testConfig()
	w := &boxWorld{}
	w.add(2, -10, 3, 10, testLayerSolid)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{1.45, 5, 0}})

	c.SetHorizontalInput(1)
	c.Tick(testDT)
	st := c.State()
	approxEqual(t, st.Position.X(), 2-cfg.HalfExtents.X(), "position.x")
	approxEqual(t, st.Velocity.Y(), -cfg.Gravity, "velocity.y")
	approxEqual(t, st.Position.Y(), 5-cfg.Gravity*testDT, "position.y")
}

func TestTick_LeftWallSnapsX(t *testing.T) {
	cfg := testConfig()
	w := &boxWorld{}
	w.add(-3, -10, -2, 10, testLayerSolid)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{-1.45, 5, 0}})

	c.SetHorizontalInput(-1)
	c.Tick(testDT)
	approxEqual(t, c.State().Position.X(), -2+cfg.HalfExtents.X(), "position.x")
}

// A surface normal with no component along a probe's axis does not block
// that probe: a floor-facing normal returned to the right probe leaves x
// alone.
func TestTick_PerpendicularNormalDoesNotBlock(t *testing.T) {
	caster := RaycasterFunc(func(origin, dir mgl64.Vec3, _ float64, _ LayerMask) (Hit, bool) {
		if dir != Right {
			return Hit{}, false
		}
		return Hit{
			Point:  origin.Add(mgl64.Vec3{0.25, 0, 0}),
			Normal: mgl64.Vec3{0, 1, 0},
			Bounds: AABB{Min: mgl64.Vec3{0.25, -5, -1}, Max: mgl64.Vec3{5, 5, 1}},
		}, true
	})
	c := newTestController(t, testConfig(), caster, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 1, 0}})
	var right ProbeTrace
	c.SetProbeObserver(func(p ProbeTrace) {
		if p.Direction == Right {
			right = p
		}
	})

	c.SetHorizontalInput(1)
	c.Tick(testDT)
	st := c.State()
	if !right.HitOK || right.Horizontal || right.Vertical {
		t.Fatalf("right probe classification = %+v", right)
	}
	approxEqual(t, st.Position.X(), testConfig().MoveSpeed*testDT, "position.x")
	if st.Velocity.Y() >= 0 {
		t.Fatalf("right probe touched vertical motion: %+v", st)
	}
}

func TestTick_PlatformDoesNotBlockSideways(t *testing.T) {
	cfg := testConfig()
	w := &boxWorld{}
	w.add(2, -10, 3, 10, testLayerPlatform)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{1.45, 5, 0}})

	c.SetHorizontalInput(1)
	c.Tick(testDT)
	approxEqual(t, c.State().Position.X(), 1.45+cfg.MoveSpeed*testDT, "position.x")
}

func TestTick_CeilingStopsRise(t *testing.T) {
	cfg := testConfig()
	w := &boxWorld{}
	w.add(-10, 2, 10, 3, testLayerSolid)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 1.45, 0}, Velocity: mgl64.Vec3{0, 7, 0}})

	c.Tick(testDT)
	st := c.State()
	approxEqual(t, st.Position.Y(), 1.5, "position.y")
	approxEqual(t, st.Velocity.Y(), 0, "velocity.y")
	approxEqual(t, st.Displacement.Y(), 0, "displacement.y")
	if st.Grounded {
		t.Fatalf("ceiling hit grounded the actor")
	}
}

func TestTick_RisingThroughPlatformDoesNotGround(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 2
	w := &boxWorld{}
	w.add(-10, 1.5, 10, 2, testLayerPlatform)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 2.2, 0}, Velocity: mgl64.Vec3{0, 2, 0}, JumpsRemaining: 1})

	const dt = 0.1
	c.Tick(dt)
	st := c.State()
	if st.Grounded {
		t.Fatalf("rising actor grounded on platform")
	}
	approxEqual(t, st.Velocity.Y(), 1, "velocity.y")
	approxEqual(t, st.Position.Y(), 2.3, "position.y")
	if st.JumpsRemaining != 1 {
		t.Fatalf("jumpsRemaining = %d, want 1", st.JumpsRemaining)
	}
}

func TestTick_FallingOntoPlatformGrounds(t *testing.T) {
	cfg := testConfig()
	w := &boxWorld{}
	w.add(-10, 1.5, 10, 2, testLayerPlatform)
	c := newTestController(t, cfg, w, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 2.52, 0}, Velocity: mgl64.Vec3{0, -1, 0}})

	c.Tick(testDT)
	st := c.State()
	if !st.Grounded {
		t.Fatalf("falling actor not grounded on platform: %+v", st)
	}
	approxEqual(t, st.Position.Y(), 2.5, "position.y")
}

func TestTick_HorizontalVelocityRules(t *testing.T) {
	cases := []struct {
		name     string
		grounded bool
		vy       float64
		input    float64
		wantVX   float64
	}{
		{"grounded_light_input", true, 0, 0.2, 0.2 * 6},
		{"rising_light_input_keeps_momentum", false, 5, 0.2, 3},
		{"rising_zero_input_keeps_momentum", false, 5, 0, 3},
		{"rising_strong_input_steers", false, 5, -0.8, -0.8 * 6},
		{"falling_light_input_steers", false, -2, 0.2, 0.2 * 6},
		{"apex_light_input_keeps_momentum", false, 1, 0.5, 3},
		{"unclamped_input_scales", true, 0, 2, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Gravity = 0
			c := newTestController(t, cfg, &boxWorld{}, mgl64.Vec3{})
			setState(c, ActorState{
				Position:       mgl64.Vec3{0, 10, 0},
				Velocity:       mgl64.Vec3{3, tc.vy, 0},
				Grounded:       tc.grounded,
				JumpsRemaining: 1,
			})
			c.SetHorizontalInput(tc.input)
			c.Tick(testDT)
			approxEqual(t, c.State().Velocity.X(), tc.wantVX, "velocity.x")
			approxEqual(t, c.State().HorizontalInput, tc.input, "horizontalInput")
		})
	}
}

func TestTick_ZeroDeltaIsIdempotentAtRest(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{0, 1, 0})
	rest := settle(t, c)

	for i := 0; i < 5; i++ {
		c.Tick(0)
	}
	st := c.State()
	if st.Position != rest.Position || st.Velocity != rest.Velocity || st.JumpsRemaining != rest.JumpsRemaining {
		t.Fatalf("zero-length tick changed state: before %+v after %+v", rest, st)
	}
}

// With dt = 0 nothing is integrated, but the probes still reach half an
// extent, so an actor already embedded in the floor is pushed out.
func TestTick_ZeroDeltaStillResolvesEmbedment(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 0.9, 0}, Grounded: true, JumpsRemaining: 1})

	c.Tick(0)
	st := c.State()
	approxEqual(t, st.Position.Y(), 1, "position.y")
	if !st.Grounded || st.JumpsRemaining != 1 || st.Velocity != (mgl64.Vec3{}) {
		t.Fatalf("unexpected state after embedment correction: %+v", st)
	}
}

func TestTick_NegativeDeltaTreatedAsZero(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{0, 1, 0})
	rest := settle(t, c)
	c.Tick(-1)
	if got := c.State().Position; got != rest.Position {
		t.Fatalf("position = %v, want %v", got, rest.Position)
	}
}

func TestTick_MalformedHitsAreIgnored(t *testing.T) {
	cases := []struct {
		name string
		hit  Hit
	}{
		{"nan_normal", Hit{Point: mgl64.Vec3{0, 0.5, 0}, Normal: mgl64.Vec3{math.NaN(), 1, 0}}},
		{"zero_normal", Hit{Point: mgl64.Vec3{0, 0.5, 0}}},
		{"inf_point", Hit{Point: mgl64.Vec3{0, math.Inf(-1), 0}, Normal: mgl64.Vec3{0, 1, 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			caster := RaycasterFunc(func(_, _ mgl64.Vec3, _ float64, _ LayerMask) (Hit, bool) {
				return tc.hit, true
			})
			c := newTestController(t, testConfig(), caster, mgl64.Vec3{})
			setState(c, ActorState{Position: mgl64.Vec3{0, 1, 0}, Grounded: true, JumpsRemaining: 1})
			c.Tick(testDT)
			st := c.State()
			if st.Grounded {
				t.Fatalf("malformed hit grounded the actor")
			}
			approxEqual(t, st.Position.Y(), 1, "position.y")
		})
	}
}

func TestTick_GrazeClearsGrounded(t *testing.T) {
	caster := RaycasterFunc(func(origin, dir mgl64.Vec3, dist float64, _ LayerMask) (Hit, bool) {
		if dir != Down {
			return Hit{}, false
		}
		// A wall face seen by the downward probe neither opposes x nor y.
		return Hit{Point: origin.Add(dir.Mul(dist / 2)), Normal: mgl64.Vec3{1, 0, 0}}, true
	})
	c := newTestController(t, testConfig(), caster, mgl64.Vec3{})
	setState(c, ActorState{Position: mgl64.Vec3{0, 1, 0}, Grounded: true, JumpsRemaining: 1})
	c.Tick(testDT)
	st := c.State()
	if st.Grounded {
		t.Fatalf("graze kept actor grounded")
	}
	approxEqual(t, st.Position.X(), 0, "position.x")
}

func TestTick_NonPositiveProbeDistanceSkipsCast(t *testing.T) {
	cfg := testConfig()
	var downCasts int
	caster := RaycasterFunc(func(_, dir mgl64.Vec3, dist float64, _ LayerMask) (Hit, bool) {
		if dist <= 0 {
			t.Fatalf("cast issued with distance %v", dist)
		}
		if dir == Down {
			downCasts++
		}
		return Hit{}, false
	})
	c := newTestController(t, cfg, caster, mgl64.Vec3{})
	// Rising fast enough that the down probe's lookahead exceeds the half extent.
	setState(c, ActorState{Position: mgl64.Vec3{0, 5, 0}, Velocity: mgl64.Vec3{0, 61, 0}})
	c.Tick(testDT)
	if downCasts != 0 {
		t.Fatalf("down probe cast %d times, want 0", downCasts)
	}
	if c.State().Grounded {
		t.Fatalf("actor grounded without a down hit")
	}
}

func TestTick_ProbeOrderAndCommit(t *testing.T) {
	c := newTestController(t, testConfig(), floorWorld(), mgl64.Vec3{0, 1.2, 0})
	before := c.CurrentPosition()

	var dirs []mgl64.Vec3
	c.SetProbeObserver(func(tr ProbeTrace) {
		dirs = append(dirs, tr.Direction)
		if got := c.CurrentPosition(); got != before {
			t.Fatalf("position published mid-tick: %v, want %v", got, before)
		}
	})
	c.Tick(testDT)

	want := []mgl64.Vec3{Up, Left, Right, Down}
	if len(dirs) != len(want) {
		t.Fatalf("observed %d probes, want %d", len(dirs), len(want))
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Fatalf("probe %d direction = %v, want %v", i, dirs[i], want[i])
		}
	}
	if c.CurrentPosition() == before {
		t.Fatalf("position not committed after tick")
	}
}

func TestTick_JumpsNeverIncreaseExceptOnLanding(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 3
	w := floorWorld()
	w.add(-50, 3, -2, 3.5, testLayerPlatform)
	w.add(4, -0.5, 5, 6, testLayerSolid)
	c := newTestController(t, cfg, w, mgl64.Vec3{0, 2, 0})

	rng := rand.New(rand.NewPCG(1, 2))
	prev := c.State()
	for i := 0; i < 2000; i++ {
		c.SetHorizontalInput(rng.Float64()*2 - 1)
		if rng.IntN(8) == 0 {
			c.RequestJump()
		}
		c.Tick(testDT)
		st := c.State()
		if st.JumpsRemaining < 0 || st.JumpsRemaining > cfg.MaxJumps {
			t.Fatalf("tick %d: jumpsRemaining %d out of range", i, st.JumpsRemaining)
		}
		if st.JumpsRemaining > prev.JumpsRemaining && (!st.Grounded || st.JumpsRemaining != cfg.MaxJumps) {
			t.Fatalf("tick %d: jumps rose %d -> %d without landing", i, prev.JumpsRemaining, st.JumpsRemaining)
		}
		if st.PendingJump {
			t.Fatalf("tick %d: pending jump survived the tick", i)
		}
		prev = st
	}
}

func TestNewController_Errors(t *testing.T) {
	if _, err := NewController(testConfig(), nil, mgl64.Vec3{}); err == nil {
		t.Fatalf("nil raycaster accepted")
	}
	cfg := testConfig()
	cfg.MaxJumps = 0
	if _, err := NewController(cfg, &boxWorld{}, mgl64.Vec3{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestReconfigure_CarriesStateAndInput(t *testing.T) {
	cfg := testConfig()
	cfg.MaxJumps = 3
	c := newTestController(t, cfg, floorWorld(), mgl64.Vec3{0, 1, 0})
	settle(t, c)
	c.SetHorizontalInput(1)
	c.RequestJump()

	next := cfg
	next.MaxJumps = 2
	next.MoveSpeed = 2
	r, err := c.Reconfigure(next)
	if err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if r.ID() != c.ID() {
		t.Fatalf("id changed across reconfigure")
	}
	if got := r.State().JumpsRemaining; got != 2 {
		t.Fatalf("jumpsRemaining = %d, want clamp to 2", got)
	}

	r.Tick(testDT)
	st := r.State()
	approxEqual(t, st.Velocity.X(), 2, "velocity.x")
	approxEqual(t, st.Velocity.Y(), next.JumpForce, "velocity.y")
	if st.JumpsRemaining != 1 {
		t.Fatalf("jumpsRemaining = %d, want 1", st.JumpsRemaining)
	}

	bad := next
	bad.Gravity = -1
	if _, err := r.Reconfigure(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
