package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ProbeTrace describes one directional probe of a tick.
type ProbeTrace struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Distance  float64
	Hit       Hit
	HitOK     bool
	// Horizontal and Vertical report which axes the hit blocked.
	Horizontal bool
	Vertical   bool
	// Corrected is the candidate position after this probe.
	Corrected mgl64.Vec3
}

func (t ProbeTrace) End() mgl64.Vec3 {
	return t.Origin.Add(t.Direction.Mul(math.Max(t.Distance, 0)))
}

// resolver corrects one tick's candidate position probe by probe.
type resolver struct {
	cfg      Config
	caster   Raycaster
	observer func(ProbeTrace)

	st        *ActorState
	candidate mgl64.Vec3
	dt        float64
}

func (r *resolver) probe(dir mgl64.Vec3, mask LayerMask) {
	st := r.st
	down := dir.Y() < 0

	// Moving away from the probed side shortens the probe so the surface
	// being left is not found again.
	along := dir.Dot(st.Velocity)
	bias := 0.0
	if along < 0 {
		bias = along * r.dt
	}
	half := math.Abs(dir.Dot(r.cfg.HalfExtents))
	distance := half + bias

	trace := ProbeTrace{Origin: r.candidate, Direction: dir, Distance: distance}
	defer func() {
		if r.observer != nil {
			trace.Corrected = r.candidate
			r.observer(trace)
		}
	}()

	hit, ok := r.cast(dir, distance, mask)
	if !ok {
		if down {
			st.Grounded = false
		}
		return
	}
	trace.Hit, trace.HitOK = hit, true

	horizontal := opposes(hit.Normal.X(), dir.X())
	vertical := opposes(hit.Normal.Y(), dir.Y())
	trace.Horizontal, trace.Vertical = horizontal, vertical
	if !horizontal && !vertical {
		if down {
			st.Grounded = false
		}
		return
	}

	if down {
		// A surface only grounds the actor while it is not rising through it.
		st.Grounded = st.Velocity.Y() <= 0
		if st.Grounded {
			st.JumpsRemaining = r.cfg.MaxJumps
		}
	}

	closest := hit.BoundsClosestPoint(hit.Point)
	if horizontal {
		r.candidate[0] = closest.X() - dir.X()*half
	}
	if vertical && (!down || st.Grounded) {
		r.candidate[1] = closest.Y() - dir.Y()*half
		st.Velocity[1] = 0
		st.Displacement[1] = 0
	}
}

func (r *resolver) cast(dir mgl64.Vec3, distance float64, mask LayerMask) (Hit, bool) {
	if !(distance > 0) {
		return Hit{}, false
	}
	hit, ok := r.caster.Cast(r.candidate, dir, distance, mask)
	if !ok || !hit.valid() {
		return Hit{}, false
	}
	return hit, true
}

// opposes reports whether a normal component points against a probe
// direction component. A zero component never opposes.
func opposes(normal, direction float64) bool {
	return normal*direction < 0
}
