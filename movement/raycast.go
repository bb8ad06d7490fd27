package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
)

// Raycaster is the geometry query service probes run against.
type Raycaster interface {
	// Cast returns the nearest surface on a layer in mask along direction
	// within maxDistance of origin.
	Cast(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool)
}

// RaycasterFunc adapts a function to Raycaster.
type RaycasterFunc func(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool)

func (f RaycasterFunc) Cast(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	return f(origin, direction, maxDistance, mask)
}

type Hit struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	// Bounds of the surface that was hit.
	Bounds AABB
}

// BoundsClosestPoint returns the point of the hit surface's bounds nearest to p.
func (h Hit) BoundsClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return h.Bounds.ClosestPoint(p)
}

func (h Hit) valid() bool {
	if !common.FiniteVec3(h.Point) || !common.FiniteVec3(h.Normal) {
		return false
	}
	return h.Normal.Len() > 0
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func (b AABB) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range p {
		out[i] = clampAxis(p[i], b.Min[i], b.Max[i])
	}
	return out
}

func (b AABB) Contains(p mgl64.Vec3) bool {
	for i := range p {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}
