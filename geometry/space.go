package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/movement"
)

// Space is a static 2D collision world on the xy plane backed by a Chipmunk
// space. It answers movement probes.
type Space struct {
	space *cp.Space
	boxes []Box
}

type Box struct {
	Bounds movement.AABB
	Layer  movement.LayerMask
}

var _ movement.Raycaster = (*Space)(nil)

func NewSpace() *Space {
	return &Space{space: cp.NewSpace()}
}

// AddBox adds a static box on layer.
func (s *Space) AddBox(minX, minY, maxX, maxY float64, layer movement.LayerMask) {
	if s == nil || s.space == nil || maxX <= minX || maxY <= minY {
		return
	}
	bb := cp.BB{L: minX, B: minY, R: maxX, T: maxY}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	s.space.AddShape(shape)

	s.boxes = append(s.boxes, Box{
		Bounds: movement.AABB{Min: mgl64.Vec3{minX, minY, 0}, Max: mgl64.Vec3{maxX, maxY, 0}},
		Layer:  layer,
	})
}

// Boxes returns the static boxes in insertion order.
func (s *Space) Boxes() []Box {
	if s == nil {
		return nil
	}
	return append([]Box(nil), s.boxes...)
}

// Cast finds the first shape on a layer in mask along direction. Only the x
// and y components of origin and direction are used; the hit keeps origin's
// z. A shape containing the origin is not reported, so a ray cast from
// inside a box passes out through it and finds what lies beyond.
func (s *Space) Cast(origin, direction mgl64.Vec3, maxDistance float64, mask movement.LayerMask) (movement.Hit, bool) {
	if s == nil || s.space == nil || !(maxDistance > 0) || mask == 0 {
		return movement.Hit{}, false
	}
	dir := cp.Vector{X: direction.X(), Y: direction.Y()}
	if dir.LengthSq() == 0 {
		return movement.Hit{}, false
	}
	start := cp.Vector{X: origin.X(), Y: origin.Y()}
	end := start.Add(dir.Mult(maxDistance))

	// SegmentQueryFirst reports a shape around the start at alpha 0, so the
	// nearest hit is picked here instead.
	best := cp.SegmentQueryInfo{Alpha: math.Inf(1)}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	s.space.SegmentQuery(start, end, 0, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
		if alpha >= best.Alpha || shape.PointQuery(start).Distance < 0 {
			return
		}
		best = cp.SegmentQueryInfo{Shape: shape, Point: point, Normal: normal, Alpha: alpha}
	}, nil)
	if best.Shape == nil {
		return movement.Hit{}, false
	}

	bb := best.Shape.BB()
	z := origin.Z()
	return movement.Hit{
		Point:  mgl64.Vec3{best.Point.X, best.Point.Y, z},
		Normal: mgl64.Vec3{best.Normal.X, best.Normal.Y, 0},
		Bounds: movement.AABB{
			Min: mgl64.Vec3{bb.L, bb.B, math.Inf(-1)},
			Max: mgl64.Vec3{bb.R, bb.T, math.Inf(1)},
		},
	}, true
}
