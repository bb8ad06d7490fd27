package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec3 moves a toward b by t, clamping t to [0, 1].
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp(t, 0, 1)
	return mgl64.Vec3{Lerp(a.X(), b.X(), t), Lerp(a.Y(), b.Y(), t), Lerp(a.Z(), b.Z(), t)}
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func FiniteVec3(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
