package main

import "math"

// Camera follows a point in world pixels (y down) and keeps the view inside
// the level.
type Camera struct {
	PosX, PosY float64

	screenW, screenH float64
	worldW, worldH   float64
	// smoothing factor (0..1). higher -> faster follow
	smooth float64
}

func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		screenW: float64(screenW),
		screenH: float64(screenH),
		PosX:    float64(screenW) / 2,
		PosY:    float64(screenH) / 2,
		smooth:  0.15,
	}
}

func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	return c.PosX - c.screenW/2, c.PosY - c.screenH/2
}

func (c *Camera) Update(targetX, targetY float64) {
	c.PosX += (targetX - c.PosX) * c.smooth
	c.PosY += (targetY - c.PosY) * c.smooth
	c.constrain()
}

func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.constrain()
}

func (c *Camera) constrain() {
	c.PosX = math.Round(c.PosX)
	c.PosY = math.Round(c.PosY)
	c.PosX = clampAxis(c.PosX, c.screenW/2, c.worldW)
	c.PosY = clampAxis(c.PosY, c.screenH/2, c.worldH)
}

// clampAxis keeps a view of half size half inside [0, world]. A world smaller
// than the view is centered.
func clampAxis(v, half, world float64) float64 {
	if world <= 0 {
		return v
	}
	if world < 2*half {
		return world / 2
	}
	return math.Max(half, math.Min(world-half, v))
}
