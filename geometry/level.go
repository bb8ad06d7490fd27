package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/levels"
)

// FromLevel builds the static collision world of lvl. Tiles are tileSize
// world units wide, rows are flipped so y points up, and solid walls enclose
// the level bounds.
func FromLevel(lvl *levels.Level, tileSize float64) *Space {
	s := NewSpace()
	if lvl == nil || tileSize <= 0 {
		return s
	}

	for i := range lvl.Layers {
		meta := lvl.Meta(i)
		if !meta.Physics {
			continue
		}
		layer := LayerSolid
		if meta.Collision == levels.CollisionPlatform {
			layer = LayerPlatform
		}
		for _, r := range mergeTiles(lvl, i) {
			minX := float64(r.x) * tileSize
			maxX := float64(r.x+r.w) * tileSize
			minY := float64(lvl.Height-(r.y+r.h)) * tileSize
			maxY := float64(lvl.Height-r.y) * tileSize
			s.AddBox(minX, minY, maxX, maxY, layer)
		}
	}

	worldW := float64(lvl.Width) * tileSize
	worldH := float64(lvl.Height) * tileSize
	s.AddBox(-tileSize, -tileSize, worldW+tileSize, 0, LayerSolid)
	s.AddBox(-tileSize, worldH, worldW+tileSize, worldH+tileSize, LayerSolid)
	s.AddBox(-tileSize, 0, 0, worldH, LayerSolid)
	s.AddBox(worldW, 0, worldW+tileSize, worldH, LayerSolid)
	return s
}

// SpawnPoint returns the world position of the level's spawn tile center.
func SpawnPoint(lvl *levels.Level, tileSize float64) mgl64.Vec3 {
	if lvl == nil {
		return mgl64.Vec3{}
	}
	x := (float64(lvl.SpawnX) + 0.5) * tileSize
	y := (float64(lvl.Height-lvl.SpawnY) - 0.5) * tileSize
	return mgl64.Vec3{x, y, 0}
}

type tileRect struct {
	x, y, w, h int
}

// mergeTiles covers the non-empty tiles of a layer with rectangles, greedily
// expanding each one in width and then height so the world holds fewer
// boxes than tiles.
func mergeTiles(lvl *levels.Level, layer int) []tileRect {
	processed := make([]bool, lvl.Width*lvl.Height)
	var rects []tileRect
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			idx := y*lvl.Width + x
			if processed[idx] {
				continue
			}
			if lvl.Tile(layer, x, y) == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < lvl.Width {
				idx2 := y*lvl.Width + (x + w)
				if processed[idx2] || lvl.Tile(layer, x+w, y) == 0 {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < lvl.Height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*lvl.Width + xi
					if processed[idx2] || lvl.Tile(layer, xi, y+h) == 0 {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*lvl.Width+xx] = true
				}
			}
			rects = append(rects, tileRect{x: x, y: y, w: w, h: h})
		}
	}
	return rects
}
