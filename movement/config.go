package movement

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("movement: invalid config")

// LayerMask selects which geometry layers a probe collides with.
type LayerMask uint

func (m LayerMask) Has(layer LayerMask) bool {
	return m&layer != 0
}

// Config is the immutable tuning shared read-only by a Controller.
type Config struct {
	MoveSpeed float64
	JumpForce float64
	// Gravity is subtracted from velocity.y once per airborne tick. It is not
	// scaled by the tick's delta time.
	Gravity     float64
	MaxJumps    int
	HalfExtents mgl64.Vec3
	// GroundMask blocks the downward probe only.
	GroundMask LayerMask
	// SolidMask blocks the up, left and right probes.
	SolidMask LayerMask
}

func (c Config) Validate() error {
	switch {
	case !(c.MoveSpeed > 0):
		return fmt.Errorf("%w: move speed %v must be > 0", ErrInvalidConfig, c.MoveSpeed)
	case !(c.JumpForce > 0):
		return fmt.Errorf("%w: jump force %v must be > 0", ErrInvalidConfig, c.JumpForce)
	case !(c.Gravity >= 0):
		return fmt.Errorf("%w: gravity %v must be >= 0", ErrInvalidConfig, c.Gravity)
	case c.MaxJumps < 1:
		return fmt.Errorf("%w: max jumps %d must be >= 1", ErrInvalidConfig, c.MaxJumps)
	}
	for i, e := range c.HalfExtents {
		if !(e >= 0) {
			return fmt.Errorf("%w: half extent[%d] %v must be >= 0", ErrInvalidConfig, i, e)
		}
	}
	return nil
}
