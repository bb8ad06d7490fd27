package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/geometry"
	"github.com/milk9111/platformer/movement"
	"gopkg.in/yaml.v3"
)

const MovementFile = "movement.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// MovementSpec is the tuning of the controlled actor.
type MovementSpec struct {
	Name         string   `yaml:"name"`
	MoveSpeed    float64  `yaml:"move_speed"`
	JumpForce    float64  `yaml:"jump_force"`
	Gravity      float64  `yaml:"gravity"`
	MaxJumps     int      `yaml:"max_jumps"`
	HalfExtents  Vec3Spec `yaml:"half_extents"`
	GroundLayers []string `yaml:"ground_layers"`
	SolidLayers  []string `yaml:"solid_layers"`
	// InterpolationSpeed drives how fast the drawn actor eases toward its
	// simulated position, per second.
	InterpolationSpeed float64 `yaml:"interpolation_speed"`
	TickRate           int     `yaml:"tick_rate"`
	TileSize           float64 `yaml:"tile_size"`
}

func LoadMovementSpec() (*MovementSpec, error) {
	spec, err := LoadSpec[MovementSpec](MovementFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the tuning into a validated controller config.
func (s *MovementSpec) Config() (movement.Config, error) {
	ground, err := geometry.MaskOf(s.GroundLayers...)
	if err != nil {
		return movement.Config{}, fmt.Errorf("prefabs: %s ground_layers: %w", s.Name, err)
	}
	solid, err := geometry.MaskOf(s.SolidLayers...)
	if err != nil {
		return movement.Config{}, fmt.Errorf("prefabs: %s solid_layers: %w", s.Name, err)
	}
	cfg := movement.Config{
		MoveSpeed:   s.MoveSpeed,
		JumpForce:   s.JumpForce,
		Gravity:     s.Gravity,
		MaxJumps:    s.MaxJumps,
		HalfExtents: s.HalfExtents.Vec3(),
		GroundMask:  ground,
		SolidMask:   solid,
	}
	if err := cfg.Validate(); err != nil {
		return movement.Config{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	return cfg, nil
}

// TickSeconds returns the fixed step length, defaulting to 60 Hz.
func (s *MovementSpec) TickSeconds() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

func (s *MovementSpec) Tile() float64 {
	if s.TileSize <= 0 {
		return 1
	}
	return s.TileSize
}
