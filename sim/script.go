package sim

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
)

// Input is what an input source asks of the controller for one tick.
type Input struct {
	Axis float64
	Jump bool
}

// Script is a compiled tengo program run once per tick. It reads the globals
// tick, x, y, vx, vy, grounded and jumps, and sets axis and jump.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

func CompileScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	globals := map[string]any{
		"tick":     0,
		"x":        0.0,
		"y":        0.0,
		"vx":       0.0,
		"vy":       0.0,
		"grounded": false,
		"jumps":    0,
		"axis":     0.0,
		"jump":     false,
	}
	for k, v := range globals {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("sim: script %s: add %s: %w", name, k, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("sim: compile %s: %w", name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

// LoadScript compiles a script from prefabs/scripts.
func LoadScript(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("sim: load script %s: %w", name, err)
	}
	return CompileScript(name, src)
}

func (s *Script) Name() string { return s.name }

// Next runs the script against st and returns the input it chose.
func (s *Script) Next(ctx context.Context, st movement.ActorState) (Input, error) {
	vars := []struct {
		name  string
		value any
	}{
		{"tick", int(st.Tick)},
		{"x", st.Position.X()},
		{"y", st.Position.Y()},
		{"vx", st.Velocity.X()},
		{"vy", st.Velocity.Y()},
		{"grounded", st.Grounded},
		{"jumps", st.JumpsRemaining},
		{"axis", 0.0},
		{"jump", false},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return Input{}, fmt.Errorf("sim: script %s: set %s: %w", s.name, v.name, err)
		}
	}
	if err := s.compiled.RunContext(ctx); err != nil {
		return Input{}, fmt.Errorf("sim: run %s at tick %d: %w", s.name, st.Tick, err)
	}
	return Input{
		Axis: s.compiled.Get("axis").Float(),
		Jump: s.compiled.Get("jump").Bool(),
	}, nil
}
