package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/milk9111/platformer/logger"
	"github.com/milk9111/platformer/movement"
)

// Frame records one simulated tick.
type Frame struct {
	Input Input
	State movement.ActorState
}

// Driver feeds a script's input into a controller one tick at a time.
type Driver struct {
	controller *movement.Controller
	script     *Script
	dt         float64
	log        *slog.Logger
}

func NewDriver(c *movement.Controller, script *Script, dt float64) (*Driver, error) {
	if c == nil || script == nil {
		return nil, fmt.Errorf("sim: driver needs a controller and a script")
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("sim: tick length %v must be > 0", dt)
	}
	return &Driver{
		controller: c,
		script:     script,
		dt:         dt,
		log:        logger.L().With("component", "driver", "script", script.Name()),
	}, nil
}

func (d *Driver) Controller() *movement.Controller { return d.controller }

// SetController swaps in a reconfigured controller.
func (d *Driver) SetController(c *movement.Controller) {
	if c != nil {
		d.controller = c
	}
}

func (d *Driver) Script() *Script { return d.script }

// SetScript swaps the input script; the next Step runs it.
func (d *Driver) SetScript(s *Script) {
	if s != nil {
		d.script = s
		d.log = logger.L().With("component", "driver", "script", s.Name())
	}
}

func (d *Driver) Step(ctx context.Context) (Frame, error) {
	in, err := d.script.Next(ctx, d.controller.State())
	if err != nil {
		return Frame{}, err
	}
	d.controller.SetHorizontalInput(in.Axis)
	if in.Jump {
		d.controller.RequestJump()
	}
	d.controller.Tick(d.dt)
	return Frame{Input: in, State: d.controller.State()}, nil
}

// Run steps ticks times, handing each frame to emit when it is not nil.
func (d *Driver) Run(ctx context.Context, ticks int, emit func(Frame)) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := d.Step(ctx)
		if err != nil {
			d.log.Error("script failed", "tick", i, "error", err)
			return err
		}
		if emit != nil {
			emit(f)
		}
	}
	return nil
}

// Pace steps the driver on a Loop paced against the wall clock. It returns
// nil once limit frames ran (no limit when limit <= 0), the first step error,
// or ctx's error when ctx ends first. before runs ahead of every step when it
// is not nil.
func (d *Driver) Pace(ctx context.Context, step time.Duration, limit int, before func(), emit func(Frame)) error {
	var (
		ran     int
		stepErr error
		loop    *Loop
	)
	loop = NewLoop(step, func(float64) {
		if ctx.Err() != nil {
			loop.Stop()
			return
		}
		if before != nil {
			before()
		}
		f, err := d.Step(ctx)
		if err != nil {
			d.log.Error("script failed", "tick", ran, "error", err)
			stepErr = err
			loop.Stop()
			return
		}
		ran++
		if emit != nil {
			emit(f)
		}
		if limit > 0 && ran >= limit {
			loop.Stop()
		}
	})
	err := loop.Run(ctx)
	switch {
	case stepErr != nil:
		return stepErr
	case limit > 0 && ran >= limit:
		return nil
	case err != nil:
		return err
	}
	return ctx.Err()
}
