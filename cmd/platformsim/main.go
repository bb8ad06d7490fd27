package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/milk9111/platformer/geometry"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/logger"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/sim"
)

func main() {
	levelName := flag.String("level", "", "level name in levels/ or a path to a level file (default demo)")
	scriptName := flag.String("script", "walk_and_jump", "input script in prefabs/scripts (basename, .tengo optional)")
	ticks := flag.Int("ticks", 600, "ticks to simulate; 0 runs until interrupted in -realtime mode")
	every := flag.Int("every", 30, "log the actor state every n ticks")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "console", "console, text or json")
	realtime := flag.Bool("realtime", false, "pace ticks against the wall clock")
	watch := flag.Bool("watch", false, "reload prefabs on change (with -realtime)")
	flag.Parse()

	log := logger.Init(logger.Config{Level: *logLevel, Format: *logFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options{
		level:    *levelName,
		script:   *scriptName,
		ticks:    *ticks,
		every:    *every,
		realtime: *realtime,
		watch:    *watch,
	}); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("platformsim failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	level    string
	script   string
	ticks    int
	every    int
	realtime bool
	watch    bool
}

func run(ctx context.Context, opts options) error {
	log := logger.L()

	spec, err := prefabs.LoadMovementSpec()
	if err != nil {
		return err
	}
	cfg, err := spec.Config()
	if err != nil {
		return err
	}
	lvl, err := levels.Resolve(opts.level)
	if err != nil {
		return err
	}
	world := geometry.FromLevel(lvl, spec.Tile())
	controller, err := movement.NewController(cfg, world, geometry.SpawnPoint(lvl, spec.Tile()))
	if err != nil {
		return err
	}
	script, err := sim.LoadScript(opts.script)
	if err != nil {
		return err
	}
	driver, err := sim.NewDriver(controller, script, spec.TickSeconds())
	if err != nil {
		return err
	}
	log.Info("simulating",
		"level", opts.level,
		"boxes", len(world.Boxes()),
		"script", script.Name(),
		"spawn", fmt.Sprint(controller.CurrentPosition()),
		"tick_rate", spec.TickRate,
	)

	sum := summary{start: controller.CurrentPosition().X()}
	emit := func(f sim.Frame) {
		sum.add(f)
		if opts.every > 0 && f.State.Tick%uint64(opts.every) == 0 {
			logFrame(log, f)
		}
	}

	if !opts.realtime {
		if opts.watch {
			log.Warn("-watch has no effect without -realtime")
		}
		if err := driver.Run(ctx, opts.ticks, emit); err != nil {
			return err
		}
		sum.log(log, driver.Controller().State())
		return nil
	}

	var changes <-chan prefabs.Change
	if opts.watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			return fmt.Errorf("watch %s: %w", prefabs.Dir, err)
		}
		defer w.Close()
		changes = w.Events
	}

	var before func()
	if changes != nil {
		before = func() {
			select {
			case c, ok := <-changes:
				if ok {
					reload(log, driver, c)
				}
			default:
			}
		}
	}
	err = driver.Pace(ctx, time.Duration(spec.TickSeconds()*float64(time.Second)), opts.ticks, before, emit)
	sum.log(log, driver.Controller().State())
	return err
}

func reload(log *slog.Logger, driver *sim.Driver, c prefabs.Change) {
	switch c.Kind {
	case prefabs.KindSpec:
		spec, err := prefabs.LoadMovementSpec()
		if err != nil {
			log.Warn("reload spec", "path", c.Path, "error", err)
			return
		}
		cfg, err := spec.Config()
		if err != nil {
			log.Warn("reload spec", "path", c.Path, "error", err)
			return
		}
		next, err := driver.Controller().Reconfigure(cfg)
		if err != nil {
			log.Warn("reconfigure", "error", err)
			return
		}
		driver.SetController(next)
	case prefabs.KindScript:
		name := strings.TrimSuffix(filepath.Base(c.Path), filepath.Ext(c.Path))
		if name != driver.Script().Name() {
			return
		}
		script, err := sim.LoadScript(name)
		if err != nil {
			log.Warn("reload script", "path", c.Path, "error", err)
			return
		}
		driver.SetScript(script)
		log.Info("script reloaded", "script", name)
	}
}

func logFrame(log *slog.Logger, f sim.Frame) {
	st := f.State
	log.Info("tick",
		"tick", st.Tick,
		"x", round(st.Position.X()),
		"y", round(st.Position.Y()),
		"vx", round(st.Velocity.X()),
		"vy", round(st.Velocity.Y()),
		"grounded", st.Grounded,
		"jumps", st.JumpsRemaining,
		"axis", f.Input.Axis,
	)
}

type summary struct {
	ticks    int
	jumps    int
	landings int
	airborne int
	start    float64
	maxY     float64
	grounded bool
}

func (s *summary) add(f sim.Frame) {
	st := f.State
	if s.ticks == 0 || st.Position.Y() > s.maxY {
		s.maxY = st.Position.Y()
	}
	if f.Input.Jump {
		s.jumps++
	}
	if st.Grounded && !s.grounded && s.ticks > 0 {
		s.landings++
	}
	if !st.Grounded {
		s.airborne++
	}
	s.grounded = st.Grounded
	s.ticks++
}

func (s *summary) log(log *slog.Logger, st movement.ActorState) {
	log.Info("done",
		"ticks", s.ticks,
		"jump_requests", s.jumps,
		"landings", s.landings,
		"airborne_ticks", s.airborne,
		"distance_x", round(st.Position.X()-s.start),
		"max_y", round(s.maxY),
		"final", fmt.Sprint(st.Position),
		"grounded", st.Grounded,
	)
}

func round(v float64) float64 {
	const p = 1000
	if v < 0 {
		return float64(int64(v*p-0.5)) / p
	}
	return float64(int64(v*p+0.5)) / p
}
