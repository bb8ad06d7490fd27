package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/geometry"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/logger"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// pixelsPerUnit maps one world unit to screen pixels.
	pixelsPerUnit = 32
)

type Game struct {
	frames int
	debug  bool

	input      *Input
	camera     *Camera
	controller *movement.Controller
	world      *geometry.Space
	spec       *prefabs.MovementSpec
	worldH     float64

	// visual is where the actor is drawn; it eases toward the simulated
	// position.
	visual mgl64.Vec3
	probes []movement.ProbeTrace

	watcher *prefabs.Watcher
	log     *slog.Logger
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	log := logger.L().With("component", "game")

	spec, err := prefabs.LoadMovementSpec()
	if err != nil {
		return nil, err
	}
	cfg, err := spec.Config()
	if err != nil {
		return nil, err
	}
	lvl, err := levels.Resolve(levelName)
	if err != nil {
		return nil, err
	}
	tile := spec.Tile()
	world := geometry.FromLevel(lvl, tile)
	spawn := geometry.SpawnPoint(lvl, tile)
	controller, err := movement.NewController(cfg, world, spawn)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:      debug,
		input:      &Input{},
		camera:     NewCamera(baseWidth, baseHeight),
		controller: controller,
		world:      world,
		spec:       spec,
		worldH:     float64(lvl.Height) * tile,
		visual:     spawn,
		log:        log,
	}
	controller.SetProbeObserver(g.observeProbe)
	g.camera.SetWorldBounds(float64(lvl.Width)*tile*pixelsPerUnit, g.worldH*pixelsPerUnit)
	g.camera.SnapTo(g.toScreen(spawn))

	if tps := spec.TickRate; tps > 0 {
		ebiten.SetTPS(tps)
	}

	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Warn("hot reload disabled", "dir", prefabs.Dir, "error", err)
		} else {
			g.watcher = w
		}
	}

	log.Info("level loaded", "level", levelName, "boxes", len(world.Boxes()), "spawn", fmt.Sprint(spawn))
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) observeProbe(p movement.ProbeTrace) {
	if g.debug {
		g.probes = append(g.probes, p)
	}
}

func (g *Game) Update() error {
	g.frames++

	g.input.Update()
	if g.input.Quit {
		return ebiten.Termination
	}
	if g.input.DebugToggled {
		g.debug = !g.debug
	}
	g.pollReload()

	g.input.Apply(g.controller)
	dt := 1.0 / float64(ebiten.TPS())
	g.probes = g.probes[:0]
	g.controller.Tick(dt)

	g.visual = common.LerpVec3(g.visual, g.controller.CurrentPosition(), g.spec.InterpolationSpeed*dt)
	g.camera.Update(g.toScreen(g.visual))
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case c, ok := <-g.watcher.Events:
		if !ok || c.Kind != prefabs.KindSpec {
			return
		}
		spec, err := prefabs.LoadMovementSpec()
		if err != nil {
			g.log.Warn("reload", "path", c.Path, "error", err)
			return
		}
		cfg, err := spec.Config()
		if err != nil {
			g.log.Warn("reload", "path", c.Path, "error", err)
			return
		}
		next, err := g.controller.Reconfigure(cfg)
		if err != nil {
			g.log.Warn("reconfigure", "error", err)
			return
		}
		g.controller = next
		g.spec = spec
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.log.Warn("watcher", "error", err)
		}
	default:
	}
}

// toScreen maps a world position to world pixels with y pointing down.
func (g *Game) toScreen(p mgl64.Vec3) (float64, float64) {
	return p.X() * pixelsPerUnit, (g.worldH - p.Y()) * pixelsPerUnit
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	camX, camY := g.camera.ViewTopLeft()

	for _, b := range g.world.Boxes() {
		clr := color.Color(colornames.Slategray)
		if b.Layer == geometry.LayerPlatform {
			clr = colornames.Peru
		}
		g.fillBox(screen, b.Bounds.Min, b.Bounds.Max, camX, camY, clr)
	}

	half := g.controller.Config().HalfExtents
	g.fillBox(screen, g.visual.Sub(half), g.visual.Add(half), camX, camY, colornames.Gold)

	if g.debug {
		g.drawDebug(screen, camX, camY)
	}
}

func (g *Game) fillBox(screen *ebiten.Image, lo, hi mgl64.Vec3, camX, camY float64, clr color.Color) {
	x0, y1 := g.toScreen(lo)
	x1, y0 := g.toScreen(hi)
	vector.FillRect(screen, float32(x0-camX), float32(y0-camY), float32(x1-x0), float32(y1-y0), clr, false)
}

func (g *Game) drawDebug(screen *ebiten.Image, camX, camY float64) {
	st := g.controller.State()
	half := g.controller.Config().HalfExtents

	// simulated bounds, against the eased sprite
	x0, y1 := g.toScreen(st.Position.Sub(half))
	x1, y0 := g.toScreen(st.Position.Add(half))
	vector.StrokeRect(screen, float32(x0-camX), float32(y0-camY), float32(x1-x0), float32(y1-y0), 1, colornames.White, false)

	for _, p := range g.probes {
		ox, oy := g.toScreen(p.Origin)
		ex, ey := g.toScreen(p.End())
		clr := color.Color(colornames.Limegreen)
		if p.HitOK {
			clr = colornames.Red
			ex, ey = g.toScreen(p.Hit.Point)
			vector.FillRect(screen, float32(ex-camX)-2, float32(ey-camY)-2, 4, 4, colornames.Yellow, false)
		}
		vector.StrokeLine(screen, float32(ox-camX), float32(oy-camY), float32(ex-camX), float32(ey-camY), 1, clr, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS: %.0f  FPS: %.2f  tick: %d\npos: (%.3f, %.3f)  vel: (%.3f, %.3f)\ngrounded: %v  jumps: %d/%d  input: %.2f",
		ebiten.ActualTPS(), ebiten.ActualFPS(), st.Tick,
		st.Position.X(), st.Position.Y(), st.Velocity.X(), st.Velocity.Y(),
		st.Grounded, st.JumpsRemaining, g.controller.Config().MaxJumps, st.HorizontalInput,
	))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
