package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/logger"
)

func main() {
	debug := flag.Bool("debug", false, "draw probes and actor state")
	watch := flag.Bool("watch", false, "reload prefabs/movement.yaml on change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	log := logger.Init(logger.Config{Level: *logLevel, Format: "console"})

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")

	game, err := NewGame(*levelName, *debug, *watch)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error("game exited", "error", err)
		os.Exit(1)
	}
}
