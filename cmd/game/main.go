package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/application/game"
	"github.com/younwookim/edgeslide/internal/application/replay"
	"github.com/younwookim/edgeslide/internal/application/scene/playing"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
	"github.com/younwookim/edgeslide/internal/infrastructure/logging"
)

type options struct {
	configDir string
	level     string
	record    string
	replay    string
	watch     bool
	list      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", "", "Config directory (default: built-in configs)")
	flag.StringVar(&opts.level, "level", "demo", "Level to play")
	flag.StringVar(&opts.record, "record", "", "Record input to file (e.g., -record replay.json)")
	flag.StringVar(&opts.replay, "replay", "", "Play back a recorded replay instead of the keyboard")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the level when its file changes (requires -config)")
	flag.BoolVar(&opts.list, "list", false, "List available levels and exit")
	logLevel := flag.String("log", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(opts, logger); err != nil {
		logger.Error("game stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(opts options, logger *zap.Logger) error {
	loader, err := newLoader(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to open configs: %w", err)
	}

	if opts.list {
		names, err := loader.LevelNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	physics, err := loader.LoadPhysics()
	if err != nil {
		return err
	}

	sceneOpts := playing.Options{
		Loader:     loader,
		Physics:    physics,
		Level:      opts.level,
		RecordPath: opts.record,
		Logger:     logger,
	}

	if opts.replay != "" {
		data, err := replay.LoadReplay(opts.replay)
		if err != nil {
			return fmt.Errorf("failed to load replay %s: %w", opts.replay, err)
		}
		sceneOpts.Replay = data
		logger.Info("replaying",
			zap.String("file", opts.replay),
			zap.String("replay", data.ID),
			zap.String("level", data.Level),
			zap.Int("frames", len(data.Frames)))
	}

	if opts.watch {
		if opts.configDir == "" {
			return errors.New("-watch needs -config: built-in configs cannot change")
		}
		watcher, err := config.NewWatcher(opts.configDir, logger)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.configDir, err)
		}
		defer func() { _ = watcher.Close() }()
		go func() {
			for err := range watcher.Errors {
				logger.Warn("config watcher error", zap.Error(err))
			}
		}()
		sceneOpts.Reloads = watcher.Events
	}

	scene, err := playing.New(sceneOpts)
	if err != nil {
		return err
	}

	display := physics.Display
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight, logger)

	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("edgeslide")
	ebiten.SetTPS(display.Framerate)

	return ebiten.RunGame(g)
}
