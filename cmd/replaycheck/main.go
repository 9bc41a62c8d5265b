// Command replaycheck re-simulates recorded replays without a window and
// reports whether each one still reproduces its recorded checksum.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/application/replay"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
	"github.com/younwookim/edgeslide/internal/infrastructure/logging"
)

func main() {
	configDir := flag.String("config", "cmd/game/configs", "Config directory the replays were recorded with")
	workers := flag.Int("j", runtime.NumCPU(), "Replays verified at once")
	logLevel := flag.String("log", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] replay.json...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed, err := run(ctx, *configDir, flag.Args(), *workers, logger)
	if err != nil {
		logger.Error("replaycheck failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	if failed > 0 {
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, configDir string, files []string, workers int, logger *zap.Logger) (int, error) {
	loader := config.NewLoader(configDir)
	physics, err := loader.LoadPhysics()
	if err != nil {
		return 0, err
	}

	results, err := replay.VerifyFiles(ctx, loader, physics, files, workers, logger)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", r.File, r.Err)
			continue
		}
		fmt.Printf("ok   %s  %s  %d frames  %016x\n", r.File, r.Result.Level, r.Result.Frames, r.Result.Checksum)
	}
	fmt.Printf("%d/%d replays reproduced\n", len(results)-failed, len(results))
	return failed, nil
}
