package replay

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/younwookim/edgeslide/internal/infrastructure/config"
	"github.com/younwookim/edgeslide/internal/infrastructure/logging"
)

// FileResult is the outcome of verifying one replay file.
type FileResult struct {
	File   string
	Result Result
	Err    error
}

// VerifyFiles loads and verifies each file with at most workers running at
// once. A failing file does not stop the others; only cancelling ctx does.
// Results come back in the order of files.
func VerifyFiles(ctx context.Context, loader *config.Loader, physics *config.PhysicsConfig, files []string, workers int, logger *zap.Logger) ([]FileResult, error) {
	logger = logging.OrNop(logger)
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = verifyFile(ctx, loader, physics, file, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func verifyFile(ctx context.Context, loader *config.Loader, physics *config.PhysicsConfig, file string, logger *zap.Logger) FileResult {
	out := FileResult{File: file}
	data, err := LoadReplay(file)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = Verify(ctx, loader, physics, data, logger.With(zap.String("file", file)))
	return out
}
