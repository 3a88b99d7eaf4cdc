package selection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agusx1211/promptpack/pathsafe"
	"github.com/agusx1211/promptpack/prompt"
	"github.com/agusx1211/promptpack/tokens"
)

// Load reads the selected paths under root through cache and returns their
// contents in selection order together with per-file token counts.
func Load(ctx context.Context, root string, paths []string, cache *tokens.ContentCache) ([]prompt.FileContent, []int, error) {
	files := make([]prompt.FileContent, len(paths))
	counts := make([]int, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0) * 2)

	for i, p := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			abs, err := pathsafe.Resolve(root, p)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", p, err)
			}
			entry, err := cache.Get(abs)
			if err != nil {
				return err
			}
			files[i] = prompt.FileContent{Path: prompt.NormalizePath(p), Content: entry.Content}
			counts[i] = entry.Tokens
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return files, counts, nil
}
