package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agusx1211/promptpack/pathsafe"
	"github.com/agusx1211/promptpack/prompt"
	"github.com/agusx1211/promptpack/selection"
	"github.com/agusx1211/promptpack/tokens"
)

// selectionFlags are the filter flags shared by every command that selects
// files.
type selectionFlags struct {
	includeGitIgnore bool
	includeGit       bool
	includeBin       bool
	include          []string
	exclude          []string
	profile          string
	preset           string
	model            string
}

// project is a root directory with its config, filter and token cache.
type project struct {
	root      string
	cfg       *projectConfig
	filter    *selection.Filter
	tokenizer *tokens.Tokenizer
	cache     *tokens.ContentCache
	logger    *slog.Logger
}

func openProject(root string, flags selectionFlags, logger *slog.Logger) (*project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	cfg, err := readProjectConfig(absRoot)
	if err != nil {
		return nil, err
	}
	include, exclude, err := cfg.rules(flags.profile)
	if err != nil {
		return nil, err
	}

	filter, err := selection.NewFilter(absRoot, selection.FilterOptions{
		IncludeGitIgnored: flags.includeGitIgnore || !cfg.respectGitignore(),
		IncludeGit:        flags.includeGit,
		IncludeBin:        flags.includeBin,
		Ignore:            append([]string{"/" + configFileName}, cfg.Ignore...),
		Include:           append(include, flags.include...),
		Exclude:           append(exclude, flags.exclude...),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}

	model := flags.model
	if model == "" {
		model = cfg.Model
	}
	tokenizer := tokens.New(model)

	return &project{
		root:      absRoot,
		cfg:       cfg,
		filter:    filter,
		tokenizer: tokenizer,
		cache:     tokens.NewContentCache(tokenizer, logger),
		logger:    logger,
	}, nil
}

// selectPaths builds the ordered selection from a preset or from args. Each
// arg is a file or a directory to scan; no args means the whole root.
func (p *project) selectPaths(args []string, preset string) (*selection.Set, error) {
	if preset != "" {
		paths, ok := p.cfg.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("preset %q not found in %s", preset, configFileName)
		}
		set := selection.NewSet()
		for _, rel := range paths {
			abs, err := pathsafe.Resolve(p.root, rel)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", preset, err)
			}
			if _, err := os.Stat(abs); err != nil {
				p.logger.Warn("preset: skipping missing file", slog.String("preset", preset), slog.String("path", rel))
				continue
			}
			set.Add(rel)
		}
		return set, nil
	}

	if len(args) == 0 {
		args = []string{p.root}
	}
	set := selection.NewSet()
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		rel, err := filepath.Rel(p.root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%s is outside the project root %s", arg, p.root)
		}
		paths, err := selection.Scan(abs, p.filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load directory structure: %w", err)
		}
		added := set.AddAll(paths)
		p.logger.Debug("selection: scanned", slog.String("path", arg), slog.Int("files", added))
	}
	return set, nil
}

func (p *project) load(ctx context.Context, set *selection.Set) ([]prompt.FileContent, []int, error) {
	if set.Len() == 0 {
		return nil, nil, fmt.Errorf("no files selected under %s", p.root)
	}
	files, counts, err := selection.Load(ctx, p.root, set.Paths(), p.cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load files: %w", err)
	}
	if err := p.tokenizer.Err(); err != nil {
		p.logger.Debug("tokens: using estimate", slog.String("error", err.Error()))
	}
	stats := p.cache.Stats()
	p.logger.Debug("cache: loaded",
		slog.Int("files", len(files)),
		slog.Int64("hits", stats.Hits),
		slog.Int64("misses", stats.Misses))
	return files, counts, nil
}
