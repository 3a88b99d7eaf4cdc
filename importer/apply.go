package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agusx1211/promptpack/pathsafe"
	"github.com/agusx1211/promptpack/prompt"
)

// ErrNothingToImport is returned when the input holds no files.
var ErrNothingToImport = errors.New("no files found in input")

// Action says what importing a file will do to the disk.
type Action string

const (
	ActionCreate    Action = "create"
	ActionModify    Action = "modify"
	ActionUnchanged Action = "unchanged"
)

// Change is one file of an import.
type Change struct {
	Path     string // sanitized, slash-separated, relative to the root
	Abs      string
	Action   Action
	Content  string
	Previous string
	perm     os.FileMode
}

// ImportPlan is the set of changes an import would make under Root.
type ImportPlan struct {
	Root    string
	Changes []Change
	// Rejected holds the raw paths that would escape Root.
	Rejected []string
}

// NewPlan sanitizes every path against root and compares each file with what
// is on disk. Paths that escape root, directly or through a symlinked
// directory, are recorded as rejected and skipped. When the same path
// appears twice the later content wins.
func NewPlan(root string, files []prompt.FileContent) (*ImportPlan, error) {
	if len(files) == 0 {
		return nil, ErrNothingToImport
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	plan := &ImportPlan{Root: absRoot}
	index := make(map[string]int)
	for _, f := range files {
		rel, ok := pathsafe.SanitizeRelativePath(f.Path)
		if !ok {
			plan.Rejected = append(plan.Rejected, f.Path)
			continue
		}
		err := pathsafe.Contained(absRoot, filepath.Join(absRoot, filepath.FromSlash(rel)))
		if errors.Is(err, pathsafe.ErrOutsideRoot) {
			plan.Rejected = append(plan.Rejected, f.Path)
			continue
		}
		if err != nil {
			return nil, err
		}
		change, err := classify(absRoot, rel, f.Content)
		if err != nil {
			return nil, err
		}
		if i, dup := index[rel]; dup {
			plan.Changes[i] = change
			continue
		}
		index[rel] = len(plan.Changes)
		plan.Changes = append(plan.Changes, change)
	}
	return plan, nil
}

func classify(root, rel, content string) (Change, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	change := Change{Path: rel, Abs: abs, Content: content, Action: ActionCreate, perm: 0o644}

	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return change, nil
	}
	if err != nil {
		return Change{}, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return Change{}, fmt.Errorf("cannot import %s: a directory exists at that path", rel)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Change{}, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	change.Previous = string(data)
	change.perm = info.Mode().Perm()
	if change.Previous == content {
		change.Action = ActionUnchanged
	} else {
		change.Action = ActionModify
	}
	return change, nil
}

// Pending returns the changes that write to disk.
func (p *ImportPlan) Pending() []Change {
	var out []Change
	for _, c := range p.Changes {
		if c.Action != ActionUnchanged {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many changes have the given action.
func (p *ImportPlan) Count(a Action) int {
	n := 0
	for _, c := range p.Changes {
		if c.Action == a {
			n++
		}
	}
	return n
}

// Diff renders a line diff of the change, "-" for removed and "+" for added
// lines.
func (c Change) Diff() string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(c.Previous, c.Content)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Apply writes every created or modified file of plan and returns how many
// were written. It stops at the first failure.
func Apply(plan *ImportPlan, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	written := 0
	for _, c := range plan.Pending() {
		if err := writeAtomic(plan.Root, c.Abs, []byte(c.Content), c.perm); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", c.Path, err)
		}
		logger.Info("import: wrote file", slog.String("path", c.Path), slog.String("action", string(c.Action)))
		written++
	}
	for _, p := range plan.Rejected {
		logger.Warn("import: skipped path outside root", slog.String("path", p))
	}
	return written, nil
}

// writeAtomic writes content to a temp file next to path, syncs it and
// renames it into place. The directory must resolve inside root.
func writeAtomic(root, path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := pathsafe.Contained(root, dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".promptpack-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}
