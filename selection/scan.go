package selection

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scan walks root and returns the slash-separated relative paths of every
// file the filter admits. Entries are visited in name order, depth first.
// Symlinked directories are not followed.
func Scan(root string, filter *Filter) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", root, err)
	}
	if !info.IsDir() {
		if !filter.ShouldInclude(info, root) {
			return nil, nil
		}
		rel, ok := filter.Rel(root)
		if !ok {
			return nil, fmt.Errorf("failed to relativize %s", root)
		}
		return []string{rel}, nil
	}

	var paths []string
	if err := scanDir(root, filter, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func scanDir(dir string, filter *Filter, paths *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, item := range entries {
		childPath := filepath.Join(dir, item.Name())
		if item.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(childPath)
			if err != nil || target.IsDir() {
				continue
			}
		}
		info, err := os.Stat(childPath)
		if err != nil {
			return fmt.Errorf("failed to stat path %s: %w", childPath, err)
		}
		if !filter.ShouldInclude(info, childPath) {
			continue
		}
		if info.IsDir() {
			if err := scanDir(childPath, filter, paths); err != nil {
				return err
			}
			continue
		}
		if rel, ok := filter.Rel(childPath); ok {
			*paths = append(*paths, rel)
		}
	}
	return nil
}
