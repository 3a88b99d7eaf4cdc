// Package pathsafe keeps paths taken from model output inside a root
// directory.
package pathsafe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned by Resolve for paths that are absolute, empty
// or climb above the root.
var ErrOutsideRoot = errors.New("path escapes root")

// SanitizeRelativePath normalizes p into a clean slash-separated relative
// path. It returns false when p is empty, absolute, or tries to ascend above
// its root; such paths must be skipped, never clamped.
func SanitizeRelativePath(p string) (string, bool) {
	norm := strings.ReplaceAll(p, `\`, "/")
	if norm == "" || strings.HasPrefix(norm, "/") {
		return "", false
	}

	var stack []string
	for i, seg := range strings.Split(norm, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) == 0 {
				return "", false
			}
			stack = stack[:len(stack)-1]
		default:
			if i == 0 && isDriveLetter(seg) {
				return "", false
			}
			stack = append(stack, seg)
		}
	}
	if len(stack) == 0 {
		return "", false
	}
	return strings.Join(stack, "/"), true
}

// isDriveLetter matches a Windows volume such as "C:".
func isDriveLetter(seg string) bool {
	if len(seg) != 2 || seg[1] != ':' {
		return false
	}
	c := seg[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Resolve sanitizes p and joins it onto root using the OS separator.
func Resolve(root, p string) (string, error) {
	clean, ok := SanitizeRelativePath(p)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, p)
	}
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}

// Contained checks that path, a location under root, stays under root once
// symlinks are followed. Only the longest existing prefix of path is
// resolved, so path itself need not exist yet.
func Contained(root, path string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	existing := path
	for {
		real, err := filepath.EvalSymlinks(existing)
		if err == nil {
			if real != realRoot && !strings.HasPrefix(real, realRoot+string(os.PathSeparator)) {
				return fmt.Errorf("%w: %s resolves to %s", ErrOutsideRoot, path, real)
			}
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to resolve %s: %w", existing, err)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
		}
		existing = parent
	}
}
