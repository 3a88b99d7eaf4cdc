package selection

import (
	"strings"

	"github.com/agusx1211/promptpack/prompt"
)

// Set is an ordered selection of slash-separated relative paths. The zero
// value is empty and ready to use. A Set is not safe for concurrent use.
type Set struct {
	paths []string
	index map[string]struct{}
}

// NewSet returns a set holding paths in order.
func NewSet(paths ...string) *Set {
	s := &Set{}
	s.AddAll(paths)
	return s
}

// Add appends path unless it is empty, binary or already selected. It
// reports whether the set changed.
func (s *Set) Add(path string) bool {
	path = prompt.NormalizePath(path)
	if path == "" || IsBinaryPath(path) || s.Has(path) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[path] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// AddAll adds every path in order and returns how many were new.
func (s *Set) AddAll(paths []string) int {
	n := 0
	for _, p := range paths {
		if s.Add(p) {
			n++
		}
	}
	return n
}

// Remove drops path and reports whether it was selected.
func (s *Set) Remove(path string) bool {
	path = prompt.NormalizePath(path)
	if !s.Has(path) {
		return false
	}
	delete(s.index, path)
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes path when selected and adds it otherwise. It returns
// whether path is selected afterwards.
func (s *Set) Toggle(path string) bool {
	if s.Remove(path) {
		return false
	}
	return s.Add(path)
}

// ToggleFolder flips the selection of every file under folder. When all of
// files are already selected they are removed, otherwise the missing ones
// are added. files are the folder's scanned contents.
func (s *Set) ToggleFolder(folder string, files []string) {
	prefix := strings.TrimSuffix(prompt.NormalizePath(folder), "/")
	var under []string
	for _, f := range files {
		f = prompt.NormalizePath(f)
		if prefix == "" || prefix == "." || f == prefix || strings.HasPrefix(f, prefix+"/") {
			if !IsBinaryPath(f) {
				under = append(under, f)
			}
		}
	}
	if len(under) == 0 {
		return
	}

	all := true
	for _, f := range under {
		if !s.Has(f) {
			all = false
			break
		}
	}
	if all {
		for _, f := range under {
			s.Remove(f)
		}
		return
	}
	s.AddAll(under)
}

// Reorder replaces the order with order. Paths not in order are dropped and
// unknown paths in order are ignored.
func (s *Set) Reorder(order []string) {
	var next []string
	seen := make(map[string]struct{}, len(order))
	for _, p := range order {
		p = prompt.NormalizePath(p)
		if _, dup := seen[p]; dup || !s.Has(p) {
			continue
		}
		seen[p] = struct{}{}
		next = append(next, p)
	}
	s.paths = next
	s.index = seen
}

// Clear empties the set.
func (s *Set) Clear() {
	s.paths = nil
	s.index = nil
}

// Has reports whether path is selected.
func (s *Set) Has(path string) bool {
	_, ok := s.index[prompt.NormalizePath(path)]
	return ok
}

// Paths returns a copy of the selection in order.
func (s *Set) Paths() []string {
	return append([]string(nil), s.paths...)
}

func (s *Set) Len() int { return len(s.paths) }
