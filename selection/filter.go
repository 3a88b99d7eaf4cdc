// Package selection finds candidate files under a project root and keeps the
// user's ordered selection of them.
package selection

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ExcludedDirs are never scanned.
var ExcludedDirs = []string{"node_modules"}

// BinaryExtensions are never selected.
var BinaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".pdf",
	".zip", ".rar", ".7z", ".lock", ".exe", ".dll",
}

// FilterOptions configures a Filter.
type FilterOptions struct {
	// IncludeGitIgnored disables .gitignore handling.
	IncludeGitIgnored bool
	IncludeGit        bool
	IncludeBin        bool
	// Ignore holds extra patterns in .gitignore syntax.
	Ignore []string
	// Include and Exclude are doublestar globs matched against the
	// slash-separated path relative to the root, or against the base name
	// when the pattern has no slash. Exclude patterns ending with "/" name
	// directories.
	Include []string
	Exclude []string
}

// Filter handles file filtering logic
type Filter struct {
	gitIgnore       *ignore.GitIgnore
	includeGit      bool
	includeBin      bool
	baseDir         string
	includePatterns []string
	excludePatterns []string
	excludedDirs    []string
}

// NewFilter creates a new filter for the given directory.
func NewFilter(dir string, opts FilterOptions) (*Filter, error) {
	var excludedDirs []string
	var fileExcludePatterns []string

	for _, pat := range opts.Exclude {
		if strings.HasSuffix(pat, "/") {
			excludedDirs = append(excludedDirs, strings.TrimSuffix(pat, "/"))
		} else {
			fileExcludePatterns = append(fileExcludePatterns, pat)
		}
	}

	f := &Filter{
		includeGit:      opts.IncludeGit,
		includeBin:      opts.IncludeBin,
		baseDir:         dir,
		includePatterns: opts.Include,
		excludePatterns: fileExcludePatterns,
		excludedDirs:    excludedDirs,
	}

	var lines []string
	for _, l := range opts.Ignore {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	_, statErr := os.Stat(gitIgnorePath)
	switch {
	case !opts.IncludeGitIgnored && statErr == nil:
		gitIgnore, err := ignore.CompileIgnoreFileAndLines(gitIgnorePath, lines...)
		if err != nil {
			return nil, err
		}
		f.gitIgnore = gitIgnore
	case len(lines) > 0:
		f.gitIgnore = ignore.CompileIgnoreLines(lines...)
	}

	return f, nil
}

// Rel returns path relative to the filter root, slash-separated.
func (f *Filter) Rel(path string) (string, bool) {
	rel, err := filepath.Rel(f.baseDir, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// ShouldInclude returns true if the file/directory should be included
func (f *Filter) ShouldInclude(info os.FileInfo, path string) bool {
	rel, relOK := f.Rel(path)
	if relOK && rel == "." {
		return true
	}

	if f.gitIgnore != nil && relOK {
		candidate := rel
		if info.IsDir() {
			candidate += "/"
		}
		if f.gitIgnore.MatchesPath(candidate) {
			return false
		}
	}

	if info.IsDir() {
		return !f.isExcludedDir(path)
	}

	if !f.includeGit && strings.Contains("/"+rel, "/.git/") {
		return false
	}

	if !f.includeBin {
		if IsBinaryPath(path) {
			return false
		}
		isBinary, err := f.isBinaryFile(path)
		if err == nil && isBinary {
			return false
		}
	}

	if f.matchesAnyPattern(rel, f.excludePatterns) {
		return false
	}

	// If include patterns exist, file must match at least one
	if len(f.includePatterns) > 0 {
		return f.matchesAnyPattern(rel, f.includePatterns)
	}

	return true
}

func (f *Filter) isExcludedDir(path string) bool {
	base := filepath.Base(path)
	if base == ".git" && !f.includeGit {
		return true
	}
	for _, d := range ExcludedDirs {
		if strings.EqualFold(base, d) {
			return true
		}
	}

	rel, ok := f.Rel(path)
	if !ok {
		return false
	}
	for _, dir := range f.excludedDirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

// IsBinaryPath reports whether path has a known binary extension.
func IsBinaryPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, b := range BinaryExtensions {
		if ext == b {
			return true
		}
	}
	return false
}

// isBinaryFile attempts a quick detection of whether the file is binary or text
func (f *Filter) isBinaryFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, 2048)
	n, err := file.Read(buffer)
	if err != nil {
		return false, err
	}
	buffer = buffer[:n]

	contentType := http.DetectContentType(buffer)
	return !strings.HasPrefix(contentType, "text/"), nil
}

func (f *Filter) matchesAnyPattern(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		target := rel
		if !strings.Contains(pattern, "/") {
			target = filepath.Base(filepath.FromSlash(rel))
		}
		if matched, err := doublestar.Match(pattern, target); err == nil && matched {
			return true
		}
	}
	return false
}
