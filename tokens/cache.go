package tokens

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// CachedContent is a file's text with its token count at a given mtime.
type CachedContent struct {
	Content string
	Tokens  int
	ModTime time.Time
	Sum     uint64
}

// CacheStats tracks cache effectiveness.
type CacheStats struct {
	Hits        int64
	Misses      int64
	Retokenized int64
}

// ContentCache memoizes file contents and token counts by absolute path.
//
// An entry stays valid while its recorded mtime is at or after the file's
// current mtime. A file whose mtime moved but whose bytes hash the same keeps
// its token count.
type ContentCache struct {
	counter Counter
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]CachedContent
	stats   CacheStats
}

// NewContentCache creates an empty cache counting with counter. A nil logger
// uses slog.Default().
func NewContentCache(counter Counter, logger *slog.Logger) *ContentCache {
	if counter == nil {
		counter = Heuristic{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentCache{
		counter: counter,
		logger:  logger,
		entries: make(map[string]CachedContent),
	}
}

// Get returns the cached content of path, re-reading it when the file has a
// newer mtime than the cached entry.
func (c *ContentCache) Get(path string) (CachedContent, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return CachedContent{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return CachedContent{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	modTime := info.ModTime()

	c.mu.RLock()
	cached, ok := c.entries[abs]
	c.mu.RUnlock()
	if ok && !cached.ModTime.Before(modTime) {
		c.mu.Lock()
		c.stats.Hits++
		c.mu.Unlock()
		return cached, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return CachedContent{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum := xxh3.Hash(data)

	entry := CachedContent{Content: string(data), ModTime: modTime, Sum: sum}
	retokenized := false
	if ok && cached.Sum == sum {
		entry.Tokens = cached.Tokens
	} else {
		entry.Tokens = c.counter.Count(entry.Content).Tokens
		retokenized = true
	}

	c.mu.Lock()
	c.entries[abs] = entry
	c.stats.Misses++
	if retokenized {
		c.stats.Retokenized++
	}
	c.mu.Unlock()

	c.logger.Debug("cache: loaded", slog.String("path", abs), slog.Int("tokens", entry.Tokens), slog.Bool("retokenized", retokenized))
	return entry, nil
}

// Invalidate drops the entries for paths.
func (c *ContentCache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			delete(c.entries, abs)
		}
	}
}

// Clear drops every entry and resets the stats.
func (c *ContentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CachedContent)
	c.stats = CacheStats{}
}

// Len returns the number of cached files.
func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *ContentCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
