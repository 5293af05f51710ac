package vision

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Cache is a thread-safe two-tier cache (in-memory + filesystem) of
// analysis results. The key is sha256(model + ":" + image), so switching
// models causes misses until the model is switched back.
//
// The disk layer is always read when cacheDir is set; new entries are
// written to it only when diskWrite is true.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]*domain.FoodAnalysis
	log       *logger.Logger
	model     string
	cacheDir  string
	diskWrite bool
	hits      int64
	misses    int64
}

// NewCache creates an analysis cache. An empty cacheDir disables the disk
// layer.
func NewCache(model, cacheDir string, diskWrite bool, log *logger.Logger) *Cache {
	c := &Cache{
		entries:   make(map[string]*domain.FoodAnalysis),
		log:       log,
		model:     model,
		cacheDir:  cacheDir,
		diskWrite: diskWrite,
	}
	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", cacheDir, err)
		}
	}
	return c
}

// Get returns a copy of the cached analysis for image.
func (c *Cache) Get(image string) (*domain.FoodAnalysis, bool) {
	key := c.hashKey(image)

	c.mu.RLock()
	a, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.log.Debug("cache hit (mem): %s", key[:12])
		return cloneAnalysis(a), true
	}

	if c.cacheDir != "" {
		if disk, diskOK := c.readDisk(key); diskOK {
			c.mu.Lock()
			c.entries[key] = disk
			c.hits++
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s", key[:12])
			return cloneAnalysis(disk), true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores an analysis for image.
func (c *Cache) Put(image string, a *domain.FoodAnalysis) {
	key := c.hashKey(image)

	c.mu.Lock()
	c.entries[key] = cloneAnalysis(a)
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store (mem): %s (%d entries)", key[:12], size)

	if c.cacheDir != "" && c.diskWrite {
		c.writeDisk(key, a)
	}
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Clear empties the in-memory layer. The disk cache is NOT cleared.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*domain.FoodAnalysis)
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
	c.log.Debug("cache cleared (mem)")
}

func (c *Cache) hashKey(image string) string {
	h := sha256.Sum256([]byte(c.model + ":" + image))
	return hex.EncodeToString(h[:])
}

// ── disk helpers ─────────────────────────────────────────────────

func (c *Cache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".json")
}

func (c *Cache) readDisk(key string) (*domain.FoodAnalysis, bool) {
	data, err := os.ReadFile(c.diskPath(key))
	if err != nil {
		return nil, false
	}
	var a domain.FoodAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		c.log.Warn("cache: corrupt entry %s: %v", key[:12], err)
		return nil, false
	}
	return &a, true
}

func (c *Cache) writeDisk(key string, a *domain.FoodAnalysis) {
	data, err := json.Marshal(a)
	if err != nil {
		c.log.Error("cache: encode %s: %v", key[:12], err)
		return
	}
	path := c.diskPath(key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.log.Error("cache: disk write failed for %s: %v", path, err)
	} else {
		c.log.Debug("cache store (disk): %s (%d bytes)", key[:12], len(data))
	}
}

func cloneAnalysis(a *domain.FoodAnalysis) *domain.FoodAnalysis {
	out := *a
	out.Foods = make([]domain.RecognizedFood, len(a.Foods))
	for i, f := range a.Foods {
		f.Alternatives = append([]string(nil), f.Alternatives...)
		out.Foods[i] = f
	}
	return &out
}
