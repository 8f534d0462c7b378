package cache

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

const memoryCleanupInterval = 10 * time.Minute

// LayeredCache reads memory first and falls back to disk, promoting hits
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory cache backed by a disk cache in diskDir
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, memoryCleanupInterval),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// New builds the cache described by cfg: memory only when no directory
// is configured, memory over disk otherwise
func New(cfg model.CacheConfig) Cache {
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, memoryCleanupInterval)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Get checks memory first, then disk
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return eris.Wrap(err, "memory layer")
	}
	if err := c.disk.Set(key, value, ttl); err != nil {
		return eris.Wrap(err, "disk layer")
	}
	return nil
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	if err := c.memory.Delete(key); err != nil {
		return eris.Wrap(err, "memory layer")
	}
	if err := c.disk.Delete(key); err != nil {
		return eris.Wrap(err, "disk layer")
	}
	return nil
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	if err := c.memory.Clear(); err != nil {
		return eris.Wrap(err, "memory layer")
	}
	if err := c.disk.Clear(); err != nil {
		return eris.Wrap(err, "disk layer")
	}
	return nil
}
