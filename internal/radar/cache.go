package radar

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Faultbox/uomaps/internal/maps"
)

// cached is a decoded block tagged with the registry generation it came from.
type cached struct {
	generation uint64
	block      *maps.RadarBlock
}

// Cache holds decoded blocks. Entries from an older registry generation are
// treated as misses.
type Cache struct {
	store *ristretto.Cache[uint64, cached]
}

// NewCache creates a cache holding up to maxBlocks decoded blocks.
func NewCache(maxBlocks int64) (*Cache, error) {
	if maxBlocks <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxBlocks)
	}

	store, err := ristretto.NewCache(&ristretto.Config[uint64, cached]{
		NumCounters:        maxBlocks * 10,
		MaxCost:            maxBlocks,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating block cache: %w", err)
	}

	return &Cache{store: store}, nil
}

const maxCoord = 1 << 24

// cacheKey packs a block address into one key. It reports false for
// addresses that cannot exist, which are never cached.
func cacheKey(mapID, blockX, blockY int) (uint64, bool) {
	if mapID < 0 || mapID >= maps.MapCount ||
		blockX < 0 || blockX >= maxCoord || blockY < 0 || blockY >= maxCoord {
		return 0, false
	}
	return uint64(mapID)<<48 | uint64(blockX)<<24 | uint64(blockY), true
}

// Get returns the block if it was stored under generation. A hit may carry
// a nil block, meaning the block is known to have no data.
func (c *Cache) Get(mapID, blockX, blockY int, generation uint64) (*maps.RadarBlock, bool) {
	key, ok := cacheKey(mapID, blockX, blockY)
	if !ok {
		return nil, false
	}
	v, ok := c.store.Get(key)
	if !ok || v.generation != generation {
		return nil, false
	}
	return v.block, true
}

// Set stores a block. A nil block records that the block has no data.
func (c *Cache) Set(mapID, blockX, blockY int, generation uint64, block *maps.RadarBlock) {
	if key, ok := cacheKey(mapID, blockX, blockY); ok {
		c.store.Set(key, cached{generation: generation, block: block}, 1)
	}
}

// Wait blocks until pending writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

// Stats returns cache hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.store.Metrics.Hits(), c.store.Metrics.Misses()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.store.Clear()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}
