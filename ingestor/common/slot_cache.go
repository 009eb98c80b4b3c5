package common

import (
	"sync"
	"time"
)

// BlockTimeCache maps slot numbers to block timestamps. Block meta updates
// arrive on the same stream as transactions but not in a guaranteed order,
// so the factory falls back to arrival time when a slot is not yet cached.
type BlockTimeCache struct {
	mu      sync.RWMutex
	slots   map[uint64]time.Time
	maxSize int
	minSlot uint64
}

// DefaultBlockTimeCacheSize bounds the cache to roughly ten minutes of slots.
const DefaultBlockTimeCacheSize = 1500

// NewBlockTimeCache builds a cache holding at most maxSize slots; zero or
// negative means DefaultBlockTimeCacheSize.
func NewBlockTimeCache(maxSize int) *BlockTimeCache {
	if maxSize <= 0 {
		maxSize = DefaultBlockTimeCacheSize
	}
	return &BlockTimeCache{
		slots:   make(map[uint64]time.Time),
		maxSize: maxSize,
	}
}

// Get returns the block time for slot and whether it is cached.
func (c *BlockTimeCache) Get(slot uint64) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts, ok := c.slots[slot]
	return ts, ok
}

// Set stores the block time for slot, evicting the oldest slots when the
// cache is full.
func (c *BlockTimeCache) Set(slot uint64, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < c.minSlot {
		return // already pruned past this slot
	}
	c.slots[slot] = ts
	if len(c.slots) > c.maxSize {
		c.evictLocked()
	}
}

// evictLocked drops the oldest quarter of cached slots.
func (c *BlockTimeCache) evictLocked() {
	var lo, hi uint64
	for s := range c.slots {
		if lo == 0 || s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	cut := lo + (hi-lo)/4
	for s := range c.slots {
		if s <= cut {
			delete(c.slots, s)
		}
	}
	if cut+1 > c.minSlot {
		c.minSlot = cut + 1
	}
}

// PruneBefore removes entries older than slot and returns how many were
// dropped.
func (c *BlockTimeCache) PruneBefore(slot uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pruned := 0
	for s := range c.slots {
		if s < slot {
			delete(c.slots, s)
			pruned++
		}
	}
	if slot > c.minSlot {
		c.minSlot = slot
	}
	return pruned
}

// Size returns the number of cached slots.
func (c *BlockTimeCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots)
}
