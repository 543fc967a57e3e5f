package lrucache

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache is a least-recently-used cache for serialized records
// indexed by their hash. Get and Add mark an entry as recently used; Has
// does not.
type LRUCache struct {
	cache *lru.Cache[chainhash.Hash, []byte]
}

// New creates a new LRUCache holding up to capacity entries. A cache with
// no capacity holds nothing.
func New(capacity int) *LRUCache {
	if capacity <= 0 {
		return &LRUCache{}
	}
	cache, err := lru.New[chainhash.Hash, []byte](capacity)
	if err != nil {
		panic(err)
	}
	return &LRUCache{cache: cache}
}

// Add adds an entry to the LRUCache, evicting the least recently used entry
// if the cache is full
func (c *LRUCache) Add(key *chainhash.Hash, value []byte) {
	if c.cache == nil {
		return
	}
	c.cache.Add(*key, value)
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *LRUCache) Get(key *chainhash.Hash) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(*key)
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *chainhash.Hash) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.Contains(*key)
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache) Remove(key *chainhash.Hash) {
	if c.cache == nil {
		return
	}
	c.cache.Remove(*key)
}

// Len returns the number of entries in the cache
func (c *LRUCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Clear clears the cache
func (c *LRUCache) Clear() {
	if c.cache == nil {
		return
	}
	c.cache.Purge()
}
