package dao

import "sync"

// Cache session-local memo of raw documents keyed by repository path.
//
// The cache holds the serialized bytes as read from the store, so callers
// always unmarshal a fresh value and can never alias a cached document. Each
// entry also records the version token of the read, so the write that closes
// a read-modify-write cycle can be guarded by the version the mutation was
// actually computed from. A nil entry records that the path was absent on
// last read. Every write the dao issues invalidates the written path;
// callers that learn of external writes can invalidate explicitly.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	raw     []byte
	version string
}

// NewCache create an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*cacheEntry{}}
}

// Get cached raw document and the version token it was read at. ok is false
// on a cache miss; a nil raw with ok true means the path was absent when
// last read, in which case version is empty.
func (c *Cache) Get(path string) (raw []byte, version string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok {
		return nil, "", false
	}

	return e.raw, e.version, true
}

// Set record the raw document and version read for path.
func (c *Cache) Set(path string, raw []byte, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &cacheEntry{raw: raw, version: version}
}

// Invalidate drop the cached document for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// InvalidateAll drop everything.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*cacheEntry{}
}
