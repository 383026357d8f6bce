package mcp

import "sync"

// Demo response cache limits. Demos are deterministic for a server's session
// options, so their encoded responses are reused.
const (
	demoCacheEntries = 16
	demoCacheBytes   = 4 << 20
)

type cacheEntry struct {
	key   string
	value []byte
	prev  *cacheEntry
	next  *cacheEntry
}

// responseCache is an LRU of encoded tool responses bounded by entry count
// and total bytes.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	head    *cacheEntry // most recently used
	tail    *cacheEntry // least recently used

	maxEntries int
	maxBytes   int
	curBytes   int
}

func newResponseCache(maxEntries, maxBytes int) *responseCache {
	return &responseCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	c.moveToFront(ent)

	return ent.value, true
}

// put stores value under key. Values larger than the whole cache are skipped.
func (c *responseCache) put(key string, value []byte) {
	if len(value) > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.curBytes += len(value) - len(ent.value)
		ent.value = value
		c.moveToFront(ent)
		c.evict()

		return
	}

	ent := &cacheEntry{key: key, value: value}
	c.entries[key] = ent
	c.curBytes += len(value)
	c.addToFront(ent)
	c.evict()
}

// evict drops least recently used entries until both limits hold. The head
// entry is never evicted.
func (c *responseCache) evict() {
	for c.tail != nil && c.tail != c.head &&
		(len(c.entries) > c.maxEntries || c.curBytes > c.maxBytes) {
		victim := c.tail
		c.unlink(victim)
		delete(c.entries, victim.key)
		c.curBytes -= len(victim.value)
	}
}

func (c *responseCache) addToFront(ent *cacheEntry) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

func (c *responseCache) unlink(ent *cacheEntry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev, ent.next = nil, nil
}

func (c *responseCache) moveToFront(ent *cacheEntry) {
	if c.head == ent {
		return
	}

	c.unlink(ent)
	c.addToFront(ent)
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
