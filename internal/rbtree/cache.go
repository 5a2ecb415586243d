package rbtree

// CacheEntry records a previously resolved node lookup: the node found,
// and the byte offset and line-feed index of its first byte within the
// whole tree at the time it was cached.
type CacheEntry struct {
	Node              Handle
	NodeStartOffset   int
	NodeStartLineFeed int
}

// SearchCache is a small bounded FIFO cache of recent node lookups. Piece
// trees see highly local access patterns — typing advances one offset at
// a time, scrolling reads consecutive lines — so a handful of recently
// resolved nodes usually lets a lookup return a cached node and skip the
// root-to-leaf descent entirely.
//
// Every edit invalidates any entry whose node could have moved or whose
// cached offsets could now be stale, since a structural change anywhere
// at or before a node shifts every node after it.
type SearchCache struct {
	entries []CacheEntry
	limit   int
	next    int
}

// NewSearchCache returns an empty cache holding at most limit entries. A
// limit of 0 or less disables caching: Get always misses and Put is a
// no-op.
func NewSearchCache(limit int) *SearchCache {
	if limit < 0 {
		limit = 0
	}
	return &SearchCache{limit: limit}
}

// Get returns the entry with the greatest cached start offset at or
// before offset. It does not check that offset falls inside that node's
// piece; callers compare against the piece's current length. Returns
// ok=false on a cache miss.
func (c *SearchCache) Get(offset int) (CacheEntry, bool) {
	best := -1
	for i, e := range c.entries {
		if e.NodeStartOffset <= offset {
			if best == -1 || e.NodeStartOffset > c.entries[best].NodeStartOffset {
				best = i
			}
		}
	}
	if best == -1 {
		return CacheEntry{}, false
	}
	return c.entries[best], true
}

// GetByLineFeed is Get's analogue for line-feed-indexed lookups.
func (c *SearchCache) GetByLineFeed(lineFeed int) (CacheEntry, bool) {
	best := -1
	for i, e := range c.entries {
		if e.NodeStartLineFeed <= lineFeed {
			if best == -1 || e.NodeStartLineFeed > c.entries[best].NodeStartLineFeed {
				best = i
			}
		}
	}
	if best == -1 {
		return CacheEntry{}, false
	}
	return c.entries[best], true
}

// Put records a resolved lookup, evicting the oldest entry in FIFO order
// once the cache is at capacity.
func (c *SearchCache) Put(e CacheEntry) {
	if c.limit == 0 {
		return
	}
	if len(c.entries) < c.limit {
		c.entries = append(c.entries, e)
		return
	}
	c.entries[c.next] = e
	c.next = (c.next + 1) % c.limit
}

// InvalidateFrom discards every cached entry whose node span starts at or
// after offset: an edit at offset can only have shifted or split nodes
// from offset onward, so entries strictly before it remain valid.
func (c *SearchCache) InvalidateFrom(offset int) {
	// Survivors are kept oldest first, so that once Put refills the cache
	// the slot at next (0) is again the oldest entry.
	kept := make([]CacheEntry, 0, len(c.entries))
	for i := range c.entries {
		e := c.entries[(c.next+i)%len(c.entries)]
		if e.NodeStartOffset < offset {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.next = 0
}

// Clear empties the cache entirely.
func (c *SearchCache) Clear() {
	c.entries = c.entries[:0]
	c.next = 0
}

// Len reports how many entries are currently cached.
func (c *SearchCache) Len() int { return len(c.entries) }
