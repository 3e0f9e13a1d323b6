package filter

import (
	"container/list"
	"sync"
)

// programCache is a thread-safe LRU of compiled filters keyed by expression
type programCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

type cacheEntry struct {
	expression string
	filter     *Filter
}

func newProgramCache(size int) *programCache {
	return &programCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

func (c *programCache) get(expression string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*cacheEntry).filter, true
}

func (c *programCache) put(expression string, f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[expression]; ok {
		c.evictList.MoveToFront(node)
		node.Value.(*cacheEntry).filter = f
		return
	}

	c.items[expression] = c.evictList.PushFront(&cacheEntry{expression: expression, filter: f})

	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).expression)
	}
}

func (c *programCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
