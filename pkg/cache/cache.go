// Package cache provides a thread-safe LRU cache of parsed itmoscript
// programs keyed by their source text.
//
// Parsing is the only work that can be shared between runs: programs are
// immutable, so one cached *types.Program may be executed by many
// evaluators at once. The REPL and the package-level Run and Exec use it to
// skip re-parsing scripts that are run repeatedly.
//
// # Example
//
//	c := cache.New(128)
//	prog, err := c.GetOrCompile(src, func() (*types.Program, error) {
//	    return parser.Parse(src)
//	})
package cache

import (
	"container/list"
	"sync"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

type entry struct {
	source string
	prog   *types.Program
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is an LRU cache of parsed programs. Once the capacity is reached,
// the least recently used program is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	stats    Stats
}

// New creates a cache holding at most capacity programs.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the program parsed from source and marks it most recently used.
func (c *Cache) Get(source string) (*types.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[source]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).prog, true
}

// Set stores prog under its source text, evicting the least recently used
// program when the cache is full.
func (c *Cache) Set(source string, prog *types.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[source]; ok {
		el.Value.(*entry).prog = prog
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[source] = c.ll.PushFront(&entry{source: source, prog: prog})
}

// GetOrCompile returns the cached program for source, or calls compile and
// caches its result. Failed compilations are not cached.
func (c *Cache) GetOrCompile(source string, compile func() (*types.Program, error)) (*types.Program, error) {
	if prog, ok := c.Get(source); ok {
		return prog, nil
	}
	prog, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(source, prog)
	return prog, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Capacity returns the maximum number of cached programs.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate removes the program for source, if cached.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[source]; ok {
		c.ll.Remove(el)
		delete(c.items, source)
	}
}

// Clear removes all programs. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked drops the least recently used program. c.mu must be held.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).source)
	c.stats.Evictions++
}
