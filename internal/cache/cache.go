// Memoizes per-file blame results between runs.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/sinclairtarget/wcasa/internal/tally"
)

type Backend interface {
	Name() string
	Open() error
	Close() error
	Get(key string) (tally.Report, bool, error)
	Add(key string, r tally.Report) error
	Clear() error
}

// Safe for concurrent use by blame workers.
type Cache struct {
	backend Backend
	mu      sync.Mutex
	hits    int
	misses  int
}

func NewCache(b Backend) *Cache {
	logger().Debug(fmt.Sprintf("using backend %s", b.Name()))
	return &Cache{backend: b}
}

func (c *Cache) Name() string {
	return c.backend.Name()
}

func (c *Cache) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.backend.Open()
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger().Debug("cache closed", "hits", c.hits, "misses", c.misses)
	return c.backend.Close()
}

func (c *Cache) Get(key string) (tally.Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	r, ok, err := c.backend.Get(key)
	if err != nil {
		return tally.Report{}, false, err
	}

	if ok {
		c.hits += 1
	} else {
		c.misses += 1
	}

	elapsed := time.Now().Sub(start)
	logger().Debug(
		"cache get",
		"duration_ms",
		elapsed.Milliseconds(),
		"hit",
		ok,
	)

	return r, ok, nil
}

func (c *Cache) Add(key string, r tally.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	err := c.backend.Add(key, r)
	if err != nil {
		return err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug(
		"cache add",
		"duration_ms",
		elapsed.Milliseconds(),
	)

	return nil
}

func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.backend.Clear()
}

// Number of lookups that hit and missed so far.
func (c *Cache) Stats() (hits int, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}
