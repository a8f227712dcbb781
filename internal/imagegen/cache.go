package imagegen

import "sync"

// Cache holds the most recently rendered strip, keyed by the request token
// of the weather it was rendered from.
type Cache struct {
	mu   sync.RWMutex
	key  uint64
	data []byte
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached image if it was rendered for key.
func (c *Cache) Get(key uint64) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.data == nil || c.key != key {
		return nil, false
	}
	return c.data, true
}

func (c *Cache) Set(key uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = key
	c.data = data
}
