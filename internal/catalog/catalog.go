// Package catalog implements a fail-soft TTL cache over the external stream
// registry: {streams, lastUpdated, ttl}.
package catalog

import (
	"sync"
	"time"

	"gridwatch/internal/crudclient"
)

// Catalog caches the CRUD service's stream list for ttl, refreshing lazily
// on Get. On network error or malformed payload it returns the previously
// cached list (possibly empty on first failure). Concurrent refresh is
// permitted; last writer wins.
type Catalog struct {
	client *crudclient.Client
	ttl    time.Duration

	mu          sync.Mutex
	streams     []crudclient.StreamSummary
	lastUpdated time.Time
}

// New builds a Catalog backed by client with the given TTL.
func New(client *crudclient.Client, ttl time.Duration) *Catalog {
	return &Catalog{client: client, ttl: ttl}
}

// Streams returns the cached stream list, refreshing from the CRUD service
// if the TTL has elapsed. A refresh failure returns whatever was cached.
func (c *Catalog) Streams() []crudclient.StreamSummary {
	c.mu.Lock()
	stale := time.Since(c.lastUpdated) >= c.ttl
	cached := c.streams
	c.mu.Unlock()

	if !stale {
		return cached
	}

	fresh, err := c.client.ListStreams()
	if err != nil {
		return cached
	}

	c.mu.Lock()
	c.streams = fresh
	c.lastUpdated = time.Now()
	result := c.streams
	c.mu.Unlock()
	return result
}
