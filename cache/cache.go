/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package cache stores synthesized accessors keyed by (owner type, member name).
package cache

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Key identifies one member of one owner type.
type Key struct {
	// Owner is the requested owner type (T or *T).
	Owner reflect.Type
	// Name is the canonical member name.
	Name string
}

// String returns "Owner#Name"; the owner's pointer keeps distinct types with
// equal names apart.
func (k Key) String() string {
	return fmt.Sprintf("%p#%s", k.Owner, k.Name)
}

// Stats is a snapshot of cache instrumentation.
type Stats struct {
	// Syntheses counts create calls that actually ran.
	Syntheses uint64
	// Hits counts lookups served from a stored entry.
	Hits uint64
	// Entries is the number of stored entries.
	Entries int
}

// Cache is a concurrency-safe map from Key to a synthesized value.
// Concurrent first requests for the same key share one create call.
// The zero value is ready to use.
type Cache struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m holds the stored values.
	m sync.Map // map[Key]any
	// count tracks the number of stored entries.
	count int
	// group collapses concurrent creation of the same key.
	group singleflight.Group

	syntheses atomic.Uint64
	hits      atomic.Uint64
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Load returns the value stored for k.
func (c *Cache) Load(k Key) (any, bool) {
	v, ok := c.m.Load(k)
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// LoadOrCreate returns the value stored for k, calling create at most once
// per key to produce it. Errors from create are returned to every waiter and
// are not stored, so a later call retries.
func (c *Cache) LoadOrCreate(k Key, create func() (any, error)) (any, error) {
	// Fast read path without singleflight bookkeeping.
	if v, ok := c.Load(k); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		// Re-check in case a previous flight stored meanwhile.
		if v, ok := c.m.Load(k); ok {
			return v, nil
		}
		v, err := c.Create(create)
		if err != nil {
			return nil, err
		}
		c.store(k, v)
		return v, nil
	})
	return v, err
}

// Create runs create without storing the result. It is counted as a synthesis
// when it succeeds, which keeps counters meaningful with caching disabled.
func (c *Cache) Create(create func() (any, error)) (any, error) {
	v, err := create()
	if err != nil {
		return nil, err
	}
	c.syntheses.Add(1)
	return v, nil
}

// store records v under k unless an entry already exists.
func (c *Cache) store(k Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, loaded := c.m.LoadOrStore(k, v); !loaded {
		c.count++
	}
}

// Keys returns a snapshot of the stored keys (order is unspecified).
func (c *Cache) Keys() []Key {
	keys := make([]Key, 0, c.Count())
	c.m.Range(func(key, _ any) bool {
		keys = append(keys, key.(Key))
		return true
	})
	return keys
}

// Count returns the number of stored entries.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Syntheses: c.syntheses.Load(),
		Hits:      c.hits.Load(),
		Entries:   c.Count(),
	}
}

// Reset drops all entries and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.Range(func(key, _ any) bool {
		c.m.Delete(key)
		return true
	})
	c.count = 0
	c.syntheses.Store(0)
	c.hits.Store(0)
}
