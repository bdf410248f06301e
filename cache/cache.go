// Package cache implements the BytecodeCache (spec §4.1): a memoization
// table from (function handle, TypeInfo, symbolic bindings) to a
// shared, immutable bytecode.Function, safe for concurrent lookup from
// multiple interpreter instances.
//
// Per §9's design note, the cache is an explicit dependency threaded
// through the interpreter's constructor rather than a package-level
// singleton — callers that want isolated caches (tests, separate
// compilation units) construct their own.
package cache

import (
	"fmt"
	"sync"

	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
)

// key identifies one cache entry. astiface.Function implementations
// are expected to be comparable (a pointer or a small value type
// wrapping AST node identity); TypeInfo and Bindings enter the key
// through their Key() strings.
type key struct {
	fn       astiface.Function
	typeKey  string
	bindKey  string
}

// Cache is a concurrent-safe BytecodeCache.
type Cache struct {
	mu      sync.Mutex
	entries map[key]*bytecode.Function

	hits   uint64
	misses uint64
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[key]*bytecode.Function)}
}

func makeKey(fn astiface.Function, ti astiface.TypeInfo, bindings astiface.Bindings) key {
	typeKey := ""
	if ti != nil {
		typeKey = ti.Key()
	}
	bindKey := ""
	if bindings != nil {
		bindKey = bindings.Key()
	}
	return key{fn: fn, typeKey: typeKey, bindKey: bindKey}
}

// GetOrCreate returns the cached bytecode.Function for (fn, ti,
// bindings), calling emit to materialize and insert it on a miss (spec
// §4.1: "first call synthesizes the immutable BytecodeFunction and
// inserts it; every subsequent call with the same key returns the same
// pointer"). emit is never called while holding the cache's lock, so it
// may itself recurse into GetOrCreate for nested parametric
// instantiation without deadlocking — but two concurrent misses on the
// same key may both call emit, with only one winning the insert race;
// callers relying on emit's side effects being singular must serialize
// themselves.
func (c *Cache) GetOrCreate(fn astiface.Function, ti astiface.TypeInfo, bindings astiface.Bindings, emit func() (*bytecode.Function, error)) (*bytecode.Function, error) {
	k := makeKey(fn, ti, bindings)

	c.mu.Lock()
	if bf, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		return bf, nil
	}
	c.mu.Unlock()

	bf, err := emit()
	if err != nil {
		return nil, fmt.Errorf("cache: emit bytecode for %q: %w", fn.Name(), err)
	}
	if bf.Synthetic {
		// Synthetic bodies (spec §4.10) are owned by their call site
		// and never shared via the cache.
		return bf, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[k]; ok {
		// Lost the insert race; the existing entry is canonical.
		c.hits++
		return existing, nil
	}
	c.entries[k] = bf
	c.misses++
	return bf, nil
}

// Stats reports cumulative hit/miss counts for diagnostics.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len reports the number of distinct entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
