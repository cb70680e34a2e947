// Package schema catalogs known source layouts. A layout pairs the raw
// headers a feed arrives with against the canonical columns the pipeline
// consolidates into, so run files can reference a feed by name instead
// of spelling out the mapping inline.
package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tabfuse/internal/core"
)

// Layout describes a known source file shape.
type Layout struct {
	Key      string       // registry key referenced by run files
	Label    string       // human-readable description
	Filename string       // default filename for the feed
	Mapping  core.Mapping // raw header -> canonical column, in header order
}

var (
	registry   = make(map[string]Layout)
	registryMu sync.RWMutex
)

// Register adds a layout to the registry.
// Panics if a layout with the same key is already registered.
func Register(l Layout) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[l.Key]; exists {
		panic(fmt.Sprintf("layout already registered: %s", l.Key))
	}

	registry[l.Key] = l
}

// Get returns a layout by key.
// Returns false if not found.
func Get(key string) (Layout, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	l, ok := registry[key]
	return l, ok
}

// All returns all registered layouts.
// Sorted by key for consistent ordering.
func All() []Layout {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Layout, 0, len(registry))
	for _, l := range registry {
		result = append(result, l)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Names returns all registered layout keys.
// Sorted alphabetically.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for key := range registry {
		names = append(names, key)
	}

	sort.Strings(names)
	return names
}

// Count returns the number of registered layouts.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
