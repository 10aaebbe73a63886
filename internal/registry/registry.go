// Package registry wraps the external company-name search capability. A
// Provider turns a normalized name into a list of existing registered names;
// the Resolver adds the timeout and degraded-mode fallback the pipeline
// depends on; a lookup never fails, it degrades.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// LookupOptions controls a single registry search.
type LookupOptions struct {
	// Limit bounds how many existing names a provider may return.
	Limit int
}

// Provider searches a registrar database for names related to a query.
type Provider interface {
	// Name returns the provider identifier (e.g. "finanvo").
	Name() string
	// Lookup returns existing registered names plausibly related to the
	// normalized query. An error here is a transport failure, not "no
	// results"; an empty slice with nil error is a clean miss.
	Lookup(ctx context.Context, normalized string, opts LookupOptions) ([]string, error)
}

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register adds a provider to the global registry.
func Register(p Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[p.Name()] = p
}

// Get returns a provider by name.
func Get(name string) (Provider, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown registry provider: %s", name)
	}
	return p, nil
}

// List returns all registered provider names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
