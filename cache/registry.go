package cache

import (
	"fmt"
	"sort"
	"time"
)

// Default domain names, one per category of expensive LLM operation.
const (
	// DomainExtraction caches bulk resume extraction results.
	DomainExtraction = "extraction"

	// DomainJobs caches parsed job postings.
	DomainJobs = "jobs"

	// DomainOptimization caches resume optimization runs.
	DomainOptimization = "optimization"

	// DomainArtifacts caches generated artifacts such as cover letters.
	DomainArtifacts = "artifacts"
)

// DefaultRegistryConfig returns the default domain layout. Each domain's
// size and TTL reflect its call volume and staleness tolerance.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Domains: map[string]Config{
			// Extraction results are cheap to re-serve and age slowly.
			DomainExtraction: {MaxSize: 500, TTL: 24 * time.Hour, EnableMetrics: true},
			DomainJobs:       {MaxSize: 200, TTL: 6 * time.Hour, EnableMetrics: true},
			// Optimization output is expensive and goes stale quickly.
			DomainOptimization: {MaxSize: 100, TTL: time.Hour, EnableMetrics: true},
			DomainArtifacts:    {MaxSize: 50, TTL: 30 * time.Minute, EnableMetrics: true},
		},
	}
}

// Registry owns one independently configured Store per domain. Stores are
// fully isolated: identical parameters cached in two domains never share
// keys, capacity, or eviction state.
//
// Build a Registry at the composition root and pass it to callers; there is
// deliberately no package-level instance, so tests can construct fresh,
// isolated registries. The domain set is fixed after construction, which
// keeps the registry itself lock-free.
type Registry struct {
	stores map[string]*Store[any]
}

// NewRegistry builds a registry from cfg using the default keyer.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	return NewRegistryWithKeyer(cfg, nil)
}

// NewRegistryWithKeyer builds a registry whose stores share a custom Keyer.
// A nil keyer falls back to the default.
func NewRegistryWithKeyer(cfg RegistryConfig, keyer Keyer) (*Registry, error) {
	if len(cfg.Domains) == 0 {
		return nil, ErrNoDomains
	}

	stores := make(map[string]*Store[any], len(cfg.Domains))
	for name, storeCfg := range cfg.Domains {
		if name == "" {
			return nil, ErrEmptyDomain
		}
		st, err := NewWithKeyer[any](storeCfg, keyer)
		if err != nil {
			return nil, fmt.Errorf("cache: domain %q: %w", name, err)
		}
		stores[name] = st
	}

	return &Registry{stores: stores}, nil
}

// Domain returns the store for the named domain.
func (r *Registry) Domain(name string) (*Store[any], error) {
	st, ok := r.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	return st, nil
}

// Domains returns the configured domain names in sorted order.
func (r *Registry) Domains() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AggregateStats returns a metrics snapshot for every domain.
func (r *Registry) AggregateStats() map[string]Stats {
	stats := make(map[string]Stats, len(r.stores))
	for name, st := range r.stores {
		stats[name] = st.Stats()
	}
	return stats
}

// ClearAll clears every domain store and resets its metrics. Intended for
// test teardown and manual invalidation.
func (r *Registry) ClearAll() {
	for _, st := range r.stores {
		st.Clear()
	}
}
