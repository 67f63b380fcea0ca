package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/careerforge/llmcache/cache"
)

func ExampleNew() {
	store, err := cache.New[string](cache.Config{
		MaxSize:       100,
		TTL:           time.Hour,
		EnableMetrics: true,
	})
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	ctx := context.Background()
	params := map[string]any{"resume_id": 42, "model": "default"}

	// Miss: the caller performs the expensive call itself, then stores it.
	if _, ok, _ := store.Get(ctx, params); !ok {
		result := "optimized resume text" // expensive LLM call happens here
		_ = store.Set(ctx, params, result)
	}

	value, ok, _ := store.Get(ctx, params)
	fmt.Println("found:", ok)
	fmt.Println("value:", value)
	// Output:
	// found: true
	// value: optimized resume text
}

func ExampleStore_Stats() {
	store, _ := cache.New[string](cache.DefaultConfig())
	ctx := context.Background()

	_ = store.Set(ctx, map[string]any{"id": 1}, "cached")
	_, _, _ = store.Get(ctx, map[string]any{"id": 1}) // hit
	_, _, _ = store.Get(ctx, map[string]any{"id": 2}) // miss

	stats := store.Stats()
	fmt.Println("hits:", stats.Hits)
	fmt.Println("misses:", stats.Misses)
	fmt.Println("hit rate:", stats.HitRate)
	// Output:
	// hits: 1
	// misses: 1
	// hit rate: 0.5
}

func ExampleNewDefaultKeyer() {
	keyer := cache.NewDefaultKeyer()

	// Map ordering does not affect the key.
	k1, _ := keyer.Key(map[string]any{"b": 2, "a": 1})
	k2, _ := keyer.Key(map[string]any{"a": 1, "b": 2})
	fmt.Println("same content, same key:", k1 == k2)

	// Any leaf change produces a different key.
	k3, _ := keyer.Key(map[string]any{"a": 1, "b": 3})
	fmt.Println("different content, different key:", k1 != k3)
	// Output:
	// same content, same key: true
	// different content, different key: true
}

func ExampleNewRegistry() {
	registry, err := cache.NewRegistry(cache.DefaultRegistryConfig())
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	ctx := context.Background()
	jobs, _ := registry.Domain(cache.DomainJobs)
	_ = jobs.Set(ctx, map[string]any{"url": "https://example.com/posting"}, "parsed posting")

	for _, name := range registry.Domains() {
		fmt.Println(name)
	}
	// Output:
	// artifacts
	// extraction
	// jobs
	// optimization
}

func ExampleRegistry_AggregateStats() {
	registry, _ := cache.NewRegistry(cache.DefaultRegistryConfig())
	ctx := context.Background()

	jobs, _ := registry.Domain(cache.DomainJobs)
	_ = jobs.Set(ctx, map[string]any{"url": "a"}, "v")
	_, _, _ = jobs.Get(ctx, map[string]any{"url": "a"})

	stats := registry.AggregateStats()
	fmt.Println("jobs hits:", stats[cache.DomainJobs].Hits)
	fmt.Println("artifacts requests:", stats[cache.DomainArtifacts].TotalRequests)
	// Output:
	// jobs hits: 1
	// artifacts requests: 0
}
