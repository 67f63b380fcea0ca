// Package cache provides bounded, time-expiring LRU memoization for
// expensive LLM inference results.
//
// It provides a generic Store with LRU eviction and lazy TTL expiry,
// SHA-256-based key derivation over arbitrary nested parameters, per-store
// usage metrics, and a Registry composing independently tuned stores per
// operation domain.
package cache
