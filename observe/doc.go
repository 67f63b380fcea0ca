// Package observe provides observability primitives for the LLM memoization
// pipeline: tracing and logging around the expensive inference calls, and
// metric export for cache usage.
//
// It is a pure instrumentation library: no inference, no cache access, no
// I/O beyond exporter setup. Consumers wire the observer around their LLM
// client and feed it a cache.Registry for diagnostics export.
package observe
