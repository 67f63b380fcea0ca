package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Keyer derives deterministic cache keys from request parameters.
//
// Contract:
// - Determinism: logically equal parameters must produce the same key,
//   regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: cyclic or non-serializable parameters must fail fast.
type Keyer interface {
	// Key derives a cache key from an acyclic, JSON-serializable value.
	Key(params any) (string, error)
}

// DefaultKeyer derives SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key derives a deterministic key: the hex-encoded SHA-256 digest of the
// canonical JSON form of params. The key reveals nothing about the
// parameters beyond equality.
func (k *DefaultKeyer) Key(params any) (string, error) {
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// FastKeyer derives xxhash-based cache keys.
//
// The digest is not collision resistant against adversarial input; use it
// only when the key space is trusted. DefaultKeyer is the safe choice.
type FastKeyer struct{}

// NewFastKeyer creates a new fast keyer.
func NewFastKeyer() *FastKeyer {
	return &FastKeyer{}
}

// Key derives a 16-character hex key from the canonical JSON form of params.
func (k *FastKeyer) Key(params any) (string, error) {
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(canonical)), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key at every nesting level; slice order is preserved.
// A container that appears on its own ancestor path is reported as
// ErrCyclicParams instead of recursing into it.
func canonicalize(v any) ([]byte, error) {
	return canonicalizeValue(v, make(map[uintptr]struct{}))
}

// canonicalizeValue walks v. seen holds the container pointers on the
// current descent path and is restored on the way back up, so shared
// (diamond-shaped) references stay legal while true cycles fail.
func canonicalizeValue(v any, seen map[uintptr]struct{}) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(val).Pointer()
		if _, onPath := seen[ptr]; onPath {
			return nil, ErrCyclicParams
		}
		seen[ptr] = struct{}{}
		b, err := canonicalizeMap(val, seen)
		delete(seen, ptr)
		return b, err
	case []any:
		ptr := reflect.ValueOf(val).Pointer()
		if _, onPath := seen[ptr]; onPath {
			return nil, ErrCyclicParams
		}
		seen[ptr] = struct{}{}
		b, err := canonicalizeSlice(val, seen)
		delete(seen, ptr)
		return b, err
	default:
		// Other types use standard JSON encoding. encoding/json already
		// sorts keys of concrete map types and rejects cycles through
		// struct pointers on its own.
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any, seen map[uintptr]struct{}) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalizeValue(m[k], seen)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any, seen map[uintptr]struct{}) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalizeValue(v, seen)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure keyers implement Keyer
var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*FastKeyer)(nil)
)
