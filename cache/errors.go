package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrInvalidMaxSize indicates Config.MaxSize is less than 1.
	ErrInvalidMaxSize = errors.New("cache: max size must be positive")

	// ErrInvalidTTL indicates Config.TTL is neither positive nor NoExpiry.
	ErrInvalidTTL = errors.New("cache: ttl must be positive or NoExpiry")

	// ErrUnknownDomain indicates a domain name not present in the registry.
	ErrUnknownDomain = errors.New("cache: unknown domain")

	// ErrNoDomains indicates a registry was built without any domains.
	ErrNoDomains = errors.New("cache: no domains configured")

	// ErrEmptyDomain indicates an empty domain name in registry configuration.
	ErrEmptyDomain = errors.New("cache: domain name is empty")

	// ErrCyclicParams indicates key derivation found a self-referential
	// container in the parameters.
	ErrCyclicParams = errors.New("cache: cyclic parameters")
)
