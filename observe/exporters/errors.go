package exporters

import "errors"

// Sentinel errors for exporter construction.
var (
	// ErrUnknownExporter indicates an exporter name outside the supported set.
	ErrUnknownExporter = errors.New("exporters: unknown exporter")

	// ErrEndpointNotConfigured indicates a network exporter was selected but
	// no collector endpoint was supplied or found in the environment.
	ErrEndpointNotConfigured = errors.New("exporters: endpoint not configured")
)
