// Package ingest provides the content-ingestion use case: one entry point
// that takes a URL through SPA bypass, validation, rate limiting, robots
// compliance, bounded fetching, sanitization, and quality classification,
// returning a routing recommendation for the caller.
package ingest

import "errors"

// Sentinel errors for ingest use case operations.
var (
	// ErrEmptyURL indicates that the caller supplied an empty URL.
	ErrEmptyURL = errors.New("url must not be empty")

	// ErrEmptyClientID indicates that the caller supplied no client
	// identifier. Rate limiting requires one; resolving it from request
	// headers is the calling layer's responsibility.
	ErrEmptyClientID = errors.New("client id must not be empty")

	// ErrInvalidOptions indicates that the per-request options failed
	// validation, for example a negative timeout or byte ceiling.
	ErrInvalidOptions = errors.New("invalid ingest options")
)
