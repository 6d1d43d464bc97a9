package types

import "errors"

// Error taxonomy shared across the pipeline.
//
// Infrastructure errors (store, embedding) abort a request after retry
// exhaustion. Component-level errors are isolated into DEGRADED findings and
// never abort the request.
var (
	// ErrStoreUnavailable means the backing store is unreachable. Callers
	// must surface this rather than returning empty results.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmbeddingUnavailable means the embedding backend failed after
	// retry exhaustion.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrComponentTimeout is local to one component execution and is
	// downgraded to a DEGRADED finding by the orchestrator.
	ErrComponentTimeout = errors.New("component timeout")

	// ErrMalformedQuery rejects empty or over-length query text before any
	// partial processing.
	ErrMalformedQuery = errors.New("malformed query")
)
