// Package types provides shared type definitions for the codenav engine.
//
// This package defines domain types used across multiple components:
// entries, queries, intents, findings, alerts, and feedback records.
//
// # Core Types
//
// Entry represents one indexed unit of text (code or documentation) with
// its embedding and metadata:
//
//	entry := &types.Entry{
//	    ID:       "code:internal/store/sqlite.go",
//	    Corpus:   types.CorpusCode,
//	    Text:     source,
//	    Path:     "internal/store/sqlite.go",
//	    Type:     types.EntrySource,
//	    Priority: 5,
//	}
//	entry.ComputeContentHash()
//
// Intent is the classified purpose of a query, used to select which
// analysis components run:
//
//	intent := types.Intent{Category: types.IntentCodeLocation, Confidence: 0.8}
//
// Finding is the structured output of one component execution; Alerts on a
// finding are deduplicated by category when the report is composed.
//
// # Error Taxonomy
//
// Infrastructure errors (ErrStoreUnavailable, ErrEmbeddingUnavailable) abort
// a request. ErrComponentTimeout is isolated per component and converted to
// a DEGRADED finding. ErrMalformedQuery is rejected before any processing.
//
// All domain types implement validation methods to ensure data integrity:
//
//	if err := entry.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
