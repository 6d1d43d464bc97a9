// Package store persists embedded entries for both corpora and answers
// nearest-neighbor queries over them.
//
// The store is a single SQLite database in WAL mode. Writers (the indexer's
// upsert passes) hold an internal mutex so at most one write transaction is
// open, while readers proceed concurrently and see either the pre- or
// post-upsert state for any given entry.
//
// Upsert is idempotent by content hash: re-submitting unchanged entries
// produces zero writes, which keeps incremental re-indexing cheap and makes
// a crashed pass safe to simply re-run.
//
// Infrastructure failures are wrapped in types.ErrStoreUnavailable so that
// callers can distinguish "system down" from "no matches".
package store
