// Package search implements the semantic search engine: embed the query
// once, run a nearest-neighbor query per corpus, convert distances to
// bounded similarity scores, and order results deterministically
// (similarity desc, priority desc, path asc).
//
// Search never mutates the entry store. A stale index is reported via the
// Stale flag on the result set, not as an error.
package search
