// Package indexer walks the configured corpus roots and keeps the entry
// store in sync with them.
//
// A pass hashes every candidate file and upserts only entries whose hash
// changed since the last pass, so re-running against an unchanged corpus
// produces zero writes and zero embedding calls. Entries whose files have
// vanished are removed at the end of a pass.
//
// Passes are guarded by a non-blocking lock: a background rescan that fires
// while a pass is running skips its turn instead of queueing.
package indexer
