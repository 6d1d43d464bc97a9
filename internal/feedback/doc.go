// Package feedback records query ratings and derives learned routing
// weights from them. The append-only JSONL log is the durable source of
// truth; the SQLite weight table is a derived view that can be rebuilt
// by replaying the log.
package feedback
