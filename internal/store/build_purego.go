//go:build !cgo_sqlite
// +build !cgo_sqlite

package store

// This file is compiled when building without CGO (the default).
// It uses a pure Go SQLite implementation.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Slower vector scans (pure Go cosine)
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
