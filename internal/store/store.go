package store

import (
	"context"
	"errors"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entry doesn't exist
	ErrNotFound = errors.New("not found")
)

// Meta keys persisted alongside entries
const (
	MetaLastBuild = "last_build"
)

// Scored pairs an entry with its raw distance from a query vector.
// Distance is non-negative; 0 means identical.
type Scored struct {
	Entry    types.Entry
	Distance float64
}

// Store defines the interface for persisting and querying indexed entries.
//
// Upsert is idempotent: re-submitting entries whose content hash matches the
// stored row produces zero writes. Readers may run concurrently with a
// writer's upsert and see either the pre- or post-upsert state for any given
// entry, never a partial one.
type Store interface {
	// Entry operations
	Upsert(ctx context.Context, entries []types.Entry) (written int, err error)
	GetEntry(ctx context.Context, corpus types.Corpus, id string) (*types.Entry, error)
	Delete(ctx context.Context, corpus types.Corpus, ids []string) error
	ListIDs(ctx context.Context, corpus types.Corpus) ([]string, error)
	CountEntries(ctx context.Context, corpus types.Corpus) (int, error)

	// Query returns the k nearest entries in the corpus ordered ascending
	// by distance, after applying filters.
	Query(ctx context.Context, corpus types.Corpus, vector []float32, k int, filters *types.Filters) ([]Scored, error)

	// Index build metadata
	LastBuildTime(ctx context.Context) (time.Time, error)
	SetLastBuildTime(ctx context.Context, t time.Time) error

	// Database operations
	Close() error
}
