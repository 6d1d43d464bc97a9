package store_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

// setupTestStore creates an in-memory SQLite store for testing
func setupTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return st
}

func testEntry(id string, corpus types.Corpus, text string, vector []float32) types.Entry {
	return types.Entry{
		ID:           id,
		Corpus:       corpus,
		Text:         text,
		ContentHash:  sha256.Sum256([]byte(text)),
		Embedding:    vector,
		Path:         id,
		Type:         types.EntrySource,
		Priority:     5,
		ModuleOwner:  "mod",
		LastModified: time.Now().UTC(),
	}
}

func TestUpsertIdempotent(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	entries := []types.Entry{
		testEntry("a/b.go", types.CorpusCode, "package b", []float32{1, 0, 0}),
		testEntry("a/c.go", types.CorpusCode, "package c", []float32{0, 1, 0}),
	}

	written, err := st.Upsert(ctx, entries)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if written != 2 {
		t.Errorf("expected 2 writes, got %d", written)
	}

	// Identical content must produce zero writes
	written, err = st.Upsert(ctx, entries)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if written != 0 {
		t.Errorf("expected 0 writes for unchanged content, got %d", written)
	}

	// Changed content writes again
	entries[0].Text = "package b // changed"
	entries[0].ContentHash = sha256.Sum256([]byte(entries[0].Text))
	written, err = st.Upsert(ctx, entries)
	if err != nil {
		t.Fatalf("third Upsert failed: %v", err)
	}
	if written != 1 {
		t.Errorf("expected 1 write for one changed entry, got %d", written)
	}
}

func TestGetEntry(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	entry := testEntry("docs/readme.md", types.CorpusDocument, "# readme", []float32{0.5, 0.5})
	entry.Type = types.EntryModuleReadme
	entry.Priority = 8

	if _, err := st.Upsert(ctx, []types.Entry{entry}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	t.Run("Found", func(t *testing.T) {
		got, err := st.GetEntry(ctx, types.CorpusDocument, "docs/readme.md")
		if err != nil {
			t.Fatalf("GetEntry failed: %v", err)
		}
		if got.Type != types.EntryModuleReadme {
			t.Errorf("expected type %s, got %s", types.EntryModuleReadme, got.Type)
		}
		if got.Priority != 8 {
			t.Errorf("expected priority 8, got %d", got.Priority)
		}
		if got.ContentHash != entry.ContentHash {
			t.Error("content hash mismatch after round trip")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := st.GetEntry(ctx, types.CorpusDocument, "missing.md")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CorpusIsolation", func(t *testing.T) {
		// Same ID in the other corpus must not be visible
		_, err := st.GetEntry(ctx, types.CorpusCode, "docs/readme.md")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound across corpora, got %v", err)
		}
	})
}

func TestQueryOrdering(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	entries := []types.Entry{
		testEntry("exact.go", types.CorpusCode, "exact", []float32{1, 0, 0}),
		testEntry("near.go", types.CorpusCode, "near", []float32{0.9, 0.1, 0}),
		testEntry("far.go", types.CorpusCode, "far", []float32{0, 0, 1}),
	}
	if _, err := st.Upsert(ctx, entries); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	scored, err := st.Query(ctx, types.CorpusCode, []float32{1, 0, 0}, 3, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("expected 3 results, got %d", len(scored))
	}

	if scored[0].Entry.ID != "exact.go" {
		t.Errorf("expected exact.go first, got %s", scored[0].Entry.ID)
	}
	if scored[1].Entry.ID != "near.go" {
		t.Errorf("expected near.go second, got %s", scored[1].Entry.ID)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Distance < scored[i-1].Distance {
			t.Errorf("results not ordered ascending by distance at %d", i)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	readme := testEntry("readme.md", types.CorpusDocument, "readme", []float32{1, 0})
	readme.Type = types.EntryModuleReadme
	proto := testEntry("wire.md", types.CorpusDocument, "wire", []float32{0.9, 0.1})
	proto.Type = types.EntryProtocolDoc

	if _, err := st.Upsert(ctx, []types.Entry{readme, proto}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	scored, err := st.Query(ctx, types.CorpusDocument, []float32{1, 0}, 10, &types.Filters{
		EntryTypes: []types.EntryType{types.EntryProtocolDoc},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("expected 1 filtered result, got %d", len(scored))
	}
	if scored[0].Entry.ID != "wire.md" {
		t.Errorf("expected wire.md, got %s", scored[0].Entry.ID)
	}
}

func TestDeleteAndList(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	var entries []types.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, testEntry(fmt.Sprintf("f%d.go", i), types.CorpusCode, fmt.Sprintf("file %d", i), []float32{float32(i), 1}))
	}
	if _, err := st.Upsert(ctx, entries); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := st.Delete(ctx, types.CorpusCode, []string{"f1.go", "f3.go"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	ids, err := st.ListIDs(ctx, types.CorpusCode)
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 remaining IDs, got %d", len(ids))
	}

	count, err := st.CountEntries(ctx, types.CorpusCode)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestLastBuildTime(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.LastBuildTime(ctx)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound before first build, got %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := st.SetLastBuildTime(ctx, now); err != nil {
		t.Fatalf("SetLastBuildTime failed: %v", err)
	}

	got, err := st.LastBuildTime(ctx)
	if err != nil {
		t.Fatalf("LastBuildTime failed: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("expected %v, got %v", now, got)
	}
}
