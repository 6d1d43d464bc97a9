package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenav/codenav/internal/embedder"
	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

func setupIndexer(t *testing.T) (*Indexer, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	emb, err := embedder.New(embedder.Config{Provider: "local"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = emb.Close() })

	return New(st, emb, &Config{Workers: 2}), st
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexRootsIncremental(t *testing.T) {
	idx, st := setupIndexer(t)
	ctx := context.Background()

	codeDir := t.TempDir()
	docDir := t.TempDir()
	writeFile(t, codeDir, "a/b.go", "package b\n\nfunc B() {}\n")
	writeFile(t, codeDir, "a/c.go", "package c\n\nfunc C() {}\n")
	writeFile(t, docDir, "README.md", "# project\n\noverview\n")

	stats, err := idx.IndexRoots(ctx, []string{codeDir}, []string{docDir})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.EntriesWritten)
	assert.Equal(t, 0, stats.EntriesSkipped)

	// Unchanged corpus: a second pass writes nothing
	stats, err = idx.IndexRoots(ctx, []string{codeDir}, []string{docDir})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.EntriesWritten)
	assert.Equal(t, 3, stats.EntriesSkipped)

	// One modified file: exactly one write
	writeFile(t, codeDir, "a/b.go", "package b\n\nfunc B() int { return 1 }\n")
	stats, err = idx.IndexRoots(ctx, []string{codeDir}, []string{docDir})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntriesWritten)
	assert.Equal(t, 2, stats.EntriesSkipped)

	// Build time recorded
	_, err = st.LastBuildTime(ctx)
	assert.NoError(t, err)
}

func TestIndexRootsRemovesVanished(t *testing.T) {
	idx, st := setupIndexer(t)
	ctx := context.Background()

	codeDir := t.TempDir()
	writeFile(t, codeDir, "keep.go", "package keep\n")
	writeFile(t, codeDir, "drop.go", "package drop\n")

	_, err := idx.IndexRoots(ctx, []string{codeDir}, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(codeDir, "drop.go")))

	stats, err := idx.IndexRoots(ctx, []string{codeDir}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntriesRemoved)

	ids, err := st.ListIDs(ctx, types.CorpusCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go"}, ids)
}

func TestIndexRootsSkipsEmptyAndHidden(t *testing.T) {
	idx, st := setupIndexer(t)
	ctx := context.Background()

	codeDir := t.TempDir()
	writeFile(t, codeDir, "real.go", "package real\n")
	writeFile(t, codeDir, "empty.go", "   \n")
	writeFile(t, codeDir, ".hidden/secret.go", "package secret\n")
	writeFile(t, codeDir, "vendor/dep.go", "package dep\n")

	_, err := idx.IndexRoots(ctx, []string{codeDir}, nil)
	require.NoError(t, err)

	ids, err := st.ListIDs(ctx, types.CorpusCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.go"}, ids)
}

func TestClassifyEntry(t *testing.T) {
	cases := []struct {
		corpus   types.Corpus
		path     string
		wantType types.EntryType
	}{
		{types.CorpusCode, "internal/a/b.go", types.EntrySource},
		{types.CorpusDocument, "README.md", types.EntryModuleReadme},
		{types.CorpusDocument, "CHANGELOG.md", types.EntryChangelog},
		{types.CorpusDocument, "docs/wire-protocol.md", types.EntryProtocolDoc},
		{types.CorpusDocument, "docs/storage-interface.md", types.EntryInterfaceSpec},
		{types.CorpusDocument, "docs/notes.md", types.EntryOther},
	}

	for _, tc := range cases {
		gotType, priority := classifyEntry(tc.corpus, tc.path)
		assert.Equal(t, tc.wantType, gotType, tc.path)
		assert.GreaterOrEqual(t, priority, types.MinPriority, tc.path)
		assert.LessOrEqual(t, priority, types.MaxPriority, tc.path)
	}
}

func TestConcurrentPassFailsFast(t *testing.T) {
	idx, _ := setupIndexer(t)

	require.True(t, idx.lock.TryAcquire())
	defer idx.lock.Release()

	_, err := idx.IndexRoots(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrPassInProgress)
}
