package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codenav/codenav/internal/embedder"
	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

// ErrPassInProgress is returned when an indexing pass is already running
var ErrPassInProgress = errors.New("indexing pass already in progress")

// embedBatchSize bounds texts per embedding backend call
const embedBatchSize = 50

// Indexer walks corpus roots and performs incremental upserts into the
// entry store. Passes are idempotent: an unchanged corpus produces zero
// writes, and a crashed pass leaves entries stale, never corrupted.
type Indexer struct {
	store    store.Store
	embedder embedder.Embedder

	workers       int
	maxEntryBytes int

	lock passLock
}

// Config contains configuration for the indexer
type Config struct {
	Workers       int // Number of concurrent workers (default: runtime.NumCPU())
	MaxEntryBytes int // Longer files are truncated to this bound (default: 32 KiB)
}

// Statistics contains statistics about one indexing pass
type Statistics struct {
	FilesSeen      int
	EntriesWritten int
	EntriesSkipped int
	EntriesFailed  int
	EntriesRemoved int
	Duration       time.Duration
	ErrorMessages  []string
}

// New creates a new Indexer instance
func New(st store.Store, emb embedder.Embedder, cfg *Config) *Indexer {
	workers := runtime.NumCPU()
	maxBytes := 32 * 1024
	if cfg != nil {
		if cfg.Workers > 0 {
			workers = cfg.Workers
		}
		if cfg.MaxEntryBytes > 0 {
			maxBytes = cfg.MaxEntryBytes
		}
	}
	return &Indexer{
		store:         st,
		embedder:      emb,
		workers:       workers,
		maxEntryBytes: maxBytes,
	}
}

// IndexRoots runs one incremental pass over the code and doc roots.
// Only one pass runs at a time; a second concurrent call fails fast with
// ErrPassInProgress rather than queueing.
func (idx *Indexer) IndexRoots(ctx context.Context, codeRoots, docRoots []string) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrPassInProgress
	}
	defer idx.lock.Release()

	startTime := time.Now()
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	seen := map[types.Corpus]map[string]bool{
		types.CorpusCode:     {},
		types.CorpusDocument: {},
	}

	for _, root := range codeRoots {
		if err := idx.indexRoot(ctx, root, types.CorpusCode, seen[types.CorpusCode], stats); err != nil {
			return nil, err
		}
	}
	for _, root := range docRoots {
		if err := idx.indexRoot(ctx, root, types.CorpusDocument, seen[types.CorpusDocument], stats); err != nil {
			return nil, err
		}
	}

	// Remove entries whose source files disappeared
	for corpus, ids := range seen {
		removed, err := idx.removeVanished(ctx, corpus, ids)
		if err != nil {
			return nil, err
		}
		stats.EntriesRemoved += removed
	}

	if err := idx.store.SetLastBuildTime(ctx, time.Now()); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// indexRoot walks one corpus root and upserts changed entries
func (idx *Indexer) indexRoot(ctx context.Context, root string, corpus types.Corpus, seen map[string]bool, stats *Statistics) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	files, err := discoverFiles(absRoot, corpus)
	if err != nil {
		return fmt.Errorf("failed to discover files under %s: %w", root, err)
	}
	stats.FilesSeen += len(files)

	// Build candidate entries concurrently (read, hash, classify)
	candidates := make([]*types.Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	var mu sync.Mutex

	for i, path := range files {
		g.Go(func() error {
			entry, err := idx.buildEntry(absRoot, path, corpus)
			if err != nil {
				mu.Lock()
				stats.EntriesFailed++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil // Keep indexing the rest
			}
			candidates[i] = entry
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Determine which candidates actually changed; unchanged ones skip
	// embedding entirely.
	var changed []*types.Entry
	for _, entry := range candidates {
		if entry == nil {
			continue
		}
		seen[entry.ID] = true

		existing, err := idx.store.GetEntry(ctx, corpus, entry.ID)
		switch {
		case err == nil && existing.ContentHash == entry.ContentHash:
			stats.EntriesSkipped++
		case err == nil || errors.Is(err, store.ErrNotFound):
			changed = append(changed, entry)
		default:
			return err
		}
	}

	if len(changed) == 0 {
		return nil
	}

	if err := idx.embedEntries(ctx, changed); err != nil {
		return err
	}

	toWrite := make([]types.Entry, len(changed))
	for i, e := range changed {
		toWrite[i] = *e
	}
	written, err := idx.store.Upsert(ctx, toWrite)
	if err != nil {
		return err
	}
	stats.EntriesWritten += written

	return nil
}

// buildEntry reads one file and produces an entry without an embedding
func (idx *Indexer) buildEntry(root, path string, corpus types.Corpus) (*types.Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(content) > idx.maxEntryBytes {
		content = content[:idx.maxEntryBytes]
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, errors.New("empty file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return nil, err
	}
	relPath = filepath.ToSlash(relPath)

	entryType, priority := classifyEntry(corpus, relPath)

	entry := &types.Entry{
		ID:           relPath,
		Corpus:       corpus,
		Text:         string(content),
		Path:         relPath,
		Type:         entryType,
		Priority:     priority,
		ModuleOwner:  findModuleOwner(root, path),
		LastModified: info.ModTime(),
	}
	entry.ContentHash = sha256.Sum256(content)
	return entry, nil
}

// embedEntries fills in embeddings for changed entries in bounded batches
func (idx *Indexer) embedEntries(ctx context.Context, entries []*types.Entry) error {
	for start := 0; start < len(entries); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, e := range batch {
			texts[i] = e.Text
		}

		resp, err := idx.embedder.EmbedBatch(ctx, embedder.BatchRequest{Texts: texts})
		if err != nil {
			return err
		}
		if len(resp.Embeddings) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(batch))
		}

		for i, emb := range resp.Embeddings {
			batch[i].Embedding = emb.Vector
		}
	}
	return nil
}

// removeVanished deletes stored entries whose files were not seen this pass
func (idx *Indexer) removeVanished(ctx context.Context, corpus types.Corpus, seen map[string]bool) (int, error) {
	ids, err := idx.store.ListIDs(ctx, corpus)
	if err != nil {
		return 0, err
	}

	var vanished []string
	for _, id := range ids {
		if !seen[id] {
			vanished = append(vanished, id)
		}
	}
	if len(vanished) == 0 {
		return 0, nil
	}

	if err := idx.store.Delete(ctx, corpus, vanished); err != nil {
		return 0, err
	}
	return len(vanished), nil
}

// discoverFiles finds indexable files under a corpus root in a stable order
func discoverFiles(root string, corpus types.Corpus) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			// Skip hidden and vendored directories
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}

		switch corpus {
		case types.CorpusCode:
			if isCodeFile(path) {
				files = append(files, path)
			}
		case types.CorpusDocument:
			if isDocFile(path) {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
