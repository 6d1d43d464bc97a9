package search

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codenav/codenav/internal/embedder"
	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

// Config tunes the search engine
type Config struct {
	StalenessWindow time.Duration // Index older than this is marked stale
	MinSimilarity   float64       // Hits below this similarity are dropped
	CacheSize       int           // Query cache entries (0 disables)
	CacheTTL        time.Duration
}

// cacheEntry is a cached result set with expiration time
type cacheEntry struct {
	results   *types.SearchResults
	expiresAt time.Time
}

// Engine answers similarity queries over both corpora.
//
// Search is read-only: it never mutates the entry store, and identical
// queries against an unchanged index return identically ordered results.
type Engine struct {
	store    store.Store
	embedder embedder.Embedder
	cfg      Config

	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// New creates a search engine
func New(st store.Store, emb embedder.Embedder, cfg Config) *Engine {
	if cfg.StalenessWindow <= 0 {
		cfg.StalenessWindow = 24 * time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	var cache *lru.Cache[[32]byte, *cacheEntry]
	if cfg.CacheSize > 0 {
		cache, _ = lru.New[[32]byte, *cacheEntry](cfg.CacheSize)
	}

	return &Engine{
		store:    st,
		embedder: emb,
		cfg:      cfg,
		cache:    cache,
	}
}

// Search embeds the query once, queries each corpus, and returns ranked,
// filtered hits. A stale index still returns best-effort results with
// Stale=true rather than failing.
func (e *Engine) Search(ctx context.Context, q types.Query) (*types.SearchResults, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Normalize()

	if cached := e.checkCache(q); cached != nil {
		return cached, nil
	}

	emb, err := e.embedder.Embed(ctx, embedder.Request{Text: q.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := &types.SearchResults{}

	if corpusWanted(q.Filters, types.CorpusCode) {
		hits, err := e.searchCorpus(ctx, types.CorpusCode, emb.Vector, q)
		if err != nil {
			return nil, err
		}
		results.CodeHits = hits
	}

	if corpusWanted(q.Filters, types.CorpusDocument) {
		hits, err := e.searchCorpus(ctx, types.CorpusDocument, emb.Vector, q)
		if err != nil {
			return nil, err
		}
		results.DocHits = hits
	}

	stale, err := e.indexStale(ctx)
	if err != nil {
		return nil, err
	}
	results.Stale = stale

	e.storeInCache(q, results)
	return results, nil
}

// searchCorpus queries one corpus and converts distances to similarities
func (e *Engine) searchCorpus(ctx context.Context, corpus types.Corpus, vector []float32, q types.Query) ([]types.ScoredEntry, error) {
	scored, err := e.store.Query(ctx, corpus, vector, q.Limit, q.Filters)
	if err != nil {
		return nil, err
	}

	hits := make([]types.ScoredEntry, 0, len(scored))
	for _, s := range scored {
		similarity := distanceToSimilarity(s.Distance)
		if similarity < e.cfg.MinSimilarity {
			continue
		}
		hits = append(hits, types.ScoredEntry{Entry: s.Entry, Similarity: similarity})
	}

	sortHits(hits)
	return hits, nil
}

// indexStale reports whether the last index build is older than the window.
// An index that was never built counts as stale.
func (e *Engine) indexStale(ctx context.Context) (bool, error) {
	lastBuild, err := e.store.LastBuildTime(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return time.Since(lastBuild) > e.cfg.StalenessWindow, nil
}

// distanceToSimilarity converts a non-negative distance to a bounded
// similarity score. 0 distance = 1.0 similarity.
func distanceToSimilarity(distance float64) float64 {
	similarity := 1 - distance
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// sortHits orders hits descending by similarity with deterministic
// tie-breaks: higher priority first, then lexicographic path.
func sortHits(hits []types.ScoredEntry) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		if hits[i].Entry.Priority != hits[j].Entry.Priority {
			return hits[i].Entry.Priority > hits[j].Entry.Priority
		}
		return hits[i].Entry.Path < hits[j].Entry.Path
	})
}

// corpusWanted reports whether the filters allow a corpus
func corpusWanted(f *types.Filters, corpus types.Corpus) bool {
	return f == nil || f.Corpus == "" || f.Corpus == corpus
}

// checkCache returns a copy of a fresh cached result set, or nil
func (e *Engine) checkCache(q types.Query) *types.SearchResults {
	if e.cache == nil {
		return nil
	}

	hash := computeQueryHash(q)

	e.cacheMu.RLock()
	entry, found := e.cache.Get(hash)
	if !found {
		e.cacheMu.RUnlock()
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		e.cacheMu.RUnlock()
		e.cacheMu.Lock()
		e.cache.Remove(hash)
		e.cacheMu.Unlock()
		return nil
	}
	results := copyResults(entry.results)
	e.cacheMu.RUnlock()

	return results
}

// storeInCache saves a result set with the configured TTL
func (e *Engine) storeInCache(q types.Query, results *types.SearchResults) {
	if e.cache == nil {
		return
	}

	entry := &cacheEntry{
		results:   copyResults(results),
		expiresAt: time.Now().Add(e.cfg.CacheTTL),
	}

	e.cacheMu.Lock()
	e.cache.Add(computeQueryHash(q), entry)
	e.cacheMu.Unlock()
}

// InvalidateCache clears the query cache, typically after re-indexing
func (e *Engine) InvalidateCache() {
	if e.cache == nil {
		return
	}
	e.cacheMu.Lock()
	e.cache.Purge()
	e.cacheMu.Unlock()
}

// copyResults creates a deep enough copy to keep cached values immutable
func copyResults(src *types.SearchResults) *types.SearchResults {
	if src == nil {
		return nil
	}
	dst := &types.SearchResults{
		Stale:    src.Stale,
		CodeHits: make([]types.ScoredEntry, len(src.CodeHits)),
		DocHits:  make([]types.ScoredEntry, len(src.DocHits)),
	}
	copy(dst.CodeHits, src.CodeHits)
	copy(dst.DocHits, src.DocHits)
	return dst
}

// computeQueryHash builds a deterministic cache key for a query
func computeQueryHash(q types.Query) [32]byte {
	var data strings.Builder
	data.WriteString(q.Text)
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%d", q.Limit))

	if q.Filters != nil {
		data.WriteString("|corpus:")
		data.WriteString(string(q.Filters.Corpus))
		data.WriteString("|types:")
		for _, t := range q.Filters.EntryTypes {
			data.WriteString(string(t))
			data.WriteString(",")
		}
	}

	return sha256.Sum256([]byte(data.String()))
}
