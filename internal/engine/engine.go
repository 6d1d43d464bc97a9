package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/codenav/codenav/internal/advisor"
	"github.com/codenav/codenav/internal/components"
	"github.com/codenav/codenav/internal/compose"
	"github.com/codenav/codenav/internal/config"
	"github.com/codenav/codenav/internal/embedder"
	"github.com/codenav/codenav/internal/feedback"
	"github.com/codenav/codenav/internal/indexer"
	"github.com/codenav/codenav/internal/intent"
	"github.com/codenav/codenav/internal/orchestrator"
	"github.com/codenav/codenav/internal/router"
	"github.com/codenav/codenav/internal/search"
	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

// Result is one answered query
type Result struct {
	Report         string
	Intent         types.Intent
	ComponentsUsed []string
	Stale          bool
}

// Status is a snapshot of engine state
type Status struct {
	CodeEntries   int
	DocEntries    int
	LastBuild     time.Time
	IndexStale    bool
	EmbedProvider string
	EmbedModel    string
	WeightCells   int
}

// Engine wires the full query pipeline: search, intent classification,
// routing, orchestration, and report composition. One engine serves both
// the CLI and the MCP server.
type Engine struct {
	cfg      *config.Config
	store    store.Store
	embedder embedder.Embedder
	searcher *search.Engine
	learner  *feedback.Learner
	router   *router.Router
	orch     *orchestrator.Orchestrator
	composer *compose.Composer
	advisor  *advisor.Advisor
	indexer  *indexer.Indexer
	logger   *log.Logger
}

// New assembles an engine from configuration. The data directory is
// created if missing.
func New(cfg *config.Config) (*Engine, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger := log.New(os.Stderr, "codenav: ", log.LstdFlags)

	st, err := store.NewSQLite(cfg.StorePath())
	if err != nil {
		return nil, err
	}

	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedder.Provider,
		APIKey:    cfg.Embedder.APIKey,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	learner, err := feedback.New(feedback.Config{
		DeltaGood:  cfg.Learner.DeltaGood,
		DeltaNoisy: cfg.Learner.DeltaNoisy,
		WeightCap:  cfg.Learner.WeightCap,
	}, cfg.WeightsPath(), cfg.FeedbackLogPath(), cfg.SuggestionLogPath())
	if err != nil {
		emb.Close()
		st.Close()
		return nil, err
	}

	catalog := components.Catalog(cfg.CodeRoots, cfg.DocRoots)
	registry := router.NewRegistry()
	for _, c := range catalog {
		if err := registry.Register(c.Descriptor); err != nil {
			learner.Close()
			emb.Close()
			st.Close()
			return nil, err
		}
	}

	e := &Engine{
		cfg:      cfg,
		store:    st,
		embedder: emb,
		searcher: search.New(st, emb, search.Config{
			StalenessWindow: cfg.Search.StalenessWindow,
			MinSimilarity:   cfg.Search.MinSimilarity,
			CacheSize:       cfg.Search.QueryCacheSize,
			CacheTTL:        time.Duration(cfg.Search.QueryCacheTTLSec) * time.Second,
		}),
		learner:  learner,
		router:   router.New(registry, learner, cfg.Router.Budget, cfg.Router.Floor),
		orch:     orchestrator.New(catalog, config.DefaultWorkers, cfg.Router.Budget, config.DefaultComponentTimeout, logger),
		composer: compose.New(),
		indexer: indexer.New(st, emb, &indexer.Config{
			Workers:       cfg.Indexer.Workers,
			MaxEntryBytes: cfg.Indexer.MaxEntryBytes,
		}),
		logger: logger,
	}

	if cfg.Advisor.Enabled {
		e.advisor = advisor.New(cfg.Advisor.Endpoint, cfg.Advisor.Model, cfg.Advisor.Timeout)
	}

	return e, nil
}

// Close releases every engine resource
func (e *Engine) Close() error {
	var errs []error
	if err := e.learner.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Answer runs the full pipeline for one query and returns the composed
// report. Component failures degrade individual findings; only
// infrastructure failures (store, embedding) fail the whole query.
func (e *Engine) Answer(ctx context.Context, q types.Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Normalize()

	results, err := e.searcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if results.Stale {
		e.logger.Printf("index is stale; results may be out of date")
	}

	classified := intent.Classify(q.Text)
	decisions := e.router.Route(classified)
	outcomes := e.orch.Execute(ctx, decisions, q, results)

	var used []string
	var findings []*types.Finding
	for _, o := range outcomes {
		if !o.Decision.Included {
			continue
		}
		used = append(used, o.Decision.Component)
		if o.Finding != nil {
			findings = append(findings, o.Finding)
		}
	}

	research := e.consultAdvisor(ctx, classified, q, findings)

	// A stale index warns, it never fails the query
	var extraAlerts []types.Alert
	if results.Stale {
		extraAlerts = append(extraAlerts, types.Alert{
			Category: "stale_index",
			Message:  "index is stale; results may be out of date",
		})
	}
	report := e.composer.Compose(classified, outcomes, research, extraAlerts...)

	return &Result{
		Report:         report,
		Intent:         classified,
		ComponentsUsed: used,
		Stale:          results.Stale,
	}, nil
}

// consultAdvisor asks the advisor for free-text guidance on research-like
// queries. Strictly best effort; failures log and return empty text.
func (e *Engine) consultAdvisor(ctx context.Context, classified types.Intent, q types.Query, findings []*types.Finding) string {
	if e.advisor == nil {
		return ""
	}
	if classified.Category != types.IntentResearch && classified.Category != types.IntentGeneral {
		return ""
	}

	text, err := e.advisor.Generate(ctx, advisor.BuildPrompt(q, findings))
	if err != nil {
		e.logger.Printf("advisor unavailable: %v", err)
		return ""
	}
	return text
}

// Index runs one incremental indexing pass and invalidates the query cache
func (e *Engine) Index(ctx context.Context) (*indexer.Statistics, error) {
	stats, err := e.indexer.IndexRoots(ctx, e.cfg.CodeRoots, e.cfg.DocRoots)
	if err != nil {
		return nil, err
	}
	e.searcher.InvalidateCache()
	return stats, nil
}

// RunBackgroundIndexer starts periodic rescans if configured. Blocks
// until the context is cancelled.
func (e *Engine) RunBackgroundIndexer(ctx context.Context) {
	if e.cfg.Indexer.RescanInterval <= 0 {
		return
	}
	e.indexer.RunBackground(ctx, e.cfg.CodeRoots, e.cfg.DocRoots, e.cfg.Indexer.RescanInterval)
}

// RecordFeedback logs one rating and applies its weight update
func (e *Engine) RecordFeedback(ctx context.Context, rec types.FeedbackRecord) (types.FeedbackRecord, error) {
	return e.learner.Record(ctx, rec)
}

// RebuildWeights reconstructs the weight table from the feedback log
func (e *Engine) RebuildWeights(ctx context.Context) error {
	return e.learner.Rebuild(ctx)
}

// GetStatus reports entry counts and index freshness
func (e *Engine) GetStatus(ctx context.Context) (*Status, error) {
	code, err := e.store.CountEntries(ctx, types.CorpusCode)
	if err != nil {
		return nil, err
	}
	docs, err := e.store.CountEntries(ctx, types.CorpusDocument)
	if err != nil {
		return nil, err
	}

	s := &Status{
		CodeEntries:   code,
		DocEntries:    docs,
		EmbedProvider: e.embedder.Provider(),
		EmbedModel:    e.embedder.Model(),
		WeightCells:   e.learner.Cells(),
	}

	lastBuild, err := e.store.LastBuildTime(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.IndexStale = true
	case err != nil:
		return nil, err
	default:
		s.LastBuild = lastBuild
		s.IndexStale = time.Since(lastBuild) > e.cfg.Search.StalenessWindow
	}

	return s, nil
}
