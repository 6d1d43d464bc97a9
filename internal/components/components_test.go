package components

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenav/codenav/pkg/types"
)

func hit(path string, corpus types.Corpus, owner string, modified time.Time, similarity float64) types.ScoredEntry {
	return types.ScoredEntry{
		Entry: types.Entry{
			ID:           path,
			Corpus:       corpus,
			Path:         path,
			Type:         types.EntrySource,
			Priority:     5,
			ModuleOwner:  owner,
			LastModified: modified,
		},
		Similarity: similarity,
	}
}

func TestCatalogDescriptorsAreUnique(t *testing.T) {
	catalog := Catalog([]string{"."}, []string{"docs"})
	seen := map[string]bool{}
	for _, c := range catalog {
		assert.False(t, seen[c.Descriptor.Name], "duplicate component %s", c.Descriptor.Name)
		seen[c.Descriptor.Name] = true
		assert.Positive(t, c.Descriptor.EstimatedCost)
		assert.NotNil(t, c.Run)
	}
}

func TestCodeLocationReferencesCodeFirst(t *testing.T) {
	now := time.Now()
	results := &types.SearchResults{
		CodeHits: []types.ScoredEntry{
			hit("a/b.py", types.CorpusCode, "a", now, 0.91),
			hit("a/c.py", types.CorpusCode, "a", now, 0.70),
		},
		DocHits: []types.ScoredEntry{
			hit("docs/b.md", types.CorpusDocument, "a", now, 0.85),
		},
	}

	finding, err := codeLocation(context.Background(), types.Query{Text: "where is b located"}, results)
	require.NoError(t, err)

	assert.Contains(t, finding.Summary, "a/b.py")
	require.NotEmpty(t, finding.References)
	assert.Equal(t, "a/b.py", finding.References[0])
	assert.NotContains(t, finding.References, "docs/b.md")
}

func TestCodeLocationNoMatch(t *testing.T) {
	finding, err := codeLocation(context.Background(), types.Query{Text: "q"}, &types.SearchResults{})
	require.NoError(t, err)
	require.Len(t, finding.Alerts, 1)
	assert.Equal(t, "no_code_match", finding.Alerts[0].Category)
}

func TestDocLookupSurfacesTopDoc(t *testing.T) {
	results := &types.SearchResults{
		DocHits: []types.ScoredEntry{
			hit("docs/protocol.md", types.CorpusDocument, "a", time.Now(), 0.88),
		},
	}
	finding, err := docLookup(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)
	assert.Contains(t, finding.Summary, "docs/protocol.md")
	assert.Empty(t, finding.Alerts)
}

func TestStaleDocsFlagsLaggingDocs(t *testing.T) {
	now := time.Now()
	results := &types.SearchResults{
		CodeHits: []types.ScoredEntry{
			hit("a/main.go", types.CorpusCode, "a", now, 0.9),
		},
		DocHits: []types.ScoredEntry{
			hit("docs/a.md", types.CorpusDocument, "a", now.Add(-30*24*time.Hour), 0.8),
			hit("docs/fresh.md", types.CorpusDocument, "a", now, 0.8),
		},
	}

	finding, err := staleDocs(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)

	require.Len(t, finding.Alerts, 1)
	assert.Equal(t, "stale_doc", finding.Alerts[0].Category)
	assert.Equal(t, types.SeverityWarning, finding.Severity)
	assert.Contains(t, finding.References, "docs/a.md")
}

func TestStaleDocsNoCodeBaseline(t *testing.T) {
	results := &types.SearchResults{
		DocHits: []types.ScoredEntry{
			hit("docs/a.md", types.CorpusDocument, "a", time.Now().Add(-365*24*time.Hour), 0.8),
		},
	}
	finding, err := staleDocs(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)
	assert.Empty(t, finding.Alerts)
	assert.Equal(t, types.SeverityInfo, finding.Severity)
}

func TestModuleHealthFlagsUndocumentedModules(t *testing.T) {
	now := time.Now()
	results := &types.SearchResults{
		CodeHits: []types.ScoredEntry{
			hit("a/x.go", types.CorpusCode, "a", now, 0.9),
			hit("b/y.go", types.CorpusCode, "b", now, 0.8),
		},
		DocHits: []types.ScoredEntry{
			hit("docs/a.md", types.CorpusDocument, "a", now, 0.7),
		},
	}

	finding, err := moduleHealth(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)

	require.Len(t, finding.Alerts, 1)
	assert.Equal(t, "undocumented_module", finding.Alerts[0].Category)
	assert.Contains(t, finding.Alerts[0].Message, "module b")
}

func TestPriorityAuditCountsBands(t *testing.T) {
	now := time.Now()
	low := hit("low.go", types.CorpusCode, "a", now, 0.5)
	low.Entry.Priority = 2
	high := hit("high.md", types.CorpusDocument, "a", now, 0.5)
	high.Entry.Priority = 9

	results := &types.SearchResults{
		CodeHits: []types.ScoredEntry{low},
		DocHits:  []types.ScoredEntry{high},
	}

	finding, err := priorityAudit(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)
	assert.Contains(t, finding.Summary, "2 entries matched: 1 high priority, 1 low priority")
	require.Len(t, finding.Alerts, 1)
	assert.Equal(t, "low_priority_entry", finding.Alerts[0].Category)
}

func TestReferenceScanFlagsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	run := newReferenceScan([]string{dir})

	results := &types.SearchResults{
		CodeHits: []types.ScoredEntry{
			hit("gone.go", types.CorpusCode, "a", time.Now(), 0.9),
		},
	}

	finding, err := run(context.Background(), types.Query{Text: "q"}, results)
	require.NoError(t, err)
	require.Len(t, finding.Alerts, 1)
	assert.Equal(t, "missing_reference", finding.Alerts[0].Category)
}
