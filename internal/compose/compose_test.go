package compose

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenav/codenav/internal/orchestrator"
	"github.com/codenav/codenav/internal/router"
	"github.com/codenav/codenav/pkg/types"
)

func outcomeWithFinding(f *types.Finding) orchestrator.Outcome {
	return orchestrator.Outcome{
		Decision: router.Decision{Component: f.Component, Included: true},
		Finding:  f,
	}
}

func TestComposeSections(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentCodeLocation, Confidence: 0.67}
	outcomes := []orchestrator.Outcome{
		outcomeWithFinding(&types.Finding{
			Component:  "code_location",
			Severity:   types.SeverityInfo,
			Summary:    "most similar code: a/b.py (similarity 0.91)",
			References: []string{"a/b.py"},
		}),
	}

	report := c.Compose(intent, outcomes, "")

	assert.Contains(t, report, "[INTENT]\ncode_location (confidence 0.67)")
	assert.Contains(t, report, "[FINDINGS]")
	assert.Contains(t, report, "most similar code: a/b.py")
	assert.Contains(t, report, "[NEXT ACTIONS]")
	assert.Contains(t, report, "a/b.py")
	assert.NotContains(t, report, "[RESEARCH]")
	assert.NotContains(t, report, "[ALERTS]")
}

func TestComposeResearchOnlyWhenPresent(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentResearch, Confidence: 0.5}

	report := c.Compose(intent, nil, "look at the scheduler package")
	assert.Contains(t, report, "[RESEARCH]\nlook at the scheduler package")
}

func TestComposeRendersExtraAlerts(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentGeneral, Confidence: 0}

	stale := types.Alert{Category: "stale_index", Message: "index is stale; results may be out of date"}
	report := c.Compose(intent, nil, "", stale)

	require.Contains(t, report, "[ALERTS]")
	assert.Contains(t, report, "- index is stale; results may be out of date")
}

func TestComposeDedupesRepeatedAlerts(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentModuleHealth, Confidence: 0.8}

	finding := &types.Finding{
		Component: "stale_docs",
		Severity:  types.SeverityWarning,
		Summary:   "87 documentation entries lag their module's code",
	}
	for i := 0; i < 87; i++ {
		finding.Alerts = append(finding.Alerts, types.Alert{
			Category: "stale_doc",
			Message:  fmt.Sprintf("docs/mod%d.md is older than its module's code", i),
			Count:    1,
		})
	}

	report := c.Compose(intent, []orchestrator.Outcome{outcomeWithFinding(finding)}, "")

	assert.Contains(t, report, "87 occurrences: stale_doc")
	assert.Contains(t, report, "e.g. docs/mod0.md")
	// One collapsed line, not 87
	assert.Equal(t, 1, strings.Count(report, "stale_doc\n"))
}

func TestComposeSingletonAlertVerbatim(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentDocLookup, Confidence: 0.9}

	finding := &types.Finding{
		Component: "doc_lookup",
		Severity:  types.SeverityWarning,
		Summary:   "no documentation matched the query",
		Alerts: []types.Alert{
			{Category: "no_doc_match", Message: "no documentation entries similar to \"frob\"", Count: 1},
		},
	}

	report := c.Compose(intent, []orchestrator.Outcome{outcomeWithFinding(finding)}, "")
	assert.Contains(t, report, "- no documentation entries similar to \"frob\"\n")
	assert.NotContains(t, report, "occurrences")
}

func TestComposeMergesAcrossComponents(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentModuleHealth, Confidence: 0.8}

	outcomes := []orchestrator.Outcome{
		outcomeWithFinding(&types.Finding{
			Component: "stale_docs",
			Summary:   "one stale doc",
			Alerts:    []types.Alert{{Category: "stale_doc", Message: "docs/a.md lags", Count: 1}},
		}),
		outcomeWithFinding(&types.Finding{
			Component: "module_health",
			Summary:   "another stale doc",
			Alerts:    []types.Alert{{Category: "stale_doc", Message: "docs/b.md lags", Count: 1}},
		}),
	}

	report := c.Compose(intent, outcomes, "")
	assert.Contains(t, report, "2 occurrences: stale_doc")
}

func TestComposeZeroFindings(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentGeneral, Confidence: 0}

	report := c.Compose(intent, nil, "")
	assert.Contains(t, report, "[INTENT]")
	assert.Contains(t, report, "no findings")
	assert.Contains(t, report, "[NEXT ACTIONS]")
}

func TestComposeByteDeterministic(t *testing.T) {
	c := New()
	intent := types.Intent{Category: types.IntentModuleHealth, Confidence: 0.75}

	outcomes := []orchestrator.Outcome{
		outcomeWithFinding(&types.Finding{
			Component:  "module_health",
			Severity:   types.SeverityWarning,
			Summary:    "1 of 2 matched modules surfaced no documentation",
			References: []string{"modA", "modB"},
			Alerts: []types.Alert{
				{Category: "undocumented_module", Message: "module modA surfaced no documentation", Count: 1},
			},
		}),
		outcomeWithFinding(&types.Finding{
			Component: "stale_docs",
			Summary:   "no stale documentation among the matched entries",
		}),
	}

	first := c.Compose(intent, outcomes, "")
	require.NotEmpty(t, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Compose(intent, outcomes, ""))
	}
}
