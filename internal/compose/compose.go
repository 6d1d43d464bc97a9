package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codenav/codenav/internal/orchestrator"
	"github.com/codenav/codenav/pkg/types"
)

// Composer renders orchestrator outcomes into a deterministic plain-text
// report. The same inputs always produce byte-identical output.
type Composer struct{}

// New creates a composer
func New() *Composer {
	return &Composer{}
}

// Compose renders the final report. Research text is included only when
// the advisor produced any; a run with no findings still yields a valid
// minimal report. Extra alerts (the stale-index warning) are merged into
// the alert section alongside component alerts.
func (c *Composer) Compose(intent types.Intent, outcomes []orchestrator.Outcome, research string, extraAlerts ...types.Alert) string {
	var b strings.Builder

	b.WriteString("[INTENT]\n")
	fmt.Fprintf(&b, "%s (confidence %.2f)\n", intent.Category, intent.Confidence)

	findings := collectFindings(outcomes)

	b.WriteString("\n[FINDINGS]\n")
	if len(findings) == 0 {
		b.WriteString("no findings\n")
	}
	for _, f := range findings {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", f.Severity, f.Component, f.Summary)
		for _, ref := range f.References {
			fmt.Fprintf(&b, "    %s\n", ref)
		}
	}

	if research != "" {
		b.WriteString("\n[RESEARCH]\n")
		b.WriteString(strings.TrimRight(research, "\n"))
		b.WriteString("\n")
	}

	alerts := dedupeAlerts(findings, extraAlerts)
	if len(alerts) > 0 {
		b.WriteString("\n[ALERTS]\n")
		for _, a := range alerts {
			if a.Count > 1 {
				fmt.Fprintf(&b, "- %d occurrences: %s\n", a.Count, a.Category)
				if len(a.Examples) > 0 {
					fmt.Fprintf(&b, "    e.g. %s\n", a.Examples[0])
				}
			} else {
				fmt.Fprintf(&b, "- %s\n", a.Message)
			}
		}
	}

	b.WriteString("\n[NEXT ACTIONS]\n")
	for _, action := range nextActions(intent.Category, findings) {
		fmt.Fprintf(&b, "- %s\n", action)
	}

	return b.String()
}

// collectFindings keeps findings in decision order, dropping skipped
// decisions that produced nothing
func collectFindings(outcomes []orchestrator.Outcome) []*types.Finding {
	findings := make([]*types.Finding, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Finding != nil {
			findings = append(findings, o.Finding)
		}
	}
	return findings
}

// dedupeAlerts merges alerts by category across all findings. Repeated
// categories collapse to a count plus one representative example;
// singleton alerts pass through verbatim.
func dedupeAlerts(findings []*types.Finding, extra []types.Alert) []types.Alert {
	merged := make(map[string]*types.Alert)
	var order []string

	add := func(a types.Alert) {
		m, ok := merged[a.Category]
		if !ok {
			cp := a
			if cp.Count == 0 {
				cp.Count = 1
			}
			merged[a.Category] = &cp
			order = append(order, a.Category)
			return
		}
		n := a.Count
		if n == 0 {
			n = 1
		}
		m.Count += n
		if len(m.Examples) < types.MaxAlertExamples {
			m.Examples = append(m.Examples, a.Message)
		}
	}

	for _, f := range findings {
		for _, a := range f.Alerts {
			add(a)
		}
	}
	for _, a := range extra {
		add(a)
	}

	// First-seen order would depend on routing; sort for stable output
	sort.Strings(order)

	out := make([]types.Alert, 0, len(order))
	for _, cat := range order {
		m := merged[cat]
		if m.Count > 1 && len(m.Examples) == 0 {
			m.Examples = append(m.Examples, m.Message)
		}
		out = append(out, *m)
	}
	return out
}

// actionTemplates maps an intent to its follow-up suggestions. %s is
// replaced with the first reference of the first finding that has one.
var actionTemplates = map[types.IntentCategory][]string{
	types.IntentDocLookup: {
		"open %s and confirm it answers the question",
		"record feedback on this answer to tune future routing",
	},
	types.IntentCodeLocation: {
		"open %s to inspect the matched code",
		"search again with a narrower query if this is not the right location",
	},
	types.IntentModuleHealth: {
		"review the flagged modules starting with %s",
		"refresh stale documentation before the next release",
	},
	types.IntentResearch: {
		"follow the references above, starting with %s",
		"narrow the query once a promising area is found",
	},
	types.IntentGeneral: {
		"rephrase the query with more specific terms",
		"record feedback so future routing improves",
	},
}

// nextActions interpolates the intent's action templates with the top
// finding reference when one exists
func nextActions(category types.IntentCategory, findings []*types.Finding) []string {
	templates, ok := actionTemplates[category]
	if !ok {
		templates = actionTemplates[types.IntentGeneral]
	}

	topRef := ""
	for _, f := range findings {
		if len(f.References) > 0 {
			topRef = f.References[0]
			break
		}
	}

	actions := make([]string, 0, len(templates))
	for _, t := range templates {
		if strings.Contains(t, "%s") {
			if topRef == "" {
				continue
			}
			actions = append(actions, fmt.Sprintf(t, topRef))
			continue
		}
		actions = append(actions, t)
	}
	if len(actions) == 0 {
		actions = append(actions, "rephrase the query with more specific terms")
	}
	return actions
}
