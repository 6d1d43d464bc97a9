package components

import (
	"context"
	"fmt"

	"github.com/codenav/codenav/pkg/types"
)

// lowPriorityThreshold marks entries whose priority suggests they were
// never triaged after indexing
const lowPriorityThreshold = 3

// priorityAudit reports the priority distribution of the matched entries
func priorityAudit(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	finding := &types.Finding{
		Component: "priority_audit",
		Severity:  types.SeverityInfo,
	}

	total := 0
	low := 0
	high := 0
	audit := func(hits []types.ScoredEntry) {
		for _, hit := range hits {
			total++
			switch {
			case hit.Entry.Priority <= lowPriorityThreshold:
				low++
				finding.Alerts = append(finding.Alerts, types.Alert{
					Category: "low_priority_entry",
					Message:  fmt.Sprintf("%s has priority %d", hit.Entry.Path, hit.Entry.Priority),
					Count:    1,
				})
			case hit.Entry.Priority >= 8:
				high++
			}
		}
	}
	audit(results.CodeHits)
	audit(results.DocHits)

	if total == 0 {
		finding.Summary = "no entries to audit"
		return finding, nil
	}

	finding.Summary = fmt.Sprintf("%d entries matched: %d high priority, %d low priority", total, high, low)
	if low > 0 {
		finding.Severity = types.SeverityWarning
	}
	return finding, nil
}
