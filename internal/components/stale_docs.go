package components

import (
	"context"
	"fmt"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

// staleDocGrace is how far documentation may lag its module's code before
// it counts as stale
const staleDocGrace = 7 * 24 * time.Hour

// staleDocs flags documentation that lags the code of its module
func staleDocs(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	finding := &types.Finding{
		Component: "stale_docs",
		Severity:  types.SeverityInfo,
	}

	// Latest code modification per module owner
	latestCode := make(map[string]time.Time)
	for _, hit := range results.CodeHits {
		owner := hit.Entry.ModuleOwner
		if owner == "" {
			continue
		}
		if hit.Entry.LastModified.After(latestCode[owner]) {
			latestCode[owner] = hit.Entry.LastModified
		}
	}

	stale := 0
	for _, hit := range results.DocHits {
		codeTime, ok := latestCode[hit.Entry.ModuleOwner]
		if !ok {
			continue
		}
		if codeTime.Sub(hit.Entry.LastModified) > staleDocGrace {
			stale++
			finding.Alerts = append(finding.Alerts, types.Alert{
				Category: "stale_doc",
				Message:  fmt.Sprintf("%s is older than its module's code by more than %s", hit.Entry.Path, staleDocGrace),
				Count:    1,
			})
			finding.References = append(finding.References, hit.Entry.Path)
		}
	}

	if stale > 0 {
		finding.Severity = types.SeverityWarning
		finding.Summary = fmt.Sprintf("%d documentation entries lag their module's code", stale)
	} else {
		finding.Summary = "no stale documentation among the matched entries"
	}

	return finding, nil
}
