package components

import (
	"context"
	"fmt"

	"github.com/codenav/codenav/pkg/types"
)

// codeLocation surfaces the most relevant code hits, code before docs
func codeLocation(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	finding := &types.Finding{
		Component: "code_location",
		Severity:  types.SeverityInfo,
	}

	if len(results.CodeHits) == 0 {
		finding.Summary = "no code matched the query"
		finding.Alerts = append(finding.Alerts, types.Alert{
			Category: "no_code_match",
			Message:  fmt.Sprintf("no code entries similar to %q", q.Text),
			Count:    1,
		})
		return finding, nil
	}

	top := results.CodeHits[0]
	finding.Summary = fmt.Sprintf("most similar code: %s (similarity %.2f)",
		top.Entry.Path, top.Similarity)

	// Code references first; doc paths follow only as supporting context
	for _, hit := range results.CodeHits {
		finding.References = append(finding.References, hit.Entry.Path)
	}

	return finding, nil
}
