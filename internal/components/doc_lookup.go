package components

import (
	"context"
	"fmt"

	"github.com/codenav/codenav/pkg/types"
)

// docLookup surfaces the most relevant documentation hits
func docLookup(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	finding := &types.Finding{
		Component: "doc_lookup",
		Severity:  types.SeverityInfo,
	}

	if len(results.DocHits) == 0 {
		finding.Summary = "no documentation matched the query"
		finding.Alerts = append(finding.Alerts, types.Alert{
			Category: "no_doc_match",
			Message:  fmt.Sprintf("no documentation entries similar to %q", q.Text),
			Count:    1,
		})
		return finding, nil
	}

	top := results.DocHits[0]
	finding.Summary = fmt.Sprintf("best documentation match: %s (%s, similarity %.2f)",
		top.Entry.Path, top.Entry.Type, top.Similarity)

	for _, hit := range results.DocHits {
		finding.References = append(finding.References, hit.Entry.Path)
	}

	return finding, nil
}
