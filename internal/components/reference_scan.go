package components

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codenav/codenav/pkg/types"
)

// newReferenceScan builds a component that verifies matched paths still
// exist under the configured roots. Reads the file system but never
// writes to it.
func newReferenceScan(roots []string) Func {
	return func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
		finding := &types.Finding{
			Component: "reference_scan",
			Severity:  types.SeverityInfo,
		}

		checked := 0
		missing := 0
		scan := func(hits []types.ScoredEntry) {
			for _, hit := range hits {
				if ctx.Err() != nil {
					return
				}
				checked++
				if pathExists(roots, hit.Entry.Path) {
					continue
				}
				missing++
				finding.Alerts = append(finding.Alerts, types.Alert{
					Category: "missing_reference",
					Message:  fmt.Sprintf("indexed path %s no longer exists", hit.Entry.Path),
					Count:    1,
				})
				finding.References = append(finding.References, hit.Entry.Path)
			}
		}
		scan(results.CodeHits)
		scan(results.DocHits)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if missing > 0 {
			finding.Severity = types.SeverityWarning
			finding.Summary = fmt.Sprintf("%d of %d referenced paths no longer exist on disk", missing, checked)
		} else {
			finding.Summary = fmt.Sprintf("all %d referenced paths verified on disk", checked)
		}
		return finding, nil
	}
}

func pathExists(roots []string, path string) bool {
	if filepath.IsAbs(path) {
		_, err := os.Stat(path)
		return err == nil
	}
	for _, root := range roots {
		if _, err := os.Stat(filepath.Join(root, path)); err == nil {
			return true
		}
	}
	return false
}
