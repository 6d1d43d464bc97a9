package components

import (
	"context"
	"fmt"
	"sort"

	"github.com/codenav/codenav/pkg/types"
)

// moduleHealth checks whether the modules surfaced by the search carry
// documentation alongside their code
func moduleHealth(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	finding := &types.Finding{
		Component: "module_health",
		Severity:  types.SeverityInfo,
	}

	codeModules := make(map[string]bool)
	for _, hit := range results.CodeHits {
		if hit.Entry.ModuleOwner != "" {
			codeModules[hit.Entry.ModuleOwner] = true
		}
	}

	docModules := make(map[string]bool)
	for _, hit := range results.DocHits {
		if hit.Entry.ModuleOwner != "" {
			docModules[hit.Entry.ModuleOwner] = true
		}
	}

	if len(codeModules) == 0 {
		finding.Summary = "no module owners resolved for the matched code"
		return finding, nil
	}

	// Deterministic iteration for reproducible reports
	modules := make([]string, 0, len(codeModules))
	for m := range codeModules {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	undocumented := 0
	for _, m := range modules {
		finding.References = append(finding.References, m)
		if !docModules[m] {
			undocumented++
			finding.Alerts = append(finding.Alerts, types.Alert{
				Category: "undocumented_module",
				Message:  fmt.Sprintf("module %s surfaced no documentation", m),
				Count:    1,
			})
		}
	}

	if undocumented > 0 {
		finding.Severity = types.SeverityWarning
		finding.Summary = fmt.Sprintf("%d of %d matched modules surfaced no documentation", undocumented, len(modules))
	} else {
		finding.Summary = fmt.Sprintf("all %d matched modules have documentation coverage", len(modules))
	}

	return finding, nil
}
