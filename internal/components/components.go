package components

import (
	"context"

	"github.com/codenav/codenav/internal/router"
	"github.com/codenav/codenav/pkg/types"
)

// Func is a pure analysis function over a query and its search results.
// Components never mutate shared state and may only read the file system.
type Func func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error)

// Component bundles a routing descriptor with its implementation
type Component struct {
	Descriptor router.Descriptor
	Run        Func
}

// Catalog returns the built-in component set. Code and doc roots are used
// by components that verify referenced paths on disk.
func Catalog(codeRoots, docRoots []string) []Component {
	return []Component{
		{
			Descriptor: router.Descriptor{
				Name:           "doc_lookup",
				CapabilityTags: []string{"doc-lookup", "protocol-lookup"},
				EstimatedCost:  3,
			},
			Run: docLookup,
		},
		{
			Descriptor: router.Descriptor{
				Name:           "code_location",
				CapabilityTags: []string{"code-location"},
				EstimatedCost:  2,
			},
			Run: codeLocation,
		},
		{
			Descriptor: router.Descriptor{
				Name:           "module_health",
				CapabilityTags: []string{"module-health"},
				EstimatedCost:  4,
			},
			Run: moduleHealth,
		},
		{
			Descriptor: router.Descriptor{
				Name:           "stale_docs",
				CapabilityTags: []string{"stale-docs"},
				EstimatedCost:  2,
			},
			Run: staleDocs,
		},
		{
			Descriptor: router.Descriptor{
				Name:           "priority_audit",
				CapabilityTags: []string{"priority-audit"},
				EstimatedCost:  1,
			},
			Run: priorityAudit,
		},
		{
			Descriptor: router.Descriptor{
				Name:           "reference_scan",
				CapabilityTags: []string{"reference-scan"},
				EstimatedCost:  2,
			},
			Run: newReferenceScan(append(append([]string{}, codeRoots...), docRoots...)),
		},
	}
}
