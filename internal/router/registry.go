package router

import (
	"fmt"
	"sort"

	"github.com/codenav/codenav/pkg/types"
)

// Descriptor is one static catalog entry for an analysis component
type Descriptor struct {
	// Name uniquely identifies the component
	Name string

	// CapabilityTags describe what kind of finding the component produces
	CapabilityTags []string

	// EstimatedCost is the relative token/time weight used for budget
	// accounting
	EstimatedCost int
}

// HasCapability reports whether the descriptor provides a capability tag
func (d *Descriptor) HasCapability(tag string) bool {
	for _, t := range d.CapabilityTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds the static component catalog and the intent routing tables
type Registry struct {
	components map[string]Descriptor
	ordered    []string // Registration order, for deterministic iteration
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Register adds a component descriptor to the catalog
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("component name is required")
	}
	if d.EstimatedCost <= 0 {
		return fmt.Errorf("component %s: estimated cost must be positive", d.Name)
	}
	if _, exists := r.components[d.Name]; exists {
		return fmt.Errorf("component %s already registered", d.Name)
	}

	r.components[d.Name] = d
	r.ordered = append(r.ordered, d.Name)
	return nil
}

// Get returns a descriptor by name
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.components[name]
	return d, ok
}

// All returns every descriptor in registration order
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.ordered))
	for _, name := range r.ordered {
		out = append(out, r.components[name])
	}
	return out
}

// intentCandidates is the static intent -> candidate component set table.
// GENERAL is absent on purpose: it bypasses filtering and gets the full
// catalog.
var intentCandidates = map[types.IntentCategory][]string{
	types.IntentDocLookup:    {"doc_lookup", "stale_docs", "reference_scan"},
	types.IntentCodeLocation: {"code_location", "reference_scan"},
	types.IntentModuleHealth: {"module_health", "stale_docs", "priority_audit"},
	types.IntentResearch:     {"doc_lookup", "code_location", "reference_scan"},
}

// essentialCapabilities names capability tags that must survive routing for
// a given intent. A sole provider of an essential tag is force-included
// even when feedback has decayed its weight to zero.
var essentialCapabilities = map[types.IntentCategory][]string{
	types.IntentDocLookup:    {"protocol-lookup"},
	types.IntentCodeLocation: {"code-location"},
	types.IntentModuleHealth: {"module-health"},
}

// Candidates returns the candidate descriptors for an intent, filtered to
// names actually present in the catalog, in a stable order.
func (r *Registry) Candidates(category types.IntentCategory) []Descriptor {
	names, ok := intentCandidates[category]
	if !ok {
		return r.All()
	}

	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		if d, exists := r.components[name]; exists {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Essential returns the essential capability tags for an intent
func Essential(category types.IntentCategory) []string {
	return essentialCapabilities[category]
}
