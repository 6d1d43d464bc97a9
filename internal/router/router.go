package router

import (
	"sort"

	"github.com/codenav/codenav/pkg/types"
)

// Exclusion reasons recorded on decisions kept for observability
const (
	ReasonOverBudget    = "skipped_over_budget"
	ReasonFloorOverride = "floor_override"
)

// Decision is one routing outcome. Excluded candidates stay in the list
// with Included=false; they are logged, never silently dropped.
type Decision struct {
	Component string
	Weight    float64
	Cost      int
	Included  bool
	Reason    string // Empty for plain inclusion
}

// WeightSource provides learned routing weights. The router only reads;
// the feedback learner is the sole writer.
type WeightSource interface {
	// Weight returns the learned weight for (intent, component),
	// defaulting to 1.0 when no feedback has been recorded.
	Weight(category types.IntentCategory, component string) float64
}

// Router selects an ordered, budget-constrained component subset per intent
type Router struct {
	registry *Registry
	weights  WeightSource
	budget   int
	floor    float64
}

// New creates a router over a registry and a weight source
func New(registry *Registry, weights WeightSource, budget int, floor float64) *Router {
	return &Router{
		registry: registry,
		weights:  weights,
		budget:   budget,
		floor:    floor,
	}
}

// Route produces the decision list for an intent.
//
// GENERAL bypasses weight filtering and budget truncation entirely and
// includes the full catalog: breadth over precision when the intent is
// unknown. For all other intents, candidates are ordered by learned weight
// (ties broken by name) and included greedily until the cumulative
// estimated cost would exceed the budget.
func (r *Router) Route(intent types.Intent) []Decision {
	if intent.Category == types.IntentGeneral {
		return r.routeGeneral()
	}

	candidates := r.registry.Candidates(intent.Category)

	decisions := make([]Decision, 0, len(candidates))
	for _, d := range candidates {
		decisions = append(decisions, Decision{
			Component: d.Name,
			Weight:    r.weights.Weight(intent.Category, d.Name),
			Cost:      d.EstimatedCost,
		})
	}

	// Descending by weight, stable tie-break by name
	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].Weight != decisions[j].Weight {
			return decisions[i].Weight > decisions[j].Weight
		}
		return decisions[i].Component < decisions[j].Component
	})

	// Greedy inclusion under the budget; silenced components stay out
	spent := 0
	for i := range decisions {
		d := &decisions[i]
		if d.Weight < r.floor {
			continue
		}
		if spent+d.Cost > r.budget {
			d.Reason = ReasonOverBudget
			continue
		}
		d.Included = true
		spent += d.Cost
	}

	r.applyFloorOverride(intent.Category, decisions)
	return decisions
}

// routeGeneral includes the entire catalog in registration order
func (r *Router) routeGeneral() []Decision {
	all := r.registry.All()
	decisions := make([]Decision, 0, len(all))
	for _, d := range all {
		decisions = append(decisions, Decision{
			Component: d.Name,
			Weight:    1.0,
			Cost:      d.EstimatedCost,
			Included:  true,
		})
	}
	return decisions
}

// applyFloorOverride force-includes the sole provider of an essential
// capability that routing would otherwise silence. This prevents weight
// learning from ever fully muting a structurally necessary component.
func (r *Router) applyFloorOverride(category types.IntentCategory, decisions []Decision) {
	for _, tag := range Essential(category) {
		var providers []int
		covered := false

		for i := range decisions {
			d, ok := r.registry.Get(decisions[i].Component)
			if !ok || !d.HasCapability(tag) {
				continue
			}
			providers = append(providers, i)
			if decisions[i].Included {
				covered = true
			}
		}

		if covered || len(providers) != 1 {
			continue
		}

		d := &decisions[providers[0]]
		d.Included = true
		d.Reason = ReasonFloorOverride
	}
}
