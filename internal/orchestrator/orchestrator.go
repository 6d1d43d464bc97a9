package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codenav/codenav/internal/components"
	"github.com/codenav/codenav/internal/router"
	"github.com/codenav/codenav/pkg/types"
)

// Outcome is the result of executing one routing decision
type Outcome struct {
	Decision router.Decision
	Finding  *types.Finding
	Elapsed  time.Duration
}

// Orchestrator fans routed components out over a bounded worker pool and
// collects their findings in decision order.
type Orchestrator struct {
	catalog map[string]components.Func
	workers int
	timeout time.Duration
	ceiling int // Cumulative cost ceiling per query; 0 disables
	logger  *log.Logger
}

// New creates an orchestrator over a component catalog
func New(catalog []components.Component, workers, ceiling int, timeout time.Duration, logger *log.Logger) *Orchestrator {
	funcs := make(map[string]components.Func, len(catalog))
	for _, c := range catalog {
		funcs[c.Descriptor.Name] = c.Run
	}
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		catalog: funcs,
		workers: workers,
		timeout: timeout,
		ceiling: ceiling,
		logger:  logger,
	}
}

// Execute runs every included decision concurrently and returns one outcome
// per decision, in the same order the router produced them. Excluded
// decisions are carried through with a nil finding so callers can report
// what was skipped. A component that exceeds its timeout, or is cut off by
// the query deadline, yields a degraded finding instead of failing the run.
//
// A running cost counter enforces the per-query ceiling: once the next
// decision would push cumulative cost past it, that decision and everything
// after are skipped as skipped_over_budget. Floor-overridden decisions are
// exempt; each is the sole provider of a capability the intent requires.
func (o *Orchestrator) Execute(ctx context.Context, decisions []router.Decision, q types.Query, results *types.SearchResults) []Outcome {
	outcomes := make([]Outcome, len(decisions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	spent := 0
	overCeiling := false
	for i, d := range decisions {
		outcomes[i].Decision = d
		if !d.Included {
			o.logger.Printf("orchestrator: %s excluded (%s)", d.Component, d.Reason)
			continue
		}

		if d.Reason != router.ReasonFloorOverride {
			if o.ceiling > 0 && spent+d.Cost > o.ceiling {
				overCeiling = true
			}
			if overCeiling {
				outcomes[i].Decision.Included = false
				outcomes[i].Decision.Reason = router.ReasonOverBudget
				o.logger.Printf("orchestrator: %s %s (cost %d, spent %d of %d)",
					d.Component, router.ReasonOverBudget, d.Cost, spent, o.ceiling)
				continue
			}
			spent += d.Cost
		}

		run, ok := o.catalog[d.Component]
		if !ok {
			outcomes[i].Finding = degradedFinding(d.Component, "component not in catalog")
			continue
		}

		g.Go(func() error {
			start := time.Now()
			finding, err := o.runOne(gctx, run, d.Component, q, results)
			outcomes[i].Elapsed = time.Since(start)
			outcomes[i].Finding = finding
			if err != nil {
				o.logger.Printf("orchestrator: %s degraded: %v", d.Component, err)
			}
			return nil
		})
	}

	// Workers never return errors; degraded components are findings
	_ = g.Wait()
	return outcomes
}

// runOne executes a single component under its per-component timeout
func (o *Orchestrator) runOne(ctx context.Context, run components.Func, name string, q types.Query, results *types.SearchResults) (*types.Finding, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type result struct {
		finding *types.Finding
		err     error
	}
	done := make(chan result, 1)
	go func() {
		f, err := run(cctx, q, results)
		done <- result{f, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return degradedFinding(name, r.err.Error()), r.err
		}
		if r.finding == nil {
			return degradedFinding(name, "component returned no finding"), nil
		}
		return r.finding, nil
	case <-cctx.Done():
		err := cctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s after %s", types.ErrComponentTimeout, name, o.timeout)
		}
		return degradedFinding(name, err.Error()), err
	}
}

// degradedFinding stands in for a component that could not complete
func degradedFinding(component, reason string) *types.Finding {
	return &types.Finding{
		Component: component,
		Severity:  types.SeverityDegraded,
		Summary:   fmt.Sprintf("component did not complete: %s", reason),
	}
}
