package orchestrator

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenav/codenav/internal/components"
	"github.com/codenav/codenav/internal/router"
	"github.com/codenav/codenav/pkg/types"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func component(name string, run components.Func) components.Component {
	return components.Component{
		Descriptor: router.Descriptor{Name: name, CapabilityTags: []string{name}, EstimatedCost: 1},
		Run:        run,
	}
}

func okComponent(name string) components.Component {
	return component(name, func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
		return &types.Finding{Component: name, Severity: types.SeverityInfo, Summary: "ok"}, nil
	})
}

func TestExecutePreservesDecisionOrder(t *testing.T) {
	catalog := []components.Component{okComponent("a"), okComponent("b"), okComponent("c")}
	o := New(catalog, 4, 0, time.Second, quietLogger())

	decisions := []router.Decision{
		{Component: "c", Included: true},
		{Component: "a", Included: true},
		{Component: "b", Included: true},
	}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.Len(t, outcomes, 3)
	assert.Equal(t, "c", outcomes[0].Finding.Component)
	assert.Equal(t, "a", outcomes[1].Finding.Component)
	assert.Equal(t, "b", outcomes[2].Finding.Component)
}

func TestExecuteSkipsExcluded(t *testing.T) {
	o := New([]components.Component{okComponent("a")}, 4, 0, time.Second, quietLogger())

	decisions := []router.Decision{
		{Component: "a", Included: false, Reason: router.ReasonOverBudget},
	}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.Len(t, outcomes, 1)
	assert.Nil(t, outcomes[0].Finding)
	assert.Equal(t, router.ReasonOverBudget, outcomes[0].Decision.Reason)
}

func TestExecuteCostCeilingSkipsRemainder(t *testing.T) {
	catalog := []components.Component{okComponent("a"), okComponent("b"), okComponent("c"), okComponent("d")}
	o := New(catalog, 4, 2, time.Second, quietLogger())

	decisions := []router.Decision{
		{Component: "a", Included: true, Cost: 1},
		{Component: "b", Included: true, Cost: 1},
		{Component: "c", Included: true, Cost: 1},
		{Component: "d", Included: true, Cost: 1},
	}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.Len(t, outcomes, 4)
	assert.NotNil(t, outcomes[0].Finding)
	assert.NotNil(t, outcomes[1].Finding)
	for _, o := range outcomes[2:] {
		assert.Nil(t, o.Finding)
		assert.False(t, o.Decision.Included)
		assert.Equal(t, router.ReasonOverBudget, o.Decision.Reason)
	}
}

func TestExecuteCeilingSparesFloorOverride(t *testing.T) {
	catalog := []components.Component{okComponent("a"), okComponent("b")}
	o := New(catalog, 4, 1, time.Second, quietLogger())

	decisions := []router.Decision{
		{Component: "a", Included: true, Cost: 1},
		{Component: "b", Included: true, Cost: 1, Reason: router.ReasonFloorOverride},
	}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.Len(t, outcomes, 2)
	require.NotNil(t, outcomes[1].Finding)
	assert.Equal(t, "b", outcomes[1].Finding.Component)
	assert.True(t, outcomes[1].Decision.Included)
}

func TestExecuteTimeoutDegrades(t *testing.T) {
	slow := component("slow", func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
		select {
		case <-time.After(5 * time.Second):
			return &types.Finding{Component: "slow"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	o := New([]components.Component{slow, okComponent("fast")}, 4, 0, 50*time.Millisecond, quietLogger())

	decisions := []router.Decision{
		{Component: "slow", Included: true},
		{Component: "fast", Included: true},
	}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.Len(t, outcomes, 2)
	require.NotNil(t, outcomes[0].Finding)
	assert.Equal(t, types.SeverityDegraded, outcomes[0].Finding.Severity)

	// The slow component must not take the fast one down with it
	require.NotNil(t, outcomes[1].Finding)
	assert.Equal(t, types.SeverityInfo, outcomes[1].Finding.Severity)
}

func TestExecuteErrorDegrades(t *testing.T) {
	failing := component("failing", func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
		return nil, errors.New("boom")
	})
	o := New([]components.Component{failing}, 4, 0, time.Second, quietLogger())

	decisions := []router.Decision{{Component: "failing", Included: true}}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.NotNil(t, outcomes[0].Finding)
	assert.Equal(t, types.SeverityDegraded, outcomes[0].Finding.Severity)
	assert.Contains(t, outcomes[0].Finding.Summary, "boom")
}

func TestExecuteUnknownComponentDegrades(t *testing.T) {
	o := New(nil, 4, 0, time.Second, quietLogger())

	decisions := []router.Decision{{Component: "ghost", Included: true}}
	outcomes := o.Execute(context.Background(), decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.NotNil(t, outcomes[0].Finding)
	assert.Equal(t, types.SeverityDegraded, outcomes[0].Finding.Severity)
}

func TestExecuteQueryDeadlineDegrades(t *testing.T) {
	slow := component("slow", func(ctx context.Context, q types.Query, results *types.SearchResults) (*types.Finding, error) {
		select {
		case <-time.After(5 * time.Second):
			return &types.Finding{Component: "slow"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	o := New([]components.Component{slow}, 4, 0, time.Minute, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	decisions := []router.Decision{{Component: "slow", Included: true}}
	outcomes := o.Execute(ctx, decisions, types.Query{Text: "q"}, &types.SearchResults{})

	require.NotNil(t, outcomes[0].Finding)
	assert.Equal(t, types.SeverityDegraded, outcomes[0].Finding.Severity)
}
