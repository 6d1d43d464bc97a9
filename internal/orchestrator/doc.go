// Package orchestrator executes routed components over a bounded worker
// pool. Component failures and timeouts degrade to placeholder findings
// rather than failing the whole query, and outcomes are returned in
// decision order so reports stay deterministic.
package orchestrator
