// Package compose renders the final plain-text report from orchestrator
// outcomes. Alert deduplication collapses repeated categories into a
// count with a representative example, and rendering is byte-deterministic
// for identical inputs.
package compose
