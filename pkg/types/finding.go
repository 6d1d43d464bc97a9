package types

import "errors"

// Severity grades a finding
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"

	// SeverityDegraded marks a finding produced in place of a component that
	// timed out or was cancelled, never in place of a hard failure.
	SeverityDegraded Severity = "degraded"
)

// MaxAlertExamples bounds the sample kept on a deduplicated alert
const MaxAlertExamples = 3

// Alert is a deduplicable warning surfaced by one or more components
type Alert struct {
	Category string
	Message  string
	Count    int      // Raw occurrences collapsed into this alert
	Examples []string // Bounded sample of raw messages
}

// Finding is the structured output of one component execution
type Finding struct {
	Component  string
	Summary    string
	Severity   Severity
	Alerts     []Alert
	References []string // Paths or locations backing the finding
}

// ValidateSeverity checks if the severity is valid
func (f *Finding) ValidateSeverity() error {
	switch f.Severity {
	case SeverityInfo, SeverityWarning, SeverityCritical, SeverityDegraded:
		return nil
	default:
		return errors.New("invalid severity")
	}
}

// Validate performs comprehensive validation of the finding
func (f *Finding) Validate() error {
	if f.Component == "" {
		return errors.New("finding component is required")
	}
	if f.Summary == "" {
		return errors.New("finding summary is required")
	}
	return f.ValidateSeverity()
}
