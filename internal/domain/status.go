package domain

import "strings"

// Severity is the ordinal strength of an alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordinal position of a severity (low=1 .. critical=4),
// or 0 for an unknown value.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// ParseSeverity returns the severity for a label (case-insensitive).
func ParseSeverity(label string) (Severity, bool) {
	s := Severity(strings.ToLower(label))
	_, ok := severityRanks[s]
	return s, ok
}

// Priority is the notification priority level. It is independent of alert
// severity though the monitor maps the two 1:1.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var severityToPriority = map[Severity]Priority{
	SeverityCritical: PriorityCritical,
	SeverityHigh:     PriorityHigh,
	SeverityMedium:   PriorityMedium,
	SeverityLow:      PriorityLow,
}

// SeverityToPriority maps an alert severity to a notification priority.
// Unknown severities map to medium.
func SeverityToPriority(s Severity) Priority {
	if p, ok := severityToPriority[s]; ok {
		return p
	}
	return PriorityMedium
}

// Urgency qualifies how soon a notification needs attention.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

// Impact qualifies how much a notification's subject matters.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)
