package schema

// diff.go — Typed change records produced by the diff engine and consumed by
// the policy engine. Pure comparison output: no interpretation, no scoring.

import "time"

// DiffSection names the report section a change belongs to.
type DiffSection string

const (
	SectionCapabilities    DiffSection = "capabilities"
	SectionIntent          DiffSection = "intent"
	SectionChecks          DiffSection = "checks"
	SectionRecommendations DiffSection = "recommendations"
	SectionRunCommand      DiffSection = "run_command"
)

// SectionOrder is the fixed ordering of sections in a diff report. Change
// lists are grouped by this order, then lexicographically by key.
var SectionOrder = []DiffSection{
	SectionCapabilities,
	SectionIntent,
	SectionChecks,
	SectionRecommendations,
	SectionRunCommand,
}

// Valid reports whether s is one of the closed DiffSection values.
func (s DiffSection) Valid() bool {
	for _, known := range SectionOrder {
		if s == known {
			return true
		}
	}
	return false
}

// ChangeType classifies a single detected change.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Valid reports whether t is one of the closed ChangeType values.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAdded, ChangeRemoved, ChangeChanged:
		return true
	}
	return false
}

// DiffItem is one atomic detected change between two snapshots.
//
// Invariant: Before is nil for "added"; After is nil for "removed".
type DiffItem struct {
	Section    DiffSection `json:"section"`
	Key        string      `json:"key"`
	ChangeType ChangeType  `json:"change_type"`
	Before     *string     `json:"before"`
	After      *string     `json:"after"`
}

// DiffReport is the complete, stably ordered diff between two snapshots.
type DiffReport struct {
	FromReport  string     `json:"from_report"`
	ToReport    string     `json:"to_report"`
	GeneratedAt time.Time  `json:"generated_at"`
	Changes     []DiffItem `json:"changes"`
}

// Str returns a pointer to s. Diff construction uses it for the optional
// before/after fields.
func Str(s string) *string { return &s }
