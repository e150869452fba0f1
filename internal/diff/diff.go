// Package diff compares two analysis snapshots and produces a structured,
// stably ordered change list. Pure comparison: no interpretation, no
// scoring, no similarity heuristics.
//
// Ordering invariant: changes are grouped by the fixed section order
// (capabilities, intent, checks, recommendations, run_command), then
// sorted lexicographically by key within each section. Diffing the same
// pair of snapshots always yields the identical change list.
package diff

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AdityaMallela041/PyReady/internal/report"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Reports diffs old against new. The only wall-clock input is the
// generated_at stamp on the envelope.
func Reports(old, new *schema.Report) *schema.DiffReport {
	// Non-nil so an empty diff serializes as [], not null.
	changes := []schema.DiffItem{}
	changes = append(changes, sortSection(diffCapabilities(old, new))...)
	changes = append(changes, sortSection(diffIntent(old, new))...)
	changes = append(changes, sortSection(diffChecks(old, new))...)
	changes = append(changes, sortSection(diffRecommendations(old, new))...)
	changes = append(changes, sortSection(diffRunCommand(old, new))...)

	return &schema.DiffReport{
		FromReport:  report.ID(old),
		ToReport:    report.ID(new),
		GeneratedAt: time.Now().UTC(),
		Changes:     changes,
	}
}

// sortSection orders one section's changes lexicographically by key.
// Sorting is stable so items sharing a key keep their emission order.
func sortSection(items []schema.DiffItem) []schema.DiffItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})
	return items
}

// optStr maps the empty string to an absent value.
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return schema.Str(s)
}

// ---------------------------------------------------------------------------
// Capabilities
// ---------------------------------------------------------------------------

// diffCapabilities emits added/removed for flipped flags and a
// `<flag>_evidence` change when a flag held in both snapshots has a
// different evidence set.
func diffCapabilities(old, new *schema.Report) []schema.DiffItem {
	var changes []schema.DiffItem

	for _, flag := range schema.CapabilityFlags {
		oldVal := old.Capabilities.Flag(flag)
		newVal := new.Capabilities.Flag(flag)
		switch {
		case !oldVal && newVal:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionCapabilities,
				Key:        flag,
				ChangeType: schema.ChangeAdded,
				After:      schema.Str(flag + " is now detected"),
			})
		case oldVal && !newVal:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionCapabilities,
				Key:        flag,
				ChangeType: schema.ChangeRemoved,
				Before:     schema.Str(flag + " was detected"),
			})
		}
	}

	for _, flag := range schema.CapabilityFlags {
		if !old.Capabilities.Flag(flag) || !new.Capabilities.Flag(flag) {
			continue
		}
		oldEv := old.Capabilities.Evidence[flag]
		newEv := new.Capabilities.Evidence[flag]
		if !sameStringSet(oldEv, newEv) {
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionCapabilities,
				Key:        flag + "_evidence",
				ChangeType: schema.ChangeChanged,
				Before:     schema.Str(evidenceCount(oldEv)),
				After:      schema.Str(evidenceCount(newEv)),
			})
		}
	}

	return changes
}

func evidenceCount(items []string) string {
	return fmt.Sprintf("%d evidence items", len(stringSet(items)))
}

// ---------------------------------------------------------------------------
// Intent
// ---------------------------------------------------------------------------

func diffIntent(old, new *schema.Report) []schema.DiffItem {
	if old.ProjectIntent == new.ProjectIntent {
		return nil
	}
	return []schema.DiffItem{{
		Section:    schema.SectionIntent,
		Key:        "project_intent",
		ChangeType: schema.ChangeChanged,
		Before:     schema.Str(strings.ToUpper(string(old.ProjectIntent))),
		After:      schema.Str(strings.ToUpper(string(new.ProjectIntent))),
	}}
}

// ---------------------------------------------------------------------------
// Checks
// ---------------------------------------------------------------------------

// diffChecks compares checks category by category. A category in both
// snapshots yields one change per differing field, keyed
// `<category>_<field>`.
func diffChecks(old, new *schema.Report) []schema.DiffItem {
	oldChecks := checksByCategory(old.Checks)
	newChecks := checksByCategory(new.Checks)

	var changes []schema.DiffItem
	for _, category := range sortedKeyUnion(oldChecks, newChecks) {
		oldCheck, inOld := oldChecks[category]
		newCheck, inNew := newChecks[category]

		switch {
		case !inOld:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionChecks,
				Key:        category,
				ChangeType: schema.ChangeAdded,
				After:      schema.Str(fmt.Sprintf("Status: %s", newCheck.Status)),
			})
		case !inNew:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionChecks,
				Key:        category,
				ChangeType: schema.ChangeRemoved,
				Before:     schema.Str(fmt.Sprintf("Status: %s", oldCheck.Status)),
			})
		default:
			changes = append(changes, diffCheckFields(category, oldCheck, newCheck)...)
		}
	}
	return changes
}

func diffCheckFields(category string, old, new schema.CheckResult) []schema.DiffItem {
	var changes []schema.DiffItem
	field := func(name, before, after string) {
		if before == after {
			return
		}
		changes = append(changes, schema.DiffItem{
			Section:    schema.SectionChecks,
			Key:        category + "_" + name,
			ChangeType: schema.ChangeChanged,
			Before:     optStr(before),
			After:      optStr(after),
		})
	}
	field("status", string(old.Status), string(new.Status))
	field("message", old.Message, new.Message)
	field("details", old.Details, new.Details)
	field("fix_command", old.FixCommand, new.FixCommand)
	return changes
}

func checksByCategory(checks []schema.CheckResult) map[string]schema.CheckResult {
	m := make(map[string]schema.CheckResult, len(checks))
	for _, c := range checks {
		m[c.Category] = c
	}
	return m
}

// ---------------------------------------------------------------------------
// Recommendations
// ---------------------------------------------------------------------------

// diffRecommendations keys recommendations by title. Titles in both
// snapshots compare evidence set and description separately.
func diffRecommendations(old, new *schema.Report) []schema.DiffItem {
	oldRecs := recsByTitle(old.Recommendations)
	newRecs := recsByTitle(new.Recommendations)

	var changes []schema.DiffItem
	for _, title := range sortedKeyUnion(oldRecs, newRecs) {
		oldRec, inOld := oldRecs[title]
		newRec, inNew := newRecs[title]

		switch {
		case !inOld:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionRecommendations,
				Key:        title,
				ChangeType: schema.ChangeAdded,
				After:      schema.Str(title),
			})
		case !inNew:
			changes = append(changes, schema.DiffItem{
				Section:    schema.SectionRecommendations,
				Key:        title,
				ChangeType: schema.ChangeRemoved,
				Before:     schema.Str(title),
			})
		default:
			if !sameStringSet(oldRec.Evidence, newRec.Evidence) {
				changes = append(changes, schema.DiffItem{
					Section:    schema.SectionRecommendations,
					Key:        title + "_evidence",
					ChangeType: schema.ChangeChanged,
					Before:     schema.Str(evidenceCount(oldRec.Evidence)),
					After:      schema.Str(evidenceCount(newRec.Evidence)),
				})
			}
			if oldRec.Description != newRec.Description {
				changes = append(changes, schema.DiffItem{
					Section:    schema.SectionRecommendations,
					Key:        title + "_description",
					ChangeType: schema.ChangeChanged,
					Before:     schema.Str("description changed"),
					After:      schema.Str("description changed"),
				})
			}
		}
	}
	return changes
}

func recsByTitle(recs []schema.Recommendation) map[string]schema.Recommendation {
	m := make(map[string]schema.Recommendation, len(recs))
	for _, r := range recs {
		m[r.Title] = r
	}
	return m
}

// ---------------------------------------------------------------------------
// Run command
// ---------------------------------------------------------------------------

// diffRunCommand compares the command string and the evidence set as two
// independent changes.
func diffRunCommand(old, new *schema.Report) []schema.DiffItem {
	var changes []schema.DiffItem

	if old.RunCommand != new.RunCommand {
		changes = append(changes, schema.DiffItem{
			Section:    schema.SectionRunCommand,
			Key:        "command",
			ChangeType: schema.ChangeChanged,
			Before:     optStr(old.RunCommand),
			After:      optStr(new.RunCommand),
		})
	}

	if !sameStringSet(old.RunCommandEvidence, new.RunCommandEvidence) {
		changes = append(changes, schema.DiffItem{
			Section:    schema.SectionRunCommand,
			Key:        "evidence",
			ChangeType: schema.ChangeChanged,
			Before:     schema.Str(evidenceCount(old.RunCommandEvidence)),
			After:      schema.Str(evidenceCount(new.RunCommandEvidence)),
		})
	}

	return changes
}

// ---------------------------------------------------------------------------
// Set helpers
// ---------------------------------------------------------------------------

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

func sameStringSet(a, b []string) bool {
	as, bs := stringSet(a), stringSet(b)
	if len(as) != len(bs) {
		return false
	}
	for s := range as {
		if !bs[s] {
			return false
		}
	}
	return true
}

// sortedKeyUnion returns the union of both maps' keys, sorted.
func sortedKeyUnion[V any](a, b map[string]V) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
