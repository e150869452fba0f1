// Package report assembles, serializes, and re-loads analysis snapshots.
//
// Snapshot construction is pure composition of already-computed results —
// the only non-determinism is the report ID and the generated_at stamp.
// Loading is strict: a snapshot that fails enum validation is rejected
// whole, so the diff engine never runs on partial data.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Version is stamped into every generated report.
const Version = "0.1.0"

// New composes a snapshot from computed results. projectPath is recorded
// absolute so snapshots taken from different working directories compare
// equal.
func New(
	projectPath string,
	projectType schema.ProjectType,
	intent schema.ProjectIntent,
	caps schema.Capabilities,
	checks []schema.CheckResult,
	recommendations []schema.Recommendation,
	run schema.RunCommandResult,
) *schema.Report {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		abs = projectPath
	}

	var runEvidence []string
	for _, e := range run.Evidence {
		runEvidence = append(runEvidence, e.String())
	}

	return &schema.Report{
		ReportID:           uuid.NewString(),
		ToolVersion:        Version,
		GeneratedAt:        time.Now().UTC(),
		ProjectPath:        abs,
		ProjectType:        projectType,
		ProjectIntent:      intent,
		Capabilities:       caps,
		Checks:             checks,
		Recommendations:    recommendations,
		RunCommand:         run.Command,
		RunCommandEvidence: runEvidence,
	}
}

// Load reads and validates a snapshot file. Any structural or enum error
// rejects the whole file.
func Load(path string) (*schema.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r schema.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if err := validate(&r); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}
	return &r, nil
}

// validate rejects values outside the closed enum sets.
func validate(r *schema.Report) error {
	if r.ToolVersion == "" {
		return fmt.Errorf("missing tool_version")
	}
	if !r.ProjectType.Valid() {
		return fmt.Errorf("unknown project_type %q", r.ProjectType)
	}
	if !r.ProjectIntent.Valid() {
		return fmt.Errorf("unknown project_intent %q", r.ProjectIntent)
	}
	for i, c := range r.Checks {
		if !c.Status.Valid() {
			return fmt.Errorf("check %d: unknown status %q", i, c.Status)
		}
		if c.Category == "" {
			return fmt.Errorf("check %d: missing category", i)
		}
	}
	return nil
}

// WriteJSON writes the snapshot as pretty-printed JSON.
func WriteJSON(r *schema.Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ID returns the stable identifier used to reference a snapshot in diffs:
// the report ID when present, the generation timestamp otherwise.
func ID(r *schema.Report) string {
	if r.ReportID != "" {
		return r.ReportID
	}
	return r.GeneratedAt.Format(time.RFC3339)
}
