package report

// markdown.go — Human-readable snapshot rendering. Mirrors the JSON
// content; nothing appears here that is not in the snapshot itself.

import (
	"fmt"
	"os"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// capabilityLabels maps flag names to their display labels, in the fixed
// flag order.
var capabilityLabels = map[string]string{
	"has_python_files":             "Python files detected",
	"has_dependency_declaration":   "Dependency declaration found",
	"has_isolated_environment":     "Isolated environment (venv)",
	"has_reproducible_environment": "Reproducible environment (lock file)",
	"has_detectable_entrypoint":    "Entry point detectable",
}

// WriteMarkdown renders the snapshot as a Markdown document.
func WriteMarkdown(r *schema.Report, path string) error {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("# PyReady report")
	w("")
	w("**Generated:** %s", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	w("**Tool Version:** %s", r.ToolVersion)
	w("")

	w("## Project Overview")
	w("")
	w("- **Path:** `%s`", r.ProjectPath)
	w("- **Type:** %s", r.ProjectType)
	w("- **Intent:** %s", strings.ToUpper(string(r.ProjectIntent)))
	w("")

	w("## Capabilities")
	w("")
	for _, flag := range schema.CapabilityFlags {
		has := r.Capabilities.Flag(flag)
		symbol := "○"
		if has {
			symbol = "✓"
		}
		w("- %s %s", symbol, capabilityLabels[flag])
		if has {
			items := r.Capabilities.Evidence[flag]
			for i, item := range items {
				if i == 3 {
					w("  - *... and %d more*", len(items)-3)
					break
				}
				w("  - `%s`", item)
			}
		}
	}
	w("")

	w("## Environment Checks")
	w("")
	passed, failed, warnings := 0, 0, 0
	for _, check := range r.Checks {
		switch check.Status {
		case schema.StatusPass:
			passed++
		case schema.StatusFail:
			failed++
		case schema.StatusWarn:
			warnings++
		}
		w("### %s %s", statusSymbol(check.Status), check.Category)
		w("")
		w("**Status:** %s", check.Status)
		w("")
		w("**Message:** %s", check.Message)
		w("")
		if check.Details != "" {
			w("**Details:** %s", check.Details)
			w("")
		}
		if check.FixCommand != "" {
			w("**Suggested Fix:** `%s`", check.FixCommand)
			w("")
		}
	}

	w("### Summary")
	w("")
	w("- Total checks: %d", len(r.Checks))
	w("- Passed: %d", passed)
	w("- Failed: %d", failed)
	w("- Warnings: %d", warnings)
	w("")

	w("## Recommendations")
	w("")
	if len(r.Recommendations) == 0 {
		if r.ProjectIntent == schema.IntentScript {
			w("*No recommendations — scripts don't require complex setup.*")
		} else {
			w("*No recommendations — project structure looks healthy.*")
		}
		w("")
	} else {
		for _, rec := range r.Recommendations {
			w("### %s", rec.Title)
			w("")
			w("%s", rec.Description)
			w("")
			w("**Evidence:**")
			w("")
			for _, item := range rec.Evidence {
				w("- %s", item)
			}
			w("")
			if rec.ExampleCommand != "" {
				w("**Example:** `%s`", rec.ExampleCommand)
				w("")
			}
		}
	}

	w("## Run Command")
	w("")
	if r.RunCommand != "" {
		w("**Command:** `%s`", r.RunCommand)
		w("")
		if len(r.RunCommandEvidence) > 0 {
			w("**Evidence:**")
			w("")
			for _, item := range r.RunCommandEvidence {
				w("- %s", item)
			}
			w("")
		}
	} else {
		w("*No safe run command detected.*")
		w("")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func statusSymbol(s schema.CheckStatus) string {
	switch s {
	case schema.StatusPass:
		return "✓"
	case schema.StatusFail:
		return "✗"
	case schema.StatusWarn:
		return "⚠"
	case schema.StatusInfo:
		return "ℹ"
	}
	return "○"
}
