// Package envcheck verifies the local environment against what the project
// declares: Python version, virtual environment, installed dependencies,
// and environment variables.
//
// Checks are capability-aware. A check runs only when the project declares
// the thing it verifies; otherwise it is reported as skipped with an INFO
// status. A check may FAIL only when a declared requirement is provably
// broken — absence of optional tooling downgrades to WARN.
//
// Nothing from the target project is ever executed. Installed packages are
// read from the virtual environment's site-packages directory and the
// interpreter version from pyvenv.cfg, with a system interpreter fallback.
package envcheck

import (
	"fmt"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Check category names, stable across report versions.
const (
	CategoryPythonVersion = "Python Version"
	CategoryVirtualEnv    = "Virtual Environment"
	CategoryDependencies  = "Dependencies"
	CategoryEnvVars       = "Environment Variables"
)

// Summary counts check outcomes. INFO results count toward the total only.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// Run executes all environment checks for the project rooted at root, in a
// fixed order: python version, virtual environment, dependencies,
// environment variables.
func Run(root string, caps schema.Capabilities) []schema.CheckResult {
	return []schema.CheckResult{
		checkPythonVersion(root, caps),
		checkVirtualEnvironment(root, caps),
		checkDependencies(root, caps),
		checkEnvVars(root),
	}
}

// Summarize tallies check results for display.
func Summarize(checks []schema.CheckResult) Summary {
	s := Summary{Total: len(checks)}
	for _, c := range checks {
		switch c.Status {
		case schema.StatusPass:
			s.Passed++
		case schema.StatusFail:
			s.Failed++
		case schema.StatusWarn:
			s.Warnings++
		}
	}
	return s
}

// skipped builds the INFO result used when a check does not apply.
func skipped(category, reason string) schema.CheckResult {
	return schema.CheckResult{
		Category: category,
		Status:   schema.StatusInfo,
		Message:  "Check skipped",
		Details:  reason,
	}
}

// checkPythonVersion compares the local interpreter version against the
// declared requirement. No declared requirement is INFO, not a warning —
// there is nothing to be out of compliance with.
func checkPythonVersion(root string, caps schema.Capabilities) schema.CheckResult {
	if !caps.HasPythonFiles {
		return skipped(CategoryPythonVersion, "No Python files detected, version check not applicable")
	}

	current, err := currentPythonVersion(root)
	if err != nil {
		return schema.CheckResult{
			Category: CategoryPythonVersion,
			Status:   schema.StatusInfo,
			Message:  "Python version: unknown",
			Details:  err.Error(),
		}
	}

	required := requiredPythonVersion(root)
	if required == "" {
		return schema.CheckResult{
			Category: CategoryPythonVersion,
			Status:   schema.StatusInfo,
			Message:  fmt.Sprintf("Python version: %s", current),
			Details:  "No version requirement found in pyproject.toml or requirements.txt",
		}
	}

	ok, err := versionSatisfies(current, required)
	if err != nil {
		return schema.CheckResult{
			Category: CategoryPythonVersion,
			Status:   schema.StatusWarn,
			Message:  fmt.Sprintf("Python version: %s (required: %s)", current, required),
			Details:  fmt.Sprintf("Could not evaluate requirement: %v", err),
		}
	}
	if ok {
		return schema.CheckResult{
			Category: CategoryPythonVersion,
			Status:   schema.StatusPass,
			Message:  fmt.Sprintf("Python version: %s (required: %s)", current, required),
		}
	}
	return schema.CheckResult{
		Category: CategoryPythonVersion,
		Status:   schema.StatusFail,
		Message:  fmt.Sprintf("Python version mismatch: %s (required: %s)", current, required),
		Details:  fmt.Sprintf("Current version does not satisfy requirement: %s", required),
	}
}

// checkVirtualEnvironment looks for a virtual environment in the project.
// A missing venv is WARN, never FAIL: recommended, not provably broken.
func checkVirtualEnvironment(root string, caps schema.Capabilities) schema.CheckResult {
	if !caps.HasDependencyDeclaration {
		return skipped(CategoryVirtualEnv, "No dependencies declared, virtual environment not required")
	}

	if venv, ok := findVenvDir(root); ok {
		return schema.CheckResult{
			Category: CategoryVirtualEnv,
			Status:   schema.StatusPass,
			Message:  "Virtual environment: found",
			Details:  fmt.Sprintf("Found venv at: %s", venv),
		}
	}
	return schema.CheckResult{
		Category:   CategoryVirtualEnv,
		Status:     schema.StatusWarn,
		Message:    "Virtual environment: not found",
		Details:    "Virtual environment recommended for projects with dependencies",
		FixCommand: venvCreateCommand(),
	}
}

// checkEnvVars is in envvars.go; checkDependencies in deps.go.

// formatList joins up to max entries, noting how many were elided.
func formatList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, ... and %d more", strings.Join(items[:max], ", "), len(items)-max)
}
