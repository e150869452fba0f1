// Package intent classifies what a project is meant to be — script,
// library, application, or service — from its detected capabilities.
//
// The rules are a first-match-wins table over the capability flags; the
// only filesystem access is a check for declared environment templates
// (.env.example / .env.template), which separates services from plain
// applications.
package intent

import (
	"os"
	"path/filepath"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Classify returns the project intent and a one-line reasoning string.
// Identical capabilities and filesystem state always give the same answer.
func Classify(caps schema.Capabilities, root string) (schema.ProjectIntent, string) {
	if !caps.HasPythonFiles {
		return schema.IntentUnknown, "No Python files detected"
	}

	if !caps.HasDependencyDeclaration && !caps.HasDetectableEntrypoint {
		return schema.IntentScript, "Python files found, no dependencies or entry point declared"
	}

	if caps.HasDependencyDeclaration && !caps.HasDetectableEntrypoint {
		return schema.IntentLibrary, "Dependencies declared, no entry point detected (reusable package)"
	}

	if caps.HasDetectableEntrypoint && caps.HasDependencyDeclaration {
		if hasEnvRequirements(root) {
			return schema.IntentService, "Entry point, dependencies, and environment configuration detected"
		}
		return schema.IntentApplication, "Entry point and dependencies detected, no service configuration"
	}

	// Entry point without dependencies, or other unusual combinations.
	return schema.IntentUnknown, "Capability combination does not match known patterns"
}

// hasEnvRequirements reports whether the project declares its environment
// variable requirements through a committed template file.
func hasEnvRequirements(root string) bool {
	for _, name := range []string{".env.example", ".env.template"} {
		if fileExists(filepath.Join(root, name)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
