// Package recommend derives advisory recommendations from the detected
// capabilities, the classified intent, and the environment check results.
//
// Recommendations never change check outcomes or exit codes; they are
// generated in a fixed rule order (essential, best practice, check-based)
// so the same project state always yields the same list in the same order.
package recommend

import (
	"fmt"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/envcheck"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Generate returns all applicable recommendations, possibly none.
func Generate(caps schema.Capabilities, intent schema.ProjectIntent, checks []schema.CheckResult) []schema.Recommendation {
	var recs []schema.Recommendation
	recs = append(recs, essential(caps, intent)...)
	recs = append(recs, bestPractice(caps, intent, checks)...)
	recs = append(recs, checkBased(checks)...)
	return recs
}

// ---------------------------------------------------------------------------
// Essential rules
// ---------------------------------------------------------------------------

func essential(caps schema.Capabilities, intent schema.ProjectIntent) []schema.Recommendation {
	var recs []schema.Recommendation

	if intent == schema.IntentLibrary && !caps.HasDependencyDeclaration {
		recs = append(recs, schema.Recommendation{
			Title: "Declare dependencies for reproducibility",
			Description: "Libraries should declare their dependencies so users can install them. " +
				"This makes your package installable and ensures consistent behavior.",
			Evidence: []string{
				"Intent: LIBRARY (reusable package)",
				"No requirements.txt, pyproject.toml, or setup.py found",
			},
			ExampleCommand: "Create requirements.txt or setup.py with install_requires",
		})
	}

	if intent == schema.IntentApplication && caps.HasDetectableEntrypoint && !caps.HasDependencyDeclaration {
		recs = append(recs, schema.Recommendation{
			Title: "Consider declaring dependencies",
			Description: "Applications with entry points typically have dependencies. " +
				"Declaring them ensures others can run your application.",
			Evidence: []string{
				"Intent: APPLICATION (standalone app)",
				"Entry point detected",
				"No dependency declaration found",
			},
			ExampleCommand: "Create requirements.txt listing your dependencies",
		})
	}

	return recs
}

// ---------------------------------------------------------------------------
// Best practice rules
// ---------------------------------------------------------------------------

func bestPractice(caps schema.Capabilities, intent schema.ProjectIntent, checks []schema.CheckResult) []schema.Recommendation {
	var recs []schema.Recommendation
	intentLabel := strings.ToUpper(string(intent))

	runnable := intent == schema.IntentApplication || intent == schema.IntentService
	distributable := runnable || intent == schema.IntentLibrary

	if runnable && caps.HasDependencyDeclaration && !caps.HasIsolatedEnvironment {
		recs = append(recs, schema.Recommendation{
			Title: "Create a virtual environment",
			Description: "Virtual environments isolate your project's dependencies from other projects. " +
				"This prevents version conflicts and makes your setup reproducible.",
			Evidence: []string{
				"Intent: " + intentLabel,
				"Dependencies declared",
				"No virtual environment detected",
			},
			ExampleCommand: "python -m venv venv",
		})
	}

	if distributable && caps.HasDependencyDeclaration && !caps.HasReproducibleEnvironment {
		recs = append(recs, schema.Recommendation{
			Title: "Pin dependency versions for reproducibility",
			Description: "Lock files or pinned versions ensure your project works the same way " +
				"across different environments and over time.",
			Evidence: []string{
				"Intent: " + intentLabel,
				"Dependencies declared",
				"No poetry.lock, Pipfile.lock, or pinned versions (==) in requirements.txt",
			},
			ExampleCommand: "Use poetry add or pip freeze > requirements.txt",
		})
	}

	if distributable && caps.HasDependencyDeclaration && noPythonVersionDeclared(checks) {
		recs = append(recs, schema.Recommendation{
			Title: "Specify Python version requirement",
			Description: "Declaring the required Python version prevents compatibility issues " +
				"and helps users know what Python version to use.",
			Evidence: []string{
				"Intent: " + intentLabel,
				"No Python version requirement in pyproject.toml",
			},
			ExampleCommand: `Add 'python = "^3.9"' to pyproject.toml [tool.poetry.dependencies]`,
		})
	}

	if intent == schema.IntentApplication && caps.HasDetectableEntrypoint && envFileWithoutTemplate(checks) {
		recs = append(recs, schema.Recommendation{
			Title: "Document environment variables with .env.example",
			Description: "Your project uses environment variables. Creating .env.example documents " +
				"required variables for other developers.",
			Evidence: []string{
				"Intent: APPLICATION",
				".env file found",
				"No .env.example or .env.template found",
			},
			ExampleCommand: "Copy .env to .env.example and remove sensitive values",
		})
	}

	return recs
}

// ---------------------------------------------------------------------------
// Check-based rules
// ---------------------------------------------------------------------------

func checkBased(checks []schema.CheckResult) []schema.Recommendation {
	var recs []schema.Recommendation

	if dep, ok := findCheck(checks, envcheck.CategoryDependencies); ok &&
		dep.Status == schema.StatusWarn &&
		strings.Contains(strings.ToLower(dep.Message), "cannot verify") {
		details := dep.Details
		if details == "" {
			details = "Cannot verify without isolated environment"
		}
		recs = append(recs, schema.Recommendation{
			Title: "Enable dependency verification",
			Description: "Dependencies are declared but cannot be verified without a virtual environment. " +
				"Creating a venv allows the checker to look for missing packages.",
			Evidence: []string{
				fmt.Sprintf("Check result: %s - WARN", envcheck.CategoryDependencies),
				details,
			},
			ExampleCommand: `python -m venv venv && venv\Scripts\activate (Windows) or source venv/bin/activate (Unix)`,
		})
	}

	return recs
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func findCheck(checks []schema.CheckResult, category string) (schema.CheckResult, bool) {
	for _, c := range checks {
		if c.Category == category {
			return c, true
		}
	}
	return schema.CheckResult{}, false
}

// noPythonVersionDeclared is true when the python version check came back
// INFO, which is how "no requirement declared" is reported.
func noPythonVersionDeclared(checks []schema.CheckResult) bool {
	c, ok := findCheck(checks, envcheck.CategoryPythonVersion)
	return ok && c.Status == schema.StatusInfo
}

// envFileWithoutTemplate is true when a .env exists but no template does:
// the env vars check passed by finding .env with nothing to validate it
// against.
func envFileWithoutTemplate(checks []schema.CheckResult) bool {
	c, ok := findCheck(checks, envcheck.CategoryEnvVars)
	return ok && c.Status == schema.StatusPass && strings.Contains(c.Message, ".env found")
}
