package qa

// selector.go — Deterministic artifact selection. The selected artifacts
// are the only material the answer layer ever sees: declared dependencies
// and the detected run command, never file contents.

import (
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/project"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Artifacts is the JSON-shaped bundle handed to the answer layer. An
// "error" key marks a question that cannot be answered from the analysis.
type Artifacts map[string]interface{}

// Err returns the artifact-level error message, or "".
func (a Artifacts) Err() string {
	if v, ok := a["error"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SelectArtifacts picks the artifacts a question type needs. run may be
// nil for every type except QuestionWhatRuns.
func SelectArtifacts(root string, qt QuestionType, entity string, run *schema.RunCommandResult) Artifacts {
	switch qt {
	case QuestionWhyRequired:
		if entity == "" {
			return Artifacts{"error": "No package name specified"}
		}
		deps, devDeps := declaredDependencies(root)
		return Artifacts{
			"question_entity":  entity,
			"dependencies":     deps,
			"dev_dependencies": devDeps,
		}

	case QuestionWhatRuns:
		if run == nil || !run.HasCommand() {
			return Artifacts{"error": "Run command not detected"}
		}
		evidence := make([]map[string]interface{}, 0, len(run.Evidence))
		for _, e := range run.Evidence {
			evidence = append(evidence, map[string]interface{}{
				"file":   e.FilePath,
				"reason": e.Reason,
				"line":   e.LineNumber,
			})
		}
		return Artifacts{
			"run_command":     run.Command,
			"command_type":    string(run.CommandType),
			"detection_basis": string(run.DetectionBasis),
			"evidence":        evidence,
		}

	case QuestionWhatBreaks, QuestionWhereUsed:
		if entity == "" {
			return Artifacts{"error": "No package name specified"}
		}
		deps, devDeps := declaredDependencies(root)
		return Artifacts{
			"question_entity":      entity,
			"dependencies":         deps,
			"is_direct_dependency": isDirectDependency(entity, deps, devDeps),
		}

	default:
		return Artifacts{"error": "Unsupported question type"}
	}
}

// declaredDependencies reads [tool.poetry.dependencies] (minus the python
// constraint) and [tool.poetry.group.dev.dependencies]. A missing or
// malformed pyproject.toml yields empty maps: "nothing declared" is an
// answerable state, not an error.
func declaredDependencies(root string) (deps, devDeps map[string]interface{}) {
	deps = map[string]interface{}{}
	devDeps = map[string]interface{}{}

	py, err := project.LoadPyproject(root)
	if err != nil {
		return deps, devDeps
	}
	for name, constraint := range py.PoetryDependencies {
		if name == "python" {
			continue
		}
		deps[name] = constraint
	}
	for name, constraint := range py.PoetryDevDependencies {
		devDeps[name] = constraint
	}
	return deps, devDeps
}

// isDirectDependency checks the merged dependency maps case-insensitively.
func isDirectDependency(entity string, deps, devDeps map[string]interface{}) bool {
	needle := strings.ToLower(entity)
	for name := range deps {
		if strings.ToLower(name) == needle {
			return true
		}
	}
	for name := range devDeps {
		if strings.ToLower(name) == needle {
			return true
		}
	}
	return false
}
