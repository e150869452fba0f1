package project

// capabilities.go — Evidence-based capability detection.
//
// Each of the five flags is derived from file presence only; a false flag
// means "not detected", never "does not exist". Evidence lists record the
// exact files and markers behind each true flag.

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// excludedDirs are never descended into when looking for Python sources.
var excludedDirs = map[string]bool{
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	".git":         true,
	"node_modules": true,
}

// maxPythonFileEvidence caps the evidence list for has_python_files.
const maxPythonFileEvidence = 5

// DetectCapabilities inspects the project rooted at root and returns the
// capability record. It never fails: unreadable paths simply contribute no
// evidence.
func DetectCapabilities(root string) schema.Capabilities {
	evidence := make(map[string][]string)

	caps := schema.Capabilities{
		HasPythonFiles:             detectPythonFiles(root, evidence),
		HasDependencyDeclaration:   detectDependencyDeclaration(root, evidence),
		HasIsolatedEnvironment:     detectIsolatedEnvironment(root, evidence),
		HasReproducibleEnvironment: detectReproducibleEnvironment(root, evidence),
		HasDetectableEntrypoint:    detectEntrypoint(root, evidence),
		Evidence:                   evidence,
	}
	return caps
}

// detectPythonFiles records up to maxPythonFileEvidence .py paths, walking
// in lexical order and skipping excluded directories.
func detectPythonFiles(root string, evidence map[string][]string) bool {
	var found []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && (excludedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".py" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		found = append(found, filepath.ToSlash(rel))
		if len(found) >= maxPythonFileEvidence {
			return filepath.SkipAll
		}
		return nil
	})

	if len(found) == 0 {
		return false
	}
	evidence["has_python_files"] = found
	return true
}

// detectDependencyDeclaration looks for requirements.txt, declared
// pyproject dependency tables, setup.py with install_requires, or a Pipfile.
func detectDependencyDeclaration(root string, evidence map[string][]string) bool {
	var found []string

	if fileExists(filepath.Join(root, "requirements.txt")) {
		found = append(found, "requirements.txt")
	}

	if p, err := LoadPyproject(root); err == nil {
		if len(p.PoetryDependencies) > 0 {
			found = append(found, "pyproject.toml: [tool.poetry.dependencies]")
		}
		if len(p.ProjectDeps) > 0 {
			found = append(found, "pyproject.toml: [project.dependencies]")
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "setup.py")); err == nil {
		if strings.Contains(string(data), "install_requires") {
			found = append(found, "setup.py: install_requires")
		}
	}

	if fileExists(filepath.Join(root, "Pipfile")) {
		found = append(found, "Pipfile")
	}

	if len(found) == 0 {
		return false
	}
	evidence["has_dependency_declaration"] = found
	return true
}

// venvCandidates are checked in order for a virtual environment directory.
var venvCandidates = []string{".venv", "venv", "env"}

// detectIsolatedEnvironment requires a venv directory that actually holds a
// Python executable; an empty directory named venv is not evidence.
func detectIsolatedEnvironment(root string, evidence map[string][]string) bool {
	var found []string
	for _, candidate := range venvCandidates {
		dir := filepath.Join(root, candidate)
		if !dirExists(dir) {
			continue
		}
		if fileExists(filepath.Join(dir, "Scripts", "python.exe")) ||
			fileExists(filepath.Join(dir, "bin", "python")) {
			found = append(found, candidate+"/")
		}
	}
	if len(found) == 0 {
		return false
	}
	evidence["has_isolated_environment"] = found
	return true
}

// detectReproducibleEnvironment looks for lock files or pinned versions.
func detectReproducibleEnvironment(root string, evidence map[string][]string) bool {
	var found []string

	for _, lock := range []string{"poetry.lock", "Pipfile.lock"} {
		if fileExists(filepath.Join(root, lock)) {
			found = append(found, lock)
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "requirements.txt")); err == nil {
		if strings.Contains(string(data), "==") {
			found = append(found, "requirements.txt: pinned versions")
		}
	}

	if len(found) == 0 {
		return false
	}
	evidence["has_reproducible_environment"] = found
	return true
}

// entryFileNames are conventional entry point file names.
var entryFileNames = []string{"main.py", "run.py", "app.py", "__main__.py"}

// detectEntrypoint checks declared script tables and conventional entry
// file names in the root and common subdirectories. File existence only;
// code-pattern detection belongs to the run-command detector.
func detectEntrypoint(root string, evidence map[string][]string) bool {
	var found []string

	if p, err := LoadPyproject(root); err == nil {
		if n := len(p.PoetryScripts); n > 0 {
			found = append(found, fmt.Sprintf("pyproject.toml: [tool.poetry.scripts] (%d defined)", n))
		}
		if n := len(p.ProjectScripts); n > 0 {
			found = append(found, fmt.Sprintf("pyproject.toml: [project.scripts] (%d defined)", n))
		}
	}

	for _, name := range entryFileNames {
		if fileExists(filepath.Join(root, name)) {
			found = append(found, name)
		}
	}
	for _, subdir := range []string{"app", "src"} {
		for _, name := range entryFileNames {
			if fileExists(filepath.Join(root, subdir, name)) {
				found = append(found, subdir+"/"+name)
			}
		}
	}

	if len(found) == 0 {
		return false
	}
	evidence["has_detectable_entrypoint"] = found
	return true
}
