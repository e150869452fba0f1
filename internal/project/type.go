package project

// type.go — Coarse project type detection.
//
// Strict priority order, first match wins:
//
//	1. poetry      — pyproject.toml with a [tool.poetry] table
//	2. pip_venv    — requirements.txt, requirements-dev.txt, or requirements/*.txt
//	3. setuptools  — setup.py or setup.cfg
//	4. unknown     — none of the above
//
// Deterministic, side-effect free.

import (
	"path/filepath"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// DetectType classifies the project rooted at root.
func DetectType(root string) schema.ProjectType {
	if !dirExists(root) {
		return schema.ProjectUnknown
	}

	if p, err := LoadPyproject(root); err == nil && p.HasPoetrySection {
		return schema.ProjectPoetry
	}

	if hasRequirementsFiles(root) {
		return schema.ProjectPipVenv
	}

	if fileExists(filepath.Join(root, "setup.py")) || fileExists(filepath.Join(root, "setup.cfg")) {
		return schema.ProjectSetuptools
	}

	return schema.ProjectUnknown
}

// hasRequirementsFiles reports whether any pip requirements file exists.
func hasRequirementsFiles(root string) bool {
	if fileExists(filepath.Join(root, "requirements.txt")) {
		return true
	}
	if fileExists(filepath.Join(root, "requirements-dev.txt")) {
		return true
	}
	matches, err := filepath.Glob(filepath.Join(root, "requirements", "*.txt"))
	return err == nil && len(matches) > 0
}
