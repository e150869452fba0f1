package envcheck

// pythonversion.go — Local interpreter version discovery and constraint
// evaluation.
//
// The project's own venv is the preferred source of truth: its pyvenv.cfg
// records the interpreter version without running anything. Only when no
// venv exists does the system `python3 --version` get invoked — the system
// interpreter is not project code.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/AdityaMallela041/PyReady/internal/project"
)

// venvCandidates are checked in order, matching the detector's list plus
// the occasional `.env` directory venv.
var venvCandidates = []string{".venv", "venv", "env", ".env"}

// findVenvDir returns the first candidate directory that looks like an
// actual virtual environment: it must carry a Scripts/ or bin/ directory,
// or a pyvenv.cfg.
func findVenvDir(root string) (string, bool) {
	for _, candidate := range venvCandidates {
		dir := filepath.Join(root, candidate)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if dirEntryExists(filepath.Join(dir, "Scripts")) ||
			dirEntryExists(filepath.Join(dir, "bin")) ||
			dirEntryExists(filepath.Join(dir, "pyvenv.cfg")) {
			return candidate, true
		}
	}
	return "", false
}

func dirEntryExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// venvCreateCommand returns the platform-appropriate creation command.
func venvCreateCommand() string {
	if isWindows() {
		return `python -m venv .venv && .venv\Scripts\activate`
	}
	return "python -m venv .venv && source .venv/bin/activate"
}

func isWindows() bool {
	return os.PathSeparator == '\\'
}

// currentPythonVersion reads the interpreter version from the project's
// venv pyvenv.cfg, falling back to the system python3.
func currentPythonVersion(root string) (string, error) {
	if venv, ok := findVenvDir(root); ok {
		if v, err := versionFromPyvenvCfg(filepath.Join(root, venv, "pyvenv.cfg")); err == nil {
			return v, nil
		}
	}
	return versionFromSystemPython()
}

// versionFromPyvenvCfg parses the `version` (or `version_info`) key from a
// pyvenv.cfg file.
func versionFromPyvenvCfg(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "version" || key == "version_info" {
			v := strings.TrimSpace(value)
			if v != "" {
				return v, nil
			}
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no version key in pyvenv.cfg")
}

// versionFromSystemPython runs `python3 --version` (or `python` where
// python3 is absent) and parses "Python X.Y.Z".
func versionFromSystemPython() (string, error) {
	name, err := exec.LookPath("python3")
	if err != nil {
		if name, err = exec.LookPath("python"); err != nil {
			return "", errors.New("no python interpreter found on PATH")
		}
	}
	out, err := exec.Command(name, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", name, err)
	}
	fields := strings.Fields(string(bytes.TrimSpace(out)))
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected version output %q", out)
	}
	return fields[len(fields)-1], nil
}

// requirementsPythonLine matches a python version line in requirements.txt.
var requirementsPythonLine = regexp.MustCompile(`(?i)^python\s*([>=<~!^][^\s#]*)`)

// requiredPythonVersion returns the declared Python version constraint:
// [tool.poetry.dependencies].python, then [project].requires-python, then
// a `python>=X.Y` line in requirements.txt. Empty means undeclared.
func requiredPythonVersion(root string) string {
	if p, err := project.LoadPyproject(root); err == nil {
		if c := p.PoetryPythonConstraint(); c != "" {
			return c
		}
		if p.RequiresPython != "" {
			return p.RequiresPython
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "requirements.txt"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if m := requirementsPythonLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1]
		}
	}
	return ""
}

// versionSatisfies reports whether version (X.Y.Z) satisfies the declared
// constraint. Poetry caret and comma-separated PEP 440 ranges are both
// handled; `~=` compatible-release maps onto the tilde range.
func versionSatisfies(version, constraint string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(normalizeConstraint(constraint))
	if err != nil {
		return false, fmt.Errorf("parse constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

// normalizeConstraint rewrites Python packaging operators into range syntax
// the semver library understands.
func normalizeConstraint(constraint string) string {
	parts := strings.Split(constraint, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Replace(p, "~=", "~", 1)
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}
