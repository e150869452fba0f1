package envcheck

// deps.go — Declared-vs-installed dependency verification.
//
// Installed packages are enumerated by scanning the virtual environment's
// site-packages for *.dist-info / *.egg-info entries. This reads exactly
// what pip wrote to disk without invoking pip or the interpreter, and it
// only works against the project's own venv — which is why verification is
// gated on the isolated-environment capability.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/project"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// checkDependencies verifies declared dependencies are installed in the
// project venv. Declared-but-unverifiable is WARN: absence of a venv does
// not prove a package is missing.
func checkDependencies(root string, caps schema.Capabilities) schema.CheckResult {
	if !caps.HasDependencyDeclaration {
		return skipped(CategoryDependencies, "No dependency declaration found, check not applicable")
	}
	if !caps.HasIsolatedEnvironment {
		return schema.CheckResult{
			Category: CategoryDependencies,
			Status:   schema.StatusWarn,
			Message:  "Dependencies declared but cannot verify",
			Details:  "Isolated environment required to verify installed packages",
		}
	}

	required := requiredDependencies(root)
	if len(required) == 0 {
		return schema.CheckResult{
			Category: CategoryDependencies,
			Status:   schema.StatusWarn,
			Message:  "Dependencies: unable to parse dependency files",
			Details:  "Found files but could not extract dependencies",
		}
	}

	installed := installedPackages(root)

	var missing []string
	total := 0
	for _, dep := range required {
		name := packageName(dep)
		if name == "" {
			continue
		}
		total++
		if !installed[normalizePackageName(name)] {
			missing = append(missing, dep)
		}
	}

	if len(missing) == 0 {
		return schema.CheckResult{
			Category: CategoryDependencies,
			Status:   schema.StatusPass,
			Message:  fmt.Sprintf("Dependencies: all %d packages installed", total),
		}
	}
	return schema.CheckResult{
		Category:   CategoryDependencies,
		Status:     schema.StatusFail,
		Message:    fmt.Sprintf("Dependencies: %d missing", len(missing)),
		Details:    fmt.Sprintf("Missing packages: %s", formatList(missing, 5)),
		FixCommand: dependencyFixCommand(root, missing),
	}
}

// requiredDependencies collects declared dependency strings from
// pyproject.toml and requirements.txt, sorted for stable output.
func requiredDependencies(root string) []string {
	seen := map[string]bool{}
	var deps []string
	add := func(d string) {
		d = strings.TrimSpace(d)
		if d != "" && !seen[d] {
			seen[d] = true
			deps = append(deps, d)
		}
	}

	if p, err := project.LoadPyproject(root); err == nil {
		for name := range p.PoetryDependencies {
			if !strings.EqualFold(name, "python") {
				add(name)
			}
		}
		for _, d := range p.ProjectDeps {
			if name := packageName(d); name != "" {
				add(name)
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "requirements.txt")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if idx := strings.Index(line, "#"); idx >= 0 {
				line = line[:idx]
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "-") {
				continue
			}
			add(line)
		}
	}

	sort.Strings(deps)
	return deps
}

// packageName strips extras and version specifiers from a dependency
// string: "pydantic[email]>=2.0" → "pydantic".
func packageName(dep string) string {
	name := strings.TrimSpace(dep)
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	for _, sep := range []string{">=", "<=", "==", "!=", "~=", ">", "<", "@", ";"} {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
			break
		}
	}
	return strings.TrimSpace(name)
}

// normalizePackageName applies PEP 503 style normalization so declared
// names and dist-info directory names compare equal.
func normalizePackageName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "-", ".", "-").Replace(name))
}

// installedPackages returns the normalized names of packages installed in
// the project venv, from its site-packages metadata directories.
func installedPackages(root string) map[string]bool {
	installed := map[string]bool{}
	venv, ok := findVenvDir(root)
	if !ok {
		return installed
	}

	for _, sp := range sitePackagesDirs(filepath.Join(root, venv)) {
		entries, err := os.ReadDir(sp)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			var trimmed string
			switch {
			case strings.HasSuffix(name, ".dist-info"):
				trimmed = strings.TrimSuffix(name, ".dist-info")
			case strings.HasSuffix(name, ".egg-info"):
				trimmed = strings.TrimSuffix(name, ".egg-info")
			default:
				continue
			}
			// NAME-VERSION → NAME
			if idx := strings.LastIndex(trimmed, "-"); idx > 0 {
				trimmed = trimmed[:idx]
			}
			installed[normalizePackageName(trimmed)] = true
		}
	}
	return installed
}

// sitePackagesDirs lists the site-packages directories of a venv: Unix
// layout lib/pythonX.Y/site-packages, Windows layout Lib/site-packages.
func sitePackagesDirs(venvPath string) []string {
	var dirs []string
	if matches, err := filepath.Glob(filepath.Join(venvPath, "lib", "python*", "site-packages")); err == nil {
		dirs = append(dirs, matches...)
	}
	win := filepath.Join(venvPath, "Lib", "site-packages")
	if dirEntryExists(win) {
		dirs = append(dirs, win)
	}
	return dirs
}

// dependencyFixCommand suggests the shortest command that installs what is
// missing.
func dependencyFixCommand(root string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	if dirEntryExists(filepath.Join(root, "poetry.lock")) {
		return "poetry install"
	}
	names := make([]string, 0, len(missing))
	for _, dep := range missing {
		if name := packageName(dep); name != "" {
			names = append(names, name)
		}
	}
	if len(names) >= 1 && len(names) <= 3 {
		return "pip install " + strings.Join(names, " ")
	}
	return "pip install -r requirements.txt"
}
