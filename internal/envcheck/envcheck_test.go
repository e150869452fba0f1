package envcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// makeVenv writes a .venv with a pyvenv.cfg and the given installed package
// metadata directories under site-packages.
func makeVenv(t *testing.T, root, version string, distInfos ...string) {
	t.Helper()
	write(t, root, ".venv/pyvenv.cfg", "home = /usr/bin\nversion = "+version+"\n")
	sp := ".venv/lib/python3.11/site-packages"
	write(t, root, sp+"/.keep", "")
	for _, di := range distInfos {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(sp), di), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Orchestration
// ---------------------------------------------------------------------------

func TestRunFixedOrder(t *testing.T) {
	checks := Run(t.TempDir(), schema.Capabilities{})
	want := []string{CategoryPythonVersion, CategoryVirtualEnv, CategoryDependencies, CategoryEnvVars}
	if len(checks) != len(want) {
		t.Fatalf("got %d checks, want %d", len(checks), len(want))
	}
	for i, c := range checks {
		if c.Category != want[i] {
			t.Errorf("checks[%d].Category = %q, want %q", i, c.Category, want[i])
		}
	}
}

func TestSkippedChecks(t *testing.T) {
	checks := Run(t.TempDir(), schema.Capabilities{})
	for _, c := range checks[:3] {
		if c.Status != schema.StatusInfo || c.Message != "Check skipped" {
			t.Errorf("%s: expected skipped INFO, got %v %q", c.Category, c.Status, c.Message)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]schema.CheckResult{
		{Status: schema.StatusPass},
		{Status: schema.StatusPass},
		{Status: schema.StatusFail},
		{Status: schema.StatusWarn},
		{Status: schema.StatusInfo},
	})
	if s.Total != 5 || s.Passed != 2 || s.Failed != 1 || s.Warnings != 1 {
		t.Fatalf("summary = %+v", s)
	}
}

// ---------------------------------------------------------------------------
// Python version
// ---------------------------------------------------------------------------

func TestPythonVersionNoRequirement(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4")
	c := checkPythonVersion(root, schema.Capabilities{HasPythonFiles: true})
	if c.Status != schema.StatusInfo {
		t.Fatalf("status = %v, want INFO", c.Status)
	}
	if c.Message != "Python version: 3.11.4" {
		t.Errorf("message = %q", c.Message)
	}
	if c.Details != "No version requirement found in pyproject.toml or requirements.txt" {
		t.Errorf("details = %q", c.Details)
	}
}

func TestPythonVersionSatisfied(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4")
	write(t, root, "pyproject.toml", `[tool.poetry.dependencies]
python = "^3.11"
`)
	c := checkPythonVersion(root, schema.Capabilities{HasPythonFiles: true})
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v, want PASS (%q)", c.Status, c.Message)
	}
	if c.Message != "Python version: 3.11.4 (required: ^3.11)" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestPythonVersionMismatch(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.9.7")
	write(t, root, "pyproject.toml", `[project]
requires-python = ">=3.11"
`)
	c := checkPythonVersion(root, schema.Capabilities{HasPythonFiles: true})
	if c.Status != schema.StatusFail {
		t.Fatalf("status = %v, want FAIL (%q)", c.Status, c.Message)
	}
	if c.Message != "Python version mismatch: 3.9.7 (required: >=3.11)" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestRequiredPythonVersionPrecedence(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", `[project]
requires-python = ">=3.10"

[tool.poetry.dependencies]
python = "^3.11"
`)
	write(t, root, "requirements.txt", "python>=3.8\n")
	if got := requiredPythonVersion(root); got != "^3.11" {
		t.Fatalf("poetry constraint must win, got %q", got)
	}
}

func TestRequiredPythonVersionFromRequirements(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "flask\npython>=3.9  # interpreter\n")
	if got := requiredPythonVersion(root); got != ">=3.9" {
		t.Fatalf("got %q, want >=3.9", got)
	}
}

func TestVersionSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"3.11.4", "^3.11", true},
		{"3.10.0", "^3.11", false},
		{"3.11.4", ">=3.9,<3.12", true},
		{"3.12.0", ">=3.9,<3.12", false},
		{"3.11.4", "~=3.11", true},
		{"3.12.0", "~=3.11", false},
		{"3.11.4", "==3.11.4", true},
	}
	for _, tt := range tests {
		got, err := versionSatisfies(tt.version, tt.constraint)
		if err != nil {
			t.Errorf("versionSatisfies(%q, %q): %v", tt.version, tt.constraint, err)
			continue
		}
		if got != tt.want {
			t.Errorf("versionSatisfies(%q, %q) = %v, want %v", tt.version, tt.constraint, got, tt.want)
		}
	}
}

func TestVersionFromPyvenvCfg(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyvenv.cfg", "home = /usr/bin\ninclude-system-site-packages = false\nversion = 3.12.1\n")
	v, err := versionFromPyvenvCfg(filepath.Join(root, "pyvenv.cfg"))
	if err != nil {
		t.Fatal(err)
	}
	if v != "3.12.1" {
		t.Fatalf("version = %q", v)
	}
}

func TestFindVenvDirRequiresStructure(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "venv"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := findVenvDir(root); ok {
		t.Fatal("bare directory named venv must not count")
	}
	write(t, root, "venv/pyvenv.cfg", "version = 3.11.0\n")
	name, ok := findVenvDir(root)
	if !ok || name != "venv" {
		t.Fatalf("findVenvDir = %q, %v", name, ok)
	}
}

// ---------------------------------------------------------------------------
// Virtual environment
// ---------------------------------------------------------------------------

func TestVirtualEnvMissingIsWarn(t *testing.T) {
	c := checkVirtualEnvironment(t.TempDir(), schema.Capabilities{HasDependencyDeclaration: true})
	if c.Status != schema.StatusWarn {
		t.Fatalf("status = %v, want WARN", c.Status)
	}
	if c.Message != "Virtual environment: not found" {
		t.Errorf("message = %q", c.Message)
	}
	if c.FixCommand == "" {
		t.Error("expected a fix command")
	}
}

func TestVirtualEnvFound(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4")
	c := checkVirtualEnvironment(root, schema.Capabilities{HasDependencyDeclaration: true})
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v, want PASS", c.Status)
	}
	if c.Details != "Found venv at: .venv" {
		t.Errorf("details = %q", c.Details)
	}
}

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

func depsCaps() schema.Capabilities {
	return schema.Capabilities{HasDependencyDeclaration: true, HasIsolatedEnvironment: true}
}

func TestDependenciesCannotVerifyWithoutVenv(t *testing.T) {
	c := checkDependencies(t.TempDir(), schema.Capabilities{HasDependencyDeclaration: true})
	if c.Status != schema.StatusWarn {
		t.Fatalf("status = %v, want WARN", c.Status)
	}
	if c.Message != "Dependencies declared but cannot verify" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestDependenciesAllInstalled(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4", "Flask-3.0.0.dist-info", "requests-2.31.0.dist-info")
	write(t, root, "requirements.txt", "flask==3.0.0\nrequests>=2.0\n")
	c := checkDependencies(root, depsCaps())
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v (%q %q)", c.Status, c.Message, c.Details)
	}
	if c.Message != "Dependencies: all 2 packages installed" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestDependenciesMissing(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4", "flask-3.0.0.dist-info")
	write(t, root, "requirements.txt", "flask==3.0.0\nrequests>=2.0\n")
	c := checkDependencies(root, depsCaps())
	if c.Status != schema.StatusFail {
		t.Fatalf("status = %v, want FAIL", c.Status)
	}
	if c.Message != "Dependencies: 1 missing" {
		t.Errorf("message = %q", c.Message)
	}
	if c.Details != "Missing packages: requests>=2.0" {
		t.Errorf("details = %q", c.Details)
	}
	if c.FixCommand != "pip install requests" {
		t.Errorf("fix = %q", c.FixCommand)
	}
}

func TestDependenciesPoetryLockFix(t *testing.T) {
	root := t.TempDir()
	makeVenv(t, root, "3.11.4")
	write(t, root, "poetry.lock", "")
	write(t, root, "requirements.txt", "flask\n")
	c := checkDependencies(root, depsCaps())
	if c.FixCommand != "poetry install" {
		t.Fatalf("fix = %q, want poetry install", c.FixCommand)
	}
}

func TestPackageName(t *testing.T) {
	cases := map[string]string{
		"flask":                                 "flask",
		"flask==3.0.0":                          "flask",
		"pydantic[email]>=2.0":                  "pydantic",
		"requests >= 2.0":                       "requests",
		"uvicorn[standard]":                     "uvicorn",
		"pkg @ git+https://example.com/pkg.git": "pkg",
	}
	for dep, want := range cases {
		if got := packageName(dep); got != want {
			t.Errorf("packageName(%q) = %q, want %q", dep, got, want)
		}
	}
}

func TestNormalizePackageName(t *testing.T) {
	cases := map[string]string{
		"Flask":             "flask",
		"typing_extensions": "typing-extensions",
		"zope.interface":    "zope-interface",
	}
	for name, want := range cases {
		if got := normalizePackageName(name); got != want {
			t.Errorf("normalizePackageName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRequiredDependenciesSorted(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "zeta\nalpha\n# comment\n-r other.txt\n")
	deps := requiredDependencies(root)
	if len(deps) != 2 || deps[0] != "alpha" || deps[1] != "zeta" {
		t.Fatalf("deps = %v", deps)
	}
}

// ---------------------------------------------------------------------------
// Environment variables
// ---------------------------------------------------------------------------

func TestEnvVarsNoRequirements(t *testing.T) {
	c := checkEnvVars(t.TempDir())
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v, want PASS", c.Status)
	}
	if c.Message != "Environment variables: no requirements found" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestEnvVarsEnvWithoutTemplate(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env", "API_KEY=secret\nDEBUG=1\n")
	c := checkEnvVars(root)
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v, want PASS", c.Status)
	}
	if c.Message != "Environment variables: .env found with 2 variables" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestEnvVarsTemplateWithoutEnv(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env.example", "API_KEY=\nDATABASE_URL=\n")
	c := checkEnvVars(root)
	if c.Status != schema.StatusFail {
		t.Fatalf("status = %v, want FAIL", c.Status)
	}
	if c.Message != "Environment variables: .env file missing" {
		t.Errorf("message = %q", c.Message)
	}
	if !strings.Contains(c.Details, "2 required variables") {
		t.Errorf("details = %q", c.Details)
	}
}

func TestEnvVarsAllSet(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env.example", "API_KEY=\nDATABASE_URL=\n")
	write(t, root, ".env", "API_KEY=x\nDATABASE_URL=y\nEXTRA=ok\n")
	c := checkEnvVars(root)
	if c.Status != schema.StatusPass {
		t.Fatalf("status = %v (%q)", c.Status, c.Message)
	}
	if c.Message != "Environment variables: all 2 variables set in .env" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestEnvVarsMissing(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env.example", "API_KEY=\nDATABASE_URL=\n")
	write(t, root, ".env", "API_KEY=x\n")
	c := checkEnvVars(root)
	if c.Status != schema.StatusFail {
		t.Fatalf("status = %v, want FAIL", c.Status)
	}
	if c.Message != "Environment variables: 1 missing from .env" {
		t.Errorf("message = %q", c.Message)
	}
	if c.Details != "Missing: DATABASE_URL" {
		t.Errorf("details = %q", c.Details)
	}
	if c.FixCommand != "Set DATABASE_URL in your environment or .env file" {
		t.Errorf("fix = %q", c.FixCommand)
	}
}

func TestCommentedTemplateVarsCount(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env.template", "API_KEY=\n# OPTIONAL_TOKEN=example\n# just a note, not a var\n")
	required := requiredEnvVars(root)
	if len(required) != 2 || required[0] != "API_KEY" || required[1] != "OPTIONAL_TOKEN" {
		t.Fatalf("required = %v", required)
	}
}

func TestFormatList(t *testing.T) {
	if got := formatList([]string{"a", "b"}, 5); got != "a, b" {
		t.Errorf("got %q", got)
	}
	got := formatList([]string{"a", "b", "c", "d"}, 2)
	if got != "a, b, ... and 2 more" {
		t.Errorf("got %q", got)
	}
}
