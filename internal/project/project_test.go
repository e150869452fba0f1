package project

import (
	"os"
	"path/filepath"
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

// ---------------------------------------------------------------------------
// Type detection
// ---------------------------------------------------------------------------

func TestDetectTypePoetry(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "[tool.poetry]\nname = \"demo\"\n")
	if got := DetectType(root); got != schema.ProjectPoetry {
		t.Fatalf("DetectType = %v, want poetry", got)
	}
}

func TestDetectTypePyprojectWithoutPoetryIsNotPoetry(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "[project]\nname = \"demo\"\n")
	if got := DetectType(root); got == schema.ProjectPoetry {
		t.Fatal("pyproject without [tool.poetry] must not classify as poetry")
	}
}

func TestDetectTypePipVenv(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "flask\n")
	if got := DetectType(root); got != schema.ProjectPipVenv {
		t.Fatalf("DetectType = %v, want pip_venv", got)
	}
}

func TestDetectTypeRequirementsSubdir(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements/base.txt", "flask\n")
	if got := DetectType(root); got != schema.ProjectPipVenv {
		t.Fatalf("DetectType = %v, want pip_venv", got)
	}
}

func TestDetectTypeSetuptools(t *testing.T) {
	root := t.TempDir()
	write(t, root, "setup.py", "from setuptools import setup\nsetup()\n")
	if got := DetectType(root); got != schema.ProjectSetuptools {
		t.Fatalf("DetectType = %v, want setuptools", got)
	}
}

func TestDetectTypePriority(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "[tool.poetry]\nname = \"demo\"\n")
	write(t, root, "requirements.txt", "flask\n")
	write(t, root, "setup.py", "setup()\n")
	if got := DetectType(root); got != schema.ProjectPoetry {
		t.Fatalf("poetry must win the priority order, got %v", got)
	}
}

func TestDetectTypeUnknown(t *testing.T) {
	if got := DetectType(t.TempDir()); got != schema.ProjectUnknown {
		t.Fatalf("DetectType = %v, want unknown", got)
	}
	if got := DetectType(filepath.Join(t.TempDir(), "missing")); got != schema.ProjectUnknown {
		t.Fatalf("missing root = %v, want unknown", got)
	}
}

// ---------------------------------------------------------------------------
// Pyproject parsing
// ---------------------------------------------------------------------------

func TestLoadPyprojectScriptOrder(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", `[tool.poetry.scripts]
zulu = "demo.zulu:main"
alpha = "demo.alpha:main"
mike = "demo.mike:main"
`)
	p, err := LoadPyproject(root)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(p.PoetryScripts))
	for i, s := range p.PoetryScripts {
		got[i] = s.Name
	}
	want := []string{"zulu", "alpha", "mike"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("script order = %v, want %v (file order, not sorted)", got, want)
		}
	}
}

func TestLoadPyprojectDevDependencies(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", `[tool.poetry.dependencies]
python = "^3.11"

[tool.poetry.group.dev.dependencies]
pytest = "^8.0"
ruff = "^0.4"
`)
	p, err := LoadPyproject(root)
	if err != nil {
		t.Fatal(err)
	}
	if p.PoetryDevDependencies["pytest"] != "^8.0" || p.PoetryDevDependencies["ruff"] != "^0.4" {
		t.Errorf("dev dependencies = %v", p.PoetryDevDependencies)
	}
}

func TestLoadPyprojectMissing(t *testing.T) {
	if _, err := LoadPyproject(t.TempDir()); err == nil {
		t.Fatal("expected error for missing pyproject.toml")
	}
}

func TestPoetryPythonConstraint(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", `[tool.poetry.dependencies]
python = "^3.11"
flask = "^3.0"
`)
	p, err := LoadPyproject(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.PoetryPythonConstraint(); got != "^3.11" {
		t.Fatalf("constraint = %q, want ^3.11", got)
	}
}

// ---------------------------------------------------------------------------
// Capabilities
// ---------------------------------------------------------------------------

func TestCapabilitiesEmptyProject(t *testing.T) {
	caps := DetectCapabilities(t.TempDir())
	for _, flag := range schema.CapabilityFlags {
		if caps.Flag(flag) {
			t.Errorf("%s true for empty project", flag)
		}
	}
	if len(caps.Evidence) != 0 {
		t.Errorf("evidence for empty project: %v", caps.Evidence)
	}
}

func TestCapabilitiesPythonFilesEvidenceCapped(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py", "g.py"} {
		write(t, root, name, "x = 1\n")
	}
	caps := DetectCapabilities(root)
	if !caps.HasPythonFiles {
		t.Fatal("has_python_files should be true")
	}
	if got := len(caps.Evidence["has_python_files"]); got != 5 {
		t.Fatalf("evidence entries = %d, want cap of 5", got)
	}
}

func TestCapabilitiesSkipsVenvAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".venv/lib/site.py", "x = 1\n")
	write(t, root, "__pycache__/mod.py", "x = 1\n")
	write(t, root, ".hidden/mod.py", "x = 1\n")
	caps := DetectCapabilities(root)
	if caps.HasPythonFiles {
		t.Fatalf("excluded dirs must not count: %v", caps.Evidence["has_python_files"])
	}
}

func TestCapabilitiesDependencyDeclaration(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "flask==3.0.0\n")
	write(t, root, "pyproject.toml", `[tool.poetry.dependencies]
python = "^3.11"
`)
	caps := DetectCapabilities(root)
	if !caps.HasDependencyDeclaration {
		t.Fatal("has_dependency_declaration should be true")
	}
	ev := caps.Evidence["has_dependency_declaration"]
	if len(ev) != 2 || ev[0] != "requirements.txt" || ev[1] != "pyproject.toml: [tool.poetry.dependencies]" {
		t.Fatalf("evidence = %v", ev)
	}
}

func TestCapabilitiesIsolatedEnvironmentNeedsInterpreter(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "venv"), 0o755); err != nil {
		t.Fatal(err)
	}
	caps := DetectCapabilities(root)
	if caps.HasIsolatedEnvironment {
		t.Fatal("empty venv dir must not count as an isolated environment")
	}

	write(t, root, "venv/bin/python", "")
	caps = DetectCapabilities(root)
	if !caps.HasIsolatedEnvironment {
		t.Fatal("venv with interpreter should count")
	}
	if ev := caps.Evidence["has_isolated_environment"]; len(ev) != 1 || ev[0] != "venv/" {
		t.Fatalf("evidence = %v", ev)
	}
}

func TestCapabilitiesReproducibleEnvironment(t *testing.T) {
	root := t.TempDir()
	write(t, root, "poetry.lock", "")
	write(t, root, "requirements.txt", "flask==3.0.0\n")
	caps := DetectCapabilities(root)
	ev := caps.Evidence["has_reproducible_environment"]
	if len(ev) != 2 || ev[0] != "poetry.lock" || ev[1] != "requirements.txt: pinned versions" {
		t.Fatalf("evidence = %v", ev)
	}
}

func TestCapabilitiesUnpinnedRequirementsNotReproducible(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "flask\nrequests>=2.0\n")
	caps := DetectCapabilities(root)
	if caps.HasReproducibleEnvironment {
		t.Fatal("unpinned requirements must not count as reproducible")
	}
}

func TestCapabilitiesEntrypoint(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", `[tool.poetry.scripts]
start = "demo:main"
serve = "demo:serve"
`)
	write(t, root, "main.py", "x = 1\n")
	write(t, root, "src/app.py", "x = 1\n")
	caps := DetectCapabilities(root)
	if !caps.HasDetectableEntrypoint {
		t.Fatal("has_detectable_entrypoint should be true")
	}
	ev := caps.Evidence["has_detectable_entrypoint"]
	want := []string{"pyproject.toml: [tool.poetry.scripts] (2 defined)", "main.py", "src/app.py"}
	if len(ev) != len(want) {
		t.Fatalf("evidence = %v, want %v", ev, want)
	}
	for i := range want {
		if ev[i] != want[i] {
			t.Fatalf("evidence = %v, want %v", ev, want)
		}
	}
}
