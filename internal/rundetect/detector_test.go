package rundetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AdityaMallela041/PyReady/internal/pysrc"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// fakeSource serves in-memory project layouts.
type fakeSource struct {
	files map[string]string
}

func (s fakeSource) Exists(rel string) bool {
	_, ok := s.files[rel]
	return ok
}

func (s fakeSource) ParseFile(rel string) (*pysrc.Module, error) {
	return pysrc.Parse([]byte(s.files[rel]), rel)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const fastapiApp = "from fastapi import FastAPI\napp = FastAPI()\n"
const flaskApp = "from flask import Flask\napp = Flask(__name__)\n"
const mainGuard = "def main():\n    pass\n\nif __name__ == \"__main__\":\n    main()\n"

func TestDetectNothing(t *testing.T) {
	d := NewWithSource(t.TempDir(), schema.ProjectUnknown, fakeSource{})
	result := d.Detect()
	if result.HasCommand() {
		t.Fatalf("expected no command, got %q", result.Command)
	}
	if result.CommandType != schema.RunNone || result.DetectionBasis != schema.BasisNone {
		t.Errorf("empty result not the none sentinel: %+v", result)
	}
	if result.Evidence == nil || len(result.Evidence) != 0 {
		t.Errorf("none result must carry an empty, non-nil evidence list")
	}
}

func TestDeclaredScriptPriorityName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `[tool.poetry]
name = "demo"

[tool.poetry.scripts]
migrate = "demo.migrate:main"
start = "demo.server:main"
`)
	result := New(root, schema.ProjectPoetry).Detect()
	if result.Command != "poetry run start" {
		t.Fatalf("command = %q, want poetry run start", result.Command)
	}
	if result.CommandType != schema.RunPoetryScript || result.DetectionBasis != schema.BasisExplicit {
		t.Errorf("wrong type/basis: %+v", result)
	}
	want := "[tool.poetry.scripts] defines 'start' = 'demo.server:main'"
	if len(result.Evidence) != 1 || result.Evidence[0].Reason != want {
		t.Errorf("evidence = %+v, want reason %q", result.Evidence, want)
	}
}

func TestDeclaredScriptDevOverLint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `[tool.poetry.scripts]
lint = "ruff check"
dev = "uvicorn app:app"
`)
	result := New(root, schema.ProjectPoetry).Detect()
	if result.Command != "poetry run dev" {
		t.Fatalf("command = %q, want poetry run dev", result.Command)
	}
	if result.DetectionBasis != schema.BasisExplicit {
		t.Errorf("basis = %v", result.DetectionBasis)
	}
}

func TestDeclaredScriptFirstDeclaredFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `[tool.poetry.scripts]
zeta = "demo.zeta:main"
alpha = "demo.alpha:main"
`)
	result := New(root, schema.ProjectPoetry).Detect()
	// No priority name declared: first in file order wins, not first
	// alphabetically.
	if result.Command != "poetry run zeta" {
		t.Fatalf("command = %q, want poetry run zeta", result.Command)
	}
}

func TestDeclaredScriptPEP621(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `[project]
name = "demo"

[project.scripts]
serve = "demo.cli:serve"
`)
	result := New(root, schema.ProjectPipVenv).Detect()
	if result.Command != "poetry run serve" {
		t.Fatalf("command = %q, want poetry run serve", result.Command)
	}
	want := "[project.scripts] defines 'serve' = 'demo.cli:serve'"
	if len(result.Evidence) != 1 || result.Evidence[0].Reason != want {
		t.Errorf("evidence = %+v, want reason %q", result.Evidence, want)
	}
}

func TestScriptsBeatFrameworks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", `[tool.poetry.scripts]
start = "demo:main"
`)
	writeFile(t, root, "main.py", fastapiApp)
	result := New(root, schema.ProjectPoetry).Detect()
	if result.CommandType != schema.RunPoetryScript {
		t.Fatalf("declared script must win over FastAPI, got %v", result.CommandType)
	}
}

func TestFastAPIDetection(t *testing.T) {
	src := fakeSource{files: map[string]string{"app/main.py": fastapiApp}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.Command != "uvicorn app.main:app --reload" {
		t.Fatalf("command = %q", result.Command)
	}
	if result.CommandType != schema.RunFastAPI || result.DetectionBasis != schema.BasisPatternBased {
		t.Errorf("wrong type/basis: %+v", result)
	}
	if len(result.Evidence) != 2 {
		t.Fatalf("evidence count = %d, want 2", len(result.Evidence))
	}
	if result.Evidence[0].Reason != "FastAPI() instance assigned to 'app' variable" {
		t.Errorf("evidence[0] = %+v", result.Evidence[0])
	}
	if result.Evidence[0].LineNumber != 2 {
		t.Errorf("line = %d, want 2", result.Evidence[0].LineNumber)
	}
	if result.Evidence[1].Reason != "no scripts defined" {
		t.Errorf("evidence[1] = %+v", result.Evidence[1])
	}
}

func TestFastAPIPoetryPrefix(t *testing.T) {
	src := fakeSource{files: map[string]string{"main.py": fastapiApp}}
	result := NewWithSource(t.TempDir(), schema.ProjectPoetry, src).Detect()
	if result.Command != "poetry run uvicorn main:app --reload" {
		t.Fatalf("command = %q", result.Command)
	}
}

func TestFastAPICandidateOrder(t *testing.T) {
	src := fakeSource{files: map[string]string{
		"main.py":     fastapiApp,
		"app/main.py": fastapiApp,
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	// app/main.py outranks main.py in the candidate list.
	if result.Command != "uvicorn app.main:app --reload" {
		t.Fatalf("command = %q", result.Command)
	}
}

func TestFastAPIBeatsFlask(t *testing.T) {
	src := fakeSource{files: map[string]string{
		"app.py":  flaskApp,
		"main.py": fastapiApp,
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.CommandType != schema.RunFastAPI {
		t.Fatalf("FastAPI step must run before Flask, got %v", result.CommandType)
	}
}

func TestFlaskDetection(t *testing.T) {
	src := fakeSource{files: map[string]string{"app.py": flaskApp}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.Command != "flask --app app run" {
		t.Fatalf("command = %q", result.Command)
	}
	if result.CommandType != schema.RunFlask {
		t.Errorf("type = %v", result.CommandType)
	}
	if result.Evidence[0].Reason != "Flask(__name__) instance assigned to 'app' variable" {
		t.Errorf("evidence[0] = %+v", result.Evidence[0])
	}
}

func TestFrameworkRequiresImportAndAssignment(t *testing.T) {
	// Import without the app assignment is not a match.
	src := fakeSource{files: map[string]string{
		"main.py": "from fastapi import FastAPI\n",
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.CommandType == schema.RunFastAPI {
		t.Fatal("import alone must not detect FastAPI")
	}
}

func TestParseErrorSkipsCandidate(t *testing.T) {
	src := fakeSource{files: map[string]string{
		"app/main.py": "x = 'broken\n",
		"main.py":     fastapiApp,
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.Command != "uvicorn main:app --reload" {
		t.Fatalf("broken candidate must be skipped, got %q", result.Command)
	}
}

func TestFastAPIWithEscapedQuoteLiteral(t *testing.T) {
	src := fakeSource{files: map[string]string{
		"app/main.py": "from fastapi import FastAPI\ngreeting = \"don\\\"t panic\"\napp = FastAPI()\n",
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.CommandType != schema.RunFastAPI {
		t.Fatalf("escaped quote must not hide the app, got %+v", result)
	}
	if result.Command != "uvicorn app.main:app --reload" {
		t.Errorf("command = %q", result.Command)
	}
}

func TestFastAPIChainedAssignment(t *testing.T) {
	src := fakeSource{files: map[string]string{
		"main.py": "from fastapi import FastAPI\napp = application = FastAPI()\n",
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectPipVenv, src).Detect()
	if result.CommandType != schema.RunFastAPI {
		t.Fatalf("chained assignment must still bind 'app', got %+v", result)
	}
}

func TestDirectPythonFallback(t *testing.T) {
	src := fakeSource{files: map[string]string{"src/run.py": mainGuard}}
	result := NewWithSource(t.TempDir(), schema.ProjectUnknown, src).Detect()
	if result.Command != "python src/run.py" {
		t.Fatalf("command = %q", result.Command)
	}
	if result.CommandType != schema.RunDirectPython || result.DetectionBasis != schema.BasisFallback {
		t.Errorf("wrong type/basis: %+v", result)
	}
	if result.Evidence[0].Reason != `contains if __name__ == "__main__": block` {
		t.Errorf("evidence[0] = %+v", result.Evidence[0])
	}
	if result.Evidence[0].LineNumber != 4 {
		t.Errorf("line = %d, want 4", result.Evidence[0].LineNumber)
	}
}

func TestDirectPythonGridOrder(t *testing.T) {
	// Root-level candidates are checked before app/ and src/.
	src := fakeSource{files: map[string]string{
		"src/main.py": mainGuard,
		"run.py":      mainGuard,
	}}
	result := NewWithSource(t.TempDir(), schema.ProjectUnknown, src).Detect()
	if result.Command != "python run.py" {
		t.Fatalf("command = %q, want python run.py", result.Command)
	}
}

func TestDirectPythonRequiresGuard(t *testing.T) {
	src := fakeSource{files: map[string]string{"main.py": "print('hello')\n"}}
	result := NewWithSource(t.TempDir(), schema.ProjectUnknown, src).Detect()
	if result.HasCommand() {
		t.Fatalf("no guard means no command, got %q", result.Command)
	}
}

func TestModuleNotation(t *testing.T) {
	cases := map[string]string{
		"main.py":             "main",
		"app/main.py":         "app.main",
		"backend/app/main.py": "backend.app.main",
	}
	for rel, want := range cases {
		if got := moduleNotation(rel); got != want {
			t.Errorf("moduleNotation(%q) = %q, want %q", rel, got, want)
		}
	}
}
