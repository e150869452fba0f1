// Package rundetect chooses at most one command to run a Python project,
// with the evidence behind the choice, or reports that none was found.
//
// Detection is a strict priority cascade; the first step that produces a
// command wins and later steps never run:
//
//  1. declared scripts in pyproject.toml          (basis: explicit)
//  2. FastAPI app instance in a candidate file    (basis: pattern-based)
//  3. Flask app instance in a candidate file      (basis: pattern-based)
//  4. top-level __main__ guard in a candidate     (basis: fallback)
//  5. nothing                                     (basis: none)
//
// Every step is an independent pure function returning the explicit
// "no match" sentinel on failure, so the cascade is a short-circuit fold
// rather than nested conditionals. A candidate file that fails to parse is
// skipped and scanning continues; a syntax error in one candidate never
// hides a later, valid one.
package rundetect

import (
	"fmt"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/project"
	"github.com/AdityaMallela041/PyReady/internal/pysrc"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// scriptPriorityNames are preferred script names, in preference order.
var scriptPriorityNames = []string{"start", "dev", "run", "serve"}

// fastapiCandidates are scanned in order for a FastAPI app instance.
var fastapiCandidates = []string{
	"app/main.py",
	"src/app/main.py",
	"src/main.py",
	"main.py",
	"api/main.py",
	"backend/main.py",
	"backend/app/main.py",
}

// flaskCandidates are scanned in order for a Flask app instance.
// Independent priority order from the FastAPI list.
var flaskCandidates = []string{
	"app.py",
	"main.py",
	"app/main.py",
	"src/app.py",
	"src/main.py",
	"api/app.py",
}

// fallbackDirs and fallbackNames form the (directory, filename) candidate
// grid for direct-python detection; directories are the outer loop.
var (
	fallbackDirs  = []string{"", "app", "src"}
	fallbackNames = []string{"main.py", "run.py", "start.py", "app.py", "__main__.py"}
)

// Detector runs the cascade for one project root.
type Detector struct {
	root        string
	projectType schema.ProjectType
	src         pysrc.Source
}

// New returns a Detector reading sources from the project root itself.
func New(root string, projectType schema.ProjectType) *Detector {
	return &Detector{root: root, projectType: projectType, src: pysrc.NewDirSource(root)}
}

// NewWithSource returns a Detector with an explicit source provider.
// Tests use it to supply in-memory project layouts.
func NewWithSource(root string, projectType schema.ProjectType, src pysrc.Source) *Detector {
	return &Detector{root: root, projectType: projectType, src: src}
}

// Detect runs the priority cascade and returns the first match, or the
// "none" result with empty evidence.
func (d *Detector) Detect() schema.RunCommandResult {
	steps := []func() schema.RunCommandResult{
		d.detectDeclaredScript,
		d.detectFastAPI,
		d.detectFlask,
		d.detectDirectPython,
	}
	for _, step := range steps {
		if result := step(); result.HasCommand() {
			return result
		}
	}
	return schema.NoRunCommand()
}

// formatCommand prefixes the base command with the dependency manager's
// runner when the project is manager-driven; other project types run bare.
func (d *Detector) formatCommand(base string) string {
	if d.projectType == schema.ProjectPoetry {
		return "poetry run " + base
	}
	return base
}

// ---------------------------------------------------------------------------
// Step 1 — declared scripts (explicit)
// ---------------------------------------------------------------------------

// detectDeclaredScript reads the script tables from pyproject.toml.
// [tool.poetry.scripts] is preferred, picking a priority name first and the
// first declared script otherwise; [project.scripts] is the PEP 621
// fallback, first declared entry only. A missing or malformed pyproject is
// no evidence.
func (d *Detector) detectDeclaredScript() schema.RunCommandResult {
	p, err := project.LoadPyproject(d.root)
	if err != nil {
		return schema.NoRunCommand()
	}

	if len(p.PoetryScripts) > 0 {
		if chosen, ok := pickScript(p.PoetryScripts); ok {
			return scriptResult("[tool.poetry.scripts]", chosen)
		}
	}
	if len(p.ProjectScripts) > 0 {
		return scriptResult("[project.scripts]", p.ProjectScripts[0])
	}
	return schema.NoRunCommand()
}

// pickScript returns the first priority-named script, or the first declared
// script when no priority name is present.
func pickScript(scripts []project.Script) (project.Script, bool) {
	for _, name := range scriptPriorityNames {
		for _, s := range scripts {
			if s.Name == name {
				return s, true
			}
		}
	}
	if len(scripts) > 0 {
		return scripts[0], true
	}
	return project.Script{}, false
}

// scriptResult builds the explicit-basis result for one declared script.
func scriptResult(table string, s project.Script) schema.RunCommandResult {
	return schema.RunCommandResult{
		Command:     "poetry run " + s.Name,
		CommandType: schema.RunPoetryScript,
		Evidence: []schema.EvidenceItem{{
			FilePath: "pyproject.toml",
			Reason:   fmt.Sprintf("%s defines '%s' = '%s'", table, s.Name, s.Command),
		}},
		DetectionBasis: schema.BasisExplicit,
	}
}

// ---------------------------------------------------------------------------
// Steps 2 and 3 — framework patterns (pattern-based)
// ---------------------------------------------------------------------------

// frameworkMatch is the outcome of scanning one candidate list for an
// import + module-level `app = Ctor()` assignment pair.
type frameworkMatch struct {
	candidate string // relative path that matched
	line      int    // line of the app assignment
}

// scanFramework walks candidates in order and returns the first file whose
// facts show both an import of symbol from module and a module-level
// assignment of a call to symbol into a variable named "app". Files that do
// not exist or fail to parse are skipped; scanning stops at the first match.
func (d *Detector) scanFramework(candidates []string, module, symbol string) (frameworkMatch, bool) {
	for _, candidate := range candidates {
		if !d.src.Exists(candidate) {
			continue
		}
		facts, err := d.src.ParseFile(candidate)
		if err != nil {
			continue
		}
		if !facts.ImportsName(module, symbol) {
			continue
		}
		if a := facts.AssignmentOf("app", symbol); a != nil {
			return frameworkMatch{candidate: candidate, line: a.Line}, true
		}
	}
	return frameworkMatch{}, false
}

// moduleNotation converts a relative file path to dotted module notation:
// "app/main.py" → "app.main".
func moduleNotation(rel string) string {
	return strings.ReplaceAll(strings.TrimSuffix(rel, ".py"), "/", ".")
}

// detectFastAPI finds a FastAPI instance and formats a uvicorn invocation.
func (d *Detector) detectFastAPI() schema.RunCommandResult {
	match, ok := d.scanFramework(fastapiCandidates, "fastapi", "FastAPI")
	if !ok {
		return schema.NoRunCommand()
	}
	appModule := moduleNotation(match.candidate) + ":app"
	return schema.RunCommandResult{
		Command:     d.formatCommand(fmt.Sprintf("uvicorn %s --reload", appModule)),
		CommandType: schema.RunFastAPI,
		Evidence: []schema.EvidenceItem{
			{
				FilePath:   match.candidate,
				Reason:     "FastAPI() instance assigned to 'app' variable",
				LineNumber: match.line,
			},
			noScriptsEvidence(),
		},
		DetectionBasis: schema.BasisPatternBased,
	}
}

// detectFlask finds a Flask instance and formats a flask CLI invocation.
func (d *Detector) detectFlask() schema.RunCommandResult {
	match, ok := d.scanFramework(flaskCandidates, "flask", "Flask")
	if !ok {
		return schema.NoRunCommand()
	}
	return schema.RunCommandResult{
		Command:     d.formatCommand(fmt.Sprintf("flask --app %s run", moduleNotation(match.candidate))),
		CommandType: schema.RunFlask,
		Evidence: []schema.EvidenceItem{
			{
				FilePath:   match.candidate,
				Reason:     "Flask(__name__) instance assigned to 'app' variable",
				LineNumber: match.line,
			},
			noScriptsEvidence(),
		},
		DetectionBasis: schema.BasisPatternBased,
	}
}

// noScriptsEvidence records that the explicit-script step found nothing —
// pattern and fallback results always carry it so the cascade position is
// visible in the evidence itself.
func noScriptsEvidence() schema.EvidenceItem {
	return schema.EvidenceItem{FilePath: "pyproject.toml", Reason: "no scripts defined"}
}

// ---------------------------------------------------------------------------
// Step 4 — direct python (fallback)
// ---------------------------------------------------------------------------

// detectDirectPython scans the (directory, filename) candidate grid for the
// first file with a top-level `if __name__ == "__main__":` guard.
func (d *Detector) detectDirectPython() schema.RunCommandResult {
	for _, dir := range fallbackDirs {
		for _, name := range fallbackNames {
			rel := name
			if dir != "" {
				rel = dir + "/" + name
			}
			if !d.src.Exists(rel) {
				continue
			}
			facts, err := d.src.ParseFile(rel)
			if err != nil {
				continue
			}
			line, ok := facts.HasMainGuard()
			if !ok {
				continue
			}
			return schema.RunCommandResult{
				Command:     d.formatCommand("python " + rel),
				CommandType: schema.RunDirectPython,
				Evidence: []schema.EvidenceItem{
					{
						FilePath:   rel,
						Reason:     `contains if __name__ == "__main__": block`,
						LineNumber: line,
					},
					noScriptsEvidence(),
				},
				DetectionBasis: schema.BasisFallback,
			}
		}
	}
	return schema.NoRunCommand()
}
