// Package pysrc extracts shallow structural facts from Python source files:
// module-level imports, module-level assignments of constructor calls, and
// top-level __main__ guards, each with a line number.
//
// The scanner is deliberately structural rather than textual: string
// literals and comments are consumed as tokens, so `# app = FastAPI()` in a
// comment or inside a docstring can never produce a fact. It is not a
// Python parser — it recognizes exactly the statement shapes the run-command
// detector needs and ignores everything else.
//
// A file that cannot be scanned (unterminated string literal) returns an
// error value. Callers treat that as "this candidate does not match" and
// move on; a broken file never aborts a detection cascade.
package pysrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Module holds the structural facts extracted from one source file.
type Module struct {
	Path        string
	Imports     []Import
	Assignments []Assignment
	MainGuards  []MainGuard
}

// Import is one module-level `from X import a, b` statement.
// Plain `import X` statements are recorded with empty Names.
type Import struct {
	Module string
	Names  []string
	Line   int
}

// Assignment is one module-level `target = Callee(...)` statement.
// Callee may be dotted (`fastapi.FastAPI`).
type Assignment struct {
	Target string
	Callee string
	Line   int
}

// MainGuard is one top-level `if __name__ == "__main__":` conditional.
// Both operand orders are recognized; only equality counts.
type MainGuard struct {
	Line int
}

// ImportsName reports whether the module has a from-import of name from mod.
func (m *Module) ImportsName(mod, name string) bool {
	for _, imp := range m.Imports {
		if imp.Module != mod {
			continue
		}
		for _, n := range imp.Names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// AssignmentOf returns the first module-level assignment of a call to callee
// into target, or nil.
func (m *Module) AssignmentOf(target, callee string) *Assignment {
	for i := range m.Assignments {
		a := &m.Assignments[i]
		if a.Target == target && a.Callee == callee {
			return a
		}
	}
	return nil
}

// HasMainGuard reports whether the module has any top-level __main__ guard,
// returning the line of the first one.
func (m *Module) HasMainGuard() (int, bool) {
	if len(m.MainGuards) == 0 {
		return 0, false
	}
	return m.MainGuards[0].Line, true
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

// Parse scans src and returns its structural facts. path is recorded on the
// Module and used in error messages only.
func Parse(src []byte, path string) (*Module, error) {
	mod := &Module{Path: path}
	lines := strings.Split(string(src), "\n")

	// inTriple holds the open triple-quote delimiter while inside a
	// multi-line string, or "" outside one.
	inTriple := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		if inTriple != "" {
			if idx := strings.Index(line, inTriple); idx >= 0 {
				inTriple = ""
				// Anything after the closing delimiter is rarely a
				// statement at column 0; skip the remainder of the line.
			}
			continue
		}

		// Only column-0 statements are module-level.
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			// Still must track triple-quote openings inside indented code
			// so docstring bodies are not scanned as statements.
			open, err := scanForTripleOpen(line, lineNo, path)
			if err != nil {
				return nil, err
			}
			inTriple = open
			continue
		}

		toks, open, err := tokenize(line, lineNo, path)
		if err != nil {
			return nil, err
		}
		if open != "" {
			inTriple = open
			continue
		}
		if len(toks) == 0 {
			continue
		}

		switch toks[0].text {
		case "from":
			imp, consumed := parseFromImport(toks, lines, i, lineNo, path)
			if imp != nil {
				mod.Imports = append(mod.Imports, *imp)
			}
			i += consumed
		case "import":
			if len(toks) >= 2 && toks[1].kind == tokIdent {
				mod.Imports = append(mod.Imports, Import{Module: toks[1].text, Line: lineNo})
			}
		case "if":
			if isMainGuard(toks) {
				mod.MainGuards = append(mod.MainGuards, MainGuard{Line: lineNo})
			}
		default:
			mod.Assignments = append(mod.Assignments, parseCallAssignments(toks, lineNo)...)
		}
	}

	if inTriple != "" {
		return nil, fmt.Errorf("%s: unterminated %s string", path, inTriple)
	}
	return mod, nil
}

// parseFromImport recognizes `from MOD import a, b as c` including the
// parenthesized multi-line form. Returns the import (or nil if the shape
// does not match) and how many extra physical lines were consumed.
func parseFromImport(toks []token, lines []string, lineIdx, lineNo int, path string) (*Import, int) {
	if len(toks) < 4 || toks[1].kind != tokIdent || toks[2].text != "import" {
		return nil, 0
	}
	imp := Import{Module: toks[1].text, Line: lineNo}

	rest := toks[3:]
	consumed := 0
	if rest[0].text == "(" {
		// Gather tokens until the matching close paren, joining lines.
		rest = rest[1:]
		for !hasCloseParen(rest) && lineIdx+consumed+1 < len(lines) {
			consumed++
			more, open, err := tokenize(lines[lineIdx+consumed], lineNo+consumed, path)
			if err != nil || open != "" {
				return nil, consumed
			}
			rest = append(rest, more...)
		}
	}

	// Collect imported names, honoring `as` aliases by keeping the original
	// name (the detector matches on what was imported, not what it is
	// called locally — aliasing FastAPI hides the constructor name anyway).
	skipNext := false
	for _, t := range rest {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case t.text == "as":
			skipNext = true
		case t.kind == tokIdent:
			imp.Names = append(imp.Names, t.text)
		}
	}
	if len(imp.Names) == 0 {
		return nil, consumed
	}
	return &imp, consumed
}

func hasCloseParen(toks []token) bool {
	for _, t := range toks {
		if t.text == ")" {
			return true
		}
	}
	return false
}

// parseCallAssignments recognizes `target = Callee(` at the start of a
// line, including chained targets (`app = application = Callee(`). Every
// target in the chain yields one assignment, so lookups match regardless
// of the target's position. `==` is excluded by tokenization (it is a
// single token).
func parseCallAssignments(toks []token, lineNo int) []Assignment {
	if len(toks) < 4 {
		return nil
	}
	if toks[0].kind != tokIdent || toks[1].text != "=" {
		return nil
	}
	targets := []string{toks[0].text}
	i := 2
	for i+1 < len(toks) && toks[i].kind == tokIdent && toks[i+1].text == "=" {
		targets = append(targets, toks[i].text)
		i += 2
	}
	if i+1 >= len(toks) || toks[i].kind != tokIdent || toks[i+1].text != "(" {
		return nil
	}
	callee := toks[i].text
	out := make([]Assignment, 0, len(targets))
	for _, target := range targets {
		out = append(out, Assignment{Target: target, Callee: callee, Line: lineNo})
	}
	return out
}

// isMainGuard recognizes `if __name__ == "__main__":` in either operand
// order. Anything else — other operators, other names — is not a guard.
func isMainGuard(toks []token) bool {
	// Shape: if <a> == <b> :
	if len(toks) < 5 || toks[0].text != "if" || toks[2].text != "==" {
		return false
	}
	a, b := toks[1], toks[3]
	nameVar := func(t token) bool { return t.kind == tokIdent && t.text == "__name__" }
	mainStr := func(t token) bool { return t.kind == tokString && t.text == "__main__" }
	return (nameVar(a) && mainStr(b)) || (mainStr(a) && nameVar(b))
}

// ---------------------------------------------------------------------------
// Tokenizer
// ---------------------------------------------------------------------------

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokOp
)

type token struct {
	kind tokKind
	text string
}

// tokenize splits one physical line into tokens. String literals are
// consumed whole (their unquoted value is the token text); a `#` outside a
// string ends the line. If the line opens a triple-quoted string that does
// not close on the same line, the open delimiter is returned and the caller
// skips ahead. A single-quoted string left unterminated is a scan error.
func tokenize(line string, lineNo int, path string) ([]token, string, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			return toks, "", nil
		case c == '\'' || c == '"':
			q := string(c)
			triple := q + q + q
			if strings.HasPrefix(line[i:], triple) {
				end := strings.Index(line[i+3:], triple)
				if end < 0 {
					return toks, triple, nil
				}
				toks = append(toks, token{tokString, line[i+3 : i+3+end]})
				i += 3 + end + 3
				continue
			}
			j := i + 1
			for j < len(line) && line[j] != c {
				// A backslash escapes the next byte, so `"don\"t"` is one
				// literal rather than a string followed by garbage.
				if line[j] == '\\' && j+1 < len(line) {
					j++
				}
				j++
			}
			if j >= len(line) {
				return nil, "", fmt.Errorf("%s:%d: unterminated string literal", path, lineNo)
			}
			toks = append(toks, token{tokString, line[i+1 : j]})
			i = j + 1
		case isIdentStart(c):
			j := i + 1
			for j < len(line) && (isIdentPart(line[j]) || line[j] == '.') {
				j++
			}
			toks = append(toks, token{tokIdent, line[i:j]})
			i = j
		case strings.HasPrefix(line[i:], "==") || strings.HasPrefix(line[i:], "!=") ||
			strings.HasPrefix(line[i:], ">=") || strings.HasPrefix(line[i:], "<="):
			toks = append(toks, token{tokOp, line[i : i+2]})
			i += 2
		default:
			toks = append(toks, token{tokOp, string(c)})
			i++
		}
	}
	return toks, "", nil
}

// scanForTripleOpen tokenizes an indented line only to learn whether it
// opens a multi-line string; its tokens are otherwise discarded.
func scanForTripleOpen(line string, lineNo int, path string) (string, error) {
	_, open, err := tokenize(line, lineNo, path)
	return open, err
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ---------------------------------------------------------------------------
// Source provider
// ---------------------------------------------------------------------------

// Source supplies existence checks and parsed facts for project-relative
// paths. The run-command detector depends on this seam instead of the
// filesystem so detection logic stays pure and testable.
type Source interface {
	// Exists reports whether the relative path exists as a regular file.
	Exists(rel string) bool
	// ParseFile reads and scans the file at the relative path.
	ParseFile(rel string) (*Module, error)
}

// DirSource is the filesystem-backed Source rooted at a project directory.
type DirSource struct {
	Root string
}

// NewDirSource returns a Source reading from root.
func NewDirSource(root string) DirSource {
	return DirSource{Root: root}
}

// Exists reports whether rel exists under the root as a regular file.
func (s DirSource) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(s.Root, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}

// ParseFile reads and scans rel. Read and scan failures both surface as
// errors; the caller decides whether they are fatal (they never are, for
// detection).
func (s DirSource) ParseFile(rel string) (*Module, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return Parse(data, rel)
}
