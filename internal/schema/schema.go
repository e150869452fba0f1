// Package schema defines the closed enums and immutable value records shared
// by every pyready component: evidence, capabilities, check results, report
// snapshots, diff items, and policy types.
//
// Everything here is a plain value constructed once per analysis run and
// never mutated. Categorical fields are typed string constants rather than
// open strings so that matching stays exhaustive and validation can reject
// anything outside the closed set.
package schema

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Project classification
// ---------------------------------------------------------------------------

// ProjectType is the coarse project kind derived from filesystem evidence.
type ProjectType string

const (
	ProjectPoetry     ProjectType = "poetry"
	ProjectPipVenv    ProjectType = "pip_venv"
	ProjectSetuptools ProjectType = "setuptools"
	ProjectUnknown    ProjectType = "unknown"
)

// Valid reports whether t is one of the closed ProjectType values.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectPoetry, ProjectPipVenv, ProjectSetuptools, ProjectUnknown:
		return true
	}
	return false
}

// ProjectIntent classifies what a project is for, derived from capabilities.
type ProjectIntent string

const (
	IntentScript      ProjectIntent = "script"
	IntentLibrary     ProjectIntent = "library"
	IntentApplication ProjectIntent = "application"
	IntentService     ProjectIntent = "service"
	IntentUnknown     ProjectIntent = "unknown"
)

// Valid reports whether i is one of the closed ProjectIntent values.
func (i ProjectIntent) Valid() bool {
	switch i {
	case IntentScript, IntentLibrary, IntentApplication, IntentService, IntentUnknown:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Capabilities
// ---------------------------------------------------------------------------

// CapabilityFlags lists the five capability flag names in their fixed
// comparison order. Diffing iterates this slice, never a map.
var CapabilityFlags = []string{
	"has_python_files",
	"has_dependency_declaration",
	"has_isolated_environment",
	"has_reproducible_environment",
	"has_detectable_entrypoint",
}

// Capabilities is the evidence-based record of what could be determined
// about a project. A false flag means "not detected", not "does not exist".
type Capabilities struct {
	HasPythonFiles             bool `json:"has_python_files"`
	HasDependencyDeclaration   bool `json:"has_dependency_declaration"`
	HasIsolatedEnvironment     bool `json:"has_isolated_environment"`
	HasReproducibleEnvironment bool `json:"has_reproducible_environment"`
	HasDetectableEntrypoint    bool `json:"has_detectable_entrypoint"`

	// Evidence maps each detected flag name to the file paths and markers
	// that support it.
	Evidence map[string][]string `json:"evidence"`
}

// Flag returns the named capability flag. Unknown names return false.
func (c Capabilities) Flag(name string) bool {
	switch name {
	case "has_python_files":
		return c.HasPythonFiles
	case "has_dependency_declaration":
		return c.HasDependencyDeclaration
	case "has_isolated_environment":
		return c.HasIsolatedEnvironment
	case "has_reproducible_environment":
		return c.HasReproducibleEnvironment
	case "has_detectable_entrypoint":
		return c.HasDetectableEntrypoint
	}
	return false
}

// ---------------------------------------------------------------------------
// Environment checks
// ---------------------------------------------------------------------------

// CheckStatus is the outcome of one environment check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusFail CheckStatus = "FAIL"
	StatusWarn CheckStatus = "WARN"
	StatusInfo CheckStatus = "INFO"
)

// Valid reports whether s is one of the closed CheckStatus values.
func (s CheckStatus) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarn, StatusInfo:
		return true
	}
	return false
}

// CheckResult is the result of a single environment check.
type CheckResult struct {
	Category   string      `json:"category"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Details    string      `json:"details,omitempty"`
	FixCommand string      `json:"fix_command,omitempty"`
}

// Recommendation is one advisory improvement, backed by evidence strings.
type Recommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Evidence       []string `json:"evidence"`
	ExampleCommand string   `json:"example_command,omitempty"`
}

// ---------------------------------------------------------------------------
// Run command detection
// ---------------------------------------------------------------------------

// RunCommandType identifies which detection step produced a run command.
type RunCommandType string

const (
	RunPoetryScript RunCommandType = "poetry_script"
	RunFastAPI      RunCommandType = "fastapi"
	RunFlask        RunCommandType = "flask"
	RunDirectPython RunCommandType = "direct_python"
	RunNone         RunCommandType = "none"
)

// DetectionBasis is the kind of evidence behind a run-command decision.
type DetectionBasis string

const (
	BasisExplicit     DetectionBasis = "explicit"
	BasisPatternBased DetectionBasis = "pattern-based"
	BasisFallback     DetectionBasis = "fallback"
	BasisNone         DetectionBasis = "none"
)

// EvidenceItem is one concrete, traceable fact supporting a decision.
// It is never interpreted further downstream.
type EvidenceItem struct {
	FilePath   string `json:"file_path"`
	Reason     string `json:"reason"`
	LineNumber int    `json:"line_number,omitempty"`
}

// String renders the item as "path:line: reason" (line omitted when zero).
func (e EvidenceItem) String() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.LineNumber, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Reason)
}

// RunCommandResult is the outcome of run-command detection.
//
// Invariant: Command is empty iff CommandType == RunNone iff Evidence is
// empty. HasCommand is the single place that states the positive half.
type RunCommandResult struct {
	Command        string         `json:"command,omitempty"`
	CommandType    RunCommandType `json:"command_type"`
	Evidence       []EvidenceItem `json:"evidence"`
	DetectionBasis DetectionBasis `json:"detection_basis"`
}

// HasCommand reports whether detection produced a usable command.
func (r RunCommandResult) HasCommand() bool {
	return r.Command != "" && r.CommandType != RunNone
}

// NoRunCommand is the explicit "no match" sentinel returned by every
// detection step that finds nothing.
func NoRunCommand() RunCommandResult {
	return RunCommandResult{
		CommandType:    RunNone,
		Evidence:       []EvidenceItem{},
		DetectionBasis: BasisNone,
	}
}

// ---------------------------------------------------------------------------
// Report snapshot
// ---------------------------------------------------------------------------

// Report is one complete, immutable analysis snapshot for a project at a
// point in time. It is pure serialization of already-computed results.
type Report struct {
	ReportID           string           `json:"report_id"`
	ToolVersion        string           `json:"tool_version"`
	GeneratedAt        time.Time        `json:"generated_at"`
	ProjectPath        string           `json:"project_path"`
	ProjectType        ProjectType      `json:"project_type"`
	ProjectIntent      ProjectIntent    `json:"project_intent"`
	Capabilities       Capabilities     `json:"capabilities"`
	Checks             []CheckResult    `json:"checks"`
	Recommendations    []Recommendation `json:"recommendations"`
	RunCommand         string           `json:"run_command,omitempty"`
	RunCommandEvidence []string         `json:"run_command_evidence,omitempty"`
}
