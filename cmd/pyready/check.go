package main

// check.go — The `pyready check` command: full analysis pipeline, colored
// terminal output, optional report export.

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/AdityaMallela041/PyReady/internal/envcheck"
	"github.com/AdityaMallela041/PyReady/internal/intent"
	"github.com/AdityaMallela041/PyReady/internal/llm"
	"github.com/AdityaMallela041/PyReady/internal/project"
	"github.com/AdityaMallela041/PyReady/internal/recommend"
	"github.com/AdityaMallela041/PyReady/internal/report"
	"github.com/AdityaMallela041/PyReady/internal/rundetect"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

const rule = "────────────────────────────────────────────────────────────────────────────────"

func runCheck(args []string) error {
	path := "."
	var output string
	var explain bool

	rest := args
	for len(rest) > 0 {
		switch rest[0] {
		case "--output", "-o":
			if len(rest) < 2 {
				return fmt.Errorf("usage: pyready check [path] --output <file>")
			}
			output = rest[1]
			rest = rest[2:]
		case "--explain", "-e":
			explain = true
			rest = rest[1:]
		default:
			path = rest[0]
			rest = rest[1:]
		}
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !dirExists(root) {
		return fmt.Errorf("directory %q does not exist", path)
	}

	projectType := project.DetectType(root)
	displayProjectType(root, projectType)

	caps := project.DetectCapabilities(root)
	displayCapabilities(caps)

	projectIntent, reasoning := intent.Classify(caps, root)
	displayIntent(projectIntent, reasoning)

	checks := envcheck.Run(root, caps)
	displayChecks(checks)

	recs := recommend.Generate(caps, projectIntent, checks)
	displayRecommendations(recs, projectIntent)

	run := rundetect.New(root, projectType).Detect()
	displayRunCommand(run, root, explain)

	if output != "" {
		r := report.New(root, projectType, projectIntent, caps, checks, recs, run)
		if err := exportReport(r, output); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
	}
	return nil
}

func exportReport(r *schema.Report, output string) error {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		if err := report.WriteJSON(r, output); err != nil {
			return err
		}
	case ".md":
		if err := report.WriteMarkdown(r, output); err != nil {
			return err
		}
	default:
		yellow.Printf("\n⚠ Unsupported format: %s\n", filepath.Ext(output))
		fmt.Println("  Supported formats: .json, .md")
		return nil
	}
	fmt.Println()
	green.Print("✓ Report exported to: ")
	fmt.Println(output)
	return nil
}

// ---------------------------------------------------------------------------
// Display
// ---------------------------------------------------------------------------

func displayProjectType(root string, t schema.ProjectType) {
	fmt.Println()
	bold.Print("🔍 Project type detected: ")
	cyan.Println(string(t))
	fmt.Println()
}

var capabilityDisplay = []struct {
	flag  string
	label string
}{
	{"has_python_files", "Python files detected"},
	{"has_dependency_declaration", "Dependency declaration found"},
	{"has_isolated_environment", "Isolated environment (venv)"},
	{"has_reproducible_environment", "Reproducible environment (lock file)"},
	{"has_detectable_entrypoint", "Entry point detectable"},
}

func displayCapabilities(caps schema.Capabilities) {
	bold.Println("📦 Project capabilities:")
	for _, cd := range capabilityDisplay {
		if caps.Flag(cd.flag) {
			green.Printf("  ✔ %s\n", cd.label)
			items := caps.Evidence[cd.flag]
			for i, item := range items {
				if i == 3 {
					dim.Printf("    • ... and %d more\n", len(items)-3)
					break
				}
				dim.Printf("    • %s\n", item)
			}
		} else {
			dim.Printf("  ○ %s: not detected\n", cd.label)
		}
	}
	fmt.Println()
}

func displayIntent(i schema.ProjectIntent, reasoning string) {
	bold.Print("🎯 Project intent: ")
	fmt.Println(string(i))
	dim.Printf("  %s\n\n", reasoning)
}

func displayChecks(checks []schema.CheckResult) {
	for _, check := range checks {
		statusColor(check.Status).Printf("%s %s: ", statusSymbol(check.Status), check.Category)
		fmt.Println(check.Message)
		if check.Details != "" {
			dim.Printf("  %s\n", check.Details)
		}
		if check.FixCommand != "" {
			yellow.Print("  → Suggested fix: ")
			fmt.Printf("%s\n\n", check.FixCommand)
		}
	}

	summary := envcheck.Summarize(checks)
	fmt.Println(rule)
	fmt.Println()
	bold.Println("📊 Summary:")
	fmt.Printf("  Total checks: %d\n", summary.Total)
	green.Printf("  ✔ Passed: %d\n", summary.Passed)
	red.Printf("  ✖ Failed: %d\n", summary.Failed)
	yellow.Printf("  ⚠ Warnings: %d\n", summary.Warnings)
	fmt.Println()
}

func displayRecommendations(recs []schema.Recommendation, i schema.ProjectIntent) {
	fmt.Println(rule)
	fmt.Println()
	bold.Println("💡 Recommendations:")
	fmt.Println()

	if len(recs) == 0 {
		if i == schema.IntentScript {
			dim.Println("  No recommendations — scripts don't require complex setup.")
		} else {
			dim.Println("  No recommendations — project structure looks healthy.")
		}
		fmt.Println()
		return
	}

	for _, rec := range recs {
		cyan.Printf("  • %s\n", rec.Title)
		fmt.Printf("    %s\n", rec.Description)
		dim.Println("    Evidence:")
		for _, item := range rec.Evidence {
			dim.Printf("      - %s\n", item)
		}
		if rec.ExampleCommand != "" {
			yellow.Print("    Example: ")
			fmt.Println(rec.ExampleCommand)
		}
		fmt.Println()
	}
}

func displayRunCommand(run schema.RunCommandResult, root string, explain bool) {
	fmt.Println(rule)
	fmt.Println()
	bold.Println("▶ Recommended run command:")
	fmt.Println()

	if run.HasCommand() {
		cyan.Printf("  %s\n\n", run.Command)
		dim.Println("  Evidence:")
		for _, item := range run.Evidence {
			fmt.Printf("    • %s\n", item)
		}
		fmt.Println()
		dim.Print("  Detection basis: ")
		basisColor(run.DetectionBasis).Println(string(run.DetectionBasis))
	} else {
		yellow.Println("  No safe run command detected.")
		fmt.Println()
		dim.Println("  Possible reasons:")
		fmt.Println("    • No Poetry scripts defined in pyproject.toml")
		fmt.Println("    • No FastAPI/Flask app detected")
		fmt.Println(`    • No if __name__ == "__main__" entry point found`)
		fmt.Println()
		dim.Println("  Manual options:")
		fmt.Println("    • Add a script to pyproject.toml [tool.poetry.scripts]")
		fmt.Println("    • Run specific module: python -m <module>")
		fmt.Println("    • Check README for instructions")
	}

	if explain {
		displayExplanation(run, root)
	}
	fmt.Println()
}

func displayExplanation(run schema.RunCommandResult, root string) {
	explainer := llm.NewExplainer(nil)
	if !explainer.Available() {
		fmt.Println()
		dim.Println("  ℹ Natural language explanations unavailable (GROQ_API_KEY not set)")
		return
	}

	fmt.Println()
	dim.Println("  ℹ Generating explanation...")
	text := explainer.ExplainRunCommand(context.Background(), run, filepath.Base(root))
	if text == "" {
		fmt.Println()
		dim.Println("  ℹ Natural language explanation unavailable")
		return
	}

	fmt.Println()
	cyan.Println("  ℹ Explanation (AI-assisted):")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			fmt.Printf("    %s\n", line)
		}
	}
}

// ---------------------------------------------------------------------------
// Symbols and colors
// ---------------------------------------------------------------------------

func statusSymbol(s schema.CheckStatus) string {
	switch s {
	case schema.StatusPass:
		return "✔"
	case schema.StatusFail:
		return "✖"
	case schema.StatusWarn:
		return "⚠"
	default:
		return "ℹ"
	}
}

func statusColor(s schema.CheckStatus) *color.Color {
	switch s {
	case schema.StatusPass:
		return green
	case schema.StatusFail:
		return red
	case schema.StatusWarn:
		return yellow
	default:
		return cyan
	}
}

func basisColor(b schema.DetectionBasis) *color.Color {
	switch b {
	case schema.BasisExplicit:
		return green
	case schema.BasisPatternBased:
		return cyan
	case schema.BasisFallback:
		return yellow
	default:
		return red
	}
}
