package main

// diff.go — The `pyready diff` command: snapshot comparison with optional
// policy evaluation and explanation.
//
// Exit code contract for CI: 0 PASS, 1 WARN, 2 FAIL. Load failures are
// FAIL — a diff or policy run never proceeds on partial data.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/AdityaMallela041/PyReady/internal/diff"
	"github.com/AdityaMallela041/PyReady/internal/policy"
	"github.com/AdityaMallela041/PyReady/internal/report"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

func runDiff(args []string) error {
	var positional []string
	var output, policyPath string
	var explainPolicy bool

	rest := args
	for len(rest) > 0 {
		switch rest[0] {
		case "--output", "-o":
			if len(rest) < 2 {
				return fmt.Errorf("usage: pyready diff <old> <new> --output <file>")
			}
			output = rest[1]
			rest = rest[2:]
		case "--policy", "-p":
			if len(rest) < 2 {
				return fmt.Errorf("usage: pyready diff <old> <new> --policy <file>")
			}
			policyPath = rest[1]
			rest = rest[2:]
		case "--explain-policy":
			explainPolicy = true
			rest = rest[1:]
		default:
			positional = append(positional, rest[0])
			rest = rest[1:]
		}
	}

	if len(positional) != 2 {
		return fmt.Errorf("usage: pyready diff <old.json> <new.json>")
	}
	if explainPolicy && policyPath == "" {
		fmt.Fprintln(os.Stderr, "Warning: --explain-policy requires --policy flag")
		fmt.Fprintln(os.Stderr, "Ignoring --explain-policy")
		explainPolicy = false
	}

	oldReport, err := report.Load(positional[0])
	if err != nil {
		red.Fprintf(os.Stderr, "Error loading old report: %v\n", err)
		os.Exit(2)
	}
	newReport, err := report.Load(positional[1])
	if err != nil {
		red.Fprintf(os.Stderr, "Error loading new report: %v\n", err)
		os.Exit(2)
	}

	d := diff.Reports(oldReport, newReport)
	displayDiffSummary(d)

	if output != "" {
		if err := exportDiff(d, output); err != nil {
			red.Fprintf(os.Stderr, "Error exporting diff: %v\n", err)
		}
	}

	if policyPath == "" {
		return nil
	}

	def, err := policy.Load(policyPath)
	if err != nil {
		red.Fprintf(os.Stderr, "Error evaluating policy: %v\n", err)
		os.Exit(2)
	}
	result := policy.Evaluate(d, def)

	fmt.Println()
	displayPolicyResult(result)

	if explainPolicy {
		explanation := policy.Explain(d, def, result)
		fmt.Println()
		displayPolicyExplanation(explanation)
	}

	if code := result.Status.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

func exportDiff(d *schema.DiffReport, output string) error {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		if err := diff.WriteJSON(d, output); err != nil {
			return err
		}
	case ".md":
		if err := diff.WriteMarkdown(d, output); err != nil {
			return err
		}
	default:
		yellow.Printf("\n⚠ Unsupported format: %s\n", filepath.Ext(output))
		fmt.Println("  Supported formats: .json, .md")
		return nil
	}
	fmt.Println()
	green.Print("✓ Diff exported to: ")
	fmt.Println(output)
	return nil
}

// ---------------------------------------------------------------------------
// Display
// ---------------------------------------------------------------------------

var diffSectionTitles = map[schema.DiffSection]string{
	schema.SectionCapabilities:    "📦 Capability Changes",
	schema.SectionIntent:          "🎯 Intent Changes",
	schema.SectionChecks:          "✓ Check Changes",
	schema.SectionRecommendations: "💡 Recommendation Changes",
	schema.SectionRunCommand:      "▶ Run Command Changes",
}

func displayDiffSummary(d *schema.DiffReport) {
	fmt.Println()
	bold.Println("📊 Diff Summary")
	fmt.Print("From: ")
	cyan.Println(d.FromReport)
	fmt.Print("To:   ")
	cyan.Println(d.ToReport)
	fmt.Println()

	if len(d.Changes) == 0 {
		green.Print("✓ No changes detected")
		fmt.Println(" - reports are identical.")
		return
	}

	fmt.Print("Total changes: ")
	yellow.Printf("%d\n\n", len(d.Changes))

	for _, section := range schema.SectionOrder {
		var items []schema.DiffItem
		for _, change := range d.Changes {
			if change.Section == section {
				items = append(items, change)
			}
		}
		if len(items) == 0 {
			continue
		}

		bold.Println(diffSectionTitles[section])
		for _, change := range items {
			changeColor(change.ChangeType).Printf("  %s ", changeSymbol(change.ChangeType))
			fmt.Println(change.Key)
			if change.Before != nil {
				dim.Printf("    Before: %s\n", *change.Before)
			}
			if change.After != nil {
				dim.Printf("    After:  %s\n", *change.After)
			}
		}
		fmt.Println()
	}
}

func displayPolicyResult(result schema.PolicyEvaluationResult) {
	switch result.Status {
	case schema.PolicyPass:
		green.Println("🟢 Policy Evaluation: PASS")
		fmt.Printf("  %d rules evaluated, %d changes checked\n", result.RulesEvaluated, result.ChangesChecked)
		fmt.Println("  No violations detected")
	case schema.PolicyWarn:
		yellow.Println("🟡 Policy Evaluation: WARN")
		fmt.Printf("  %d rules evaluated, %d changes checked\n", result.RulesEvaluated, result.ChangesChecked)
		fmt.Printf("  %d warning(s) detected\n\n", len(result.Violations))
		displayViolations(result.Violations)
	case schema.PolicyFail:
		red.Println("🛑 Policy Evaluation: FAIL")
		fmt.Printf("  %d rules evaluated, %d changes checked\n", result.RulesEvaluated, result.ChangesChecked)
		fmt.Printf("  %d violation(s) detected\n\n", len(result.Violations))
		displayViolations(result.Violations)
	}
}

func displayViolations(violations []schema.PolicyViolation) {
	bold.Println("Violations:")
	fmt.Println()

	for _, v := range violations {
		c, symbol := yellow, "⚠"
		if v.Action == schema.ActionFail {
			c, symbol = red, "✖"
		}
		c.Printf("  %s %s\n", symbol, v.RuleID)
		fmt.Printf("    %s\n", v.RuleDescription)
		fmt.Print("    Change: ")
		cyan.Println(v.DiffItem.Key)
		if v.DiffItem.Before != nil {
			dim.Printf("    Before: %s\n", *v.DiffItem.Before)
		}
		if v.DiffItem.After != nil {
			dim.Printf("    After:  %s\n", *v.DiffItem.After)
		}
		fmt.Println()
	}
}

func displayPolicyExplanation(explanation schema.PolicyExplanation) {
	bold.Println("📖 Policy Explanation")
	fmt.Printf("  %d of %d rules matched\n\n", explanation.RulesMatched, explanation.RulesEvaluated)

	for _, trace := range explanation.Rules {
		bold.Printf("Rule: %s\n", trace.RuleID)
		switch {
		case !trace.Evaluated:
			dim.Println("  Status: ⏭ SKIPPED (disabled)")
		case trace.Matched && trace.Action == schema.ActionFail:
			red.Printf("  Status: ✖ MATCHED (%s)\n", trace.Action)
		case trace.Matched:
			yellow.Printf("  Status: ⚠ MATCHED (%s)\n", trace.Action)
		default:
			green.Println("  Status: ✓ NOT MATCHED")
		}
		fmt.Println("  Reason:")
		for _, line := range strings.Split(trace.Reason, "\n") {
			if strings.TrimSpace(line) != "" {
				dim.Printf("    %s\n", line)
			}
		}
		fmt.Println()
	}
}

func changeSymbol(t schema.ChangeType) string {
	switch t {
	case schema.ChangeAdded:
		return "+"
	case schema.ChangeRemoved:
		return "-"
	default:
		return "~"
	}
}

func changeColor(t schema.ChangeType) *color.Color {
	switch t {
	case schema.ChangeAdded:
		return green
	case schema.ChangeRemoved:
		return red
	default:
		return yellow
	}
}
