package policy

// export.go — Evaluation and explanation serialization.

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// WriteEvaluationJSON writes the evaluation result as pretty-printed JSON.
func WriteEvaluationJSON(eval schema.PolicyEvaluationResult, path string) error {
	return writeJSON(eval, path)
}

// WriteExplanationJSON writes the explanation as pretty-printed JSON.
func WriteExplanationJSON(explanation schema.PolicyExplanation, path string) error {
	return writeJSON(explanation, path)
}

func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteExplanationMarkdown writes the rendered explanation document.
func WriteExplanationMarkdown(explanation schema.PolicyExplanation, path string) error {
	return os.WriteFile(path, []byte(ExplanationMarkdown(explanation)), 0o644)
}

// ExplanationMarkdown renders the explanation with one trace per rule.
func ExplanationMarkdown(explanation schema.PolicyExplanation) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("# Policy Explanation")
	w("")
	w("**Overall Status:** %s", explanation.OverallStatus)
	w("**Total Rules:** %d", explanation.TotalRules)
	w("**Rules Evaluated:** %d", explanation.RulesEvaluated)
	w("**Rules Matched:** %d", explanation.RulesMatched)
	w("")

	w("## Rule Evaluation Traces")
	w("")
	for _, trace := range explanation.Rules {
		w("### %s", trace.RuleID)
		w("")
		w("**Description:** %s", trace.Description)
		w("")
		switch {
		case !trace.Evaluated:
			w("**Status:** ⏭ SKIPPED (disabled)")
		case trace.Matched:
			symbol := "⚠"
			if trace.Action == schema.ActionFail {
				symbol = "✗"
			}
			w("**Status:** %s MATCHED (%s)", symbol, trace.Action)
		default:
			w("**Status:** ✓ NOT MATCHED")
		}
		w("")
		w("**Reason:**")
		w("")
		for _, line := range strings.Split(trace.Reason, "\n") {
			w("  %s", line)
		}
		w("")
		if len(trace.MatchedChanges) > 0 {
			w("**Matched Changes:**")
			w("")
			for _, change := range trace.MatchedChanges {
				w("- `%s`", change)
			}
			w("")
		}
	}

	return b.String()
}
