package policy

// explain.go — Deterministic rule-by-rule tracing of a policy evaluation.
//
// Explanation never re-evaluates: it is a read-only view derived from an
// existing (diff, policy, result) triple. Templates are fixed text, so the
// same inputs always produce character-identical explanations — safe for
// audit logs, snapshot tests, and CI output caching.

import (
	"fmt"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Explain traces every rule in policy file order against the evaluation
// result.
func Explain(diff *schema.DiffReport, def *schema.PolicyDefinition, eval schema.PolicyEvaluationResult) schema.PolicyExplanation {
	matchedKeys := map[string][]string{}
	for _, v := range eval.Violations {
		matchedKeys[v.RuleID] = append(matchedKeys[v.RuleID], v.DiffItem.Key)
	}

	explanation := schema.PolicyExplanation{
		OverallStatus: eval.Status,
		TotalRules:    len(def.Rules),
	}
	for _, rule := range def.Rules {
		trace := traceRule(rule, diff, matchedKeys[rule.ID])
		explanation.Rules = append(explanation.Rules, trace)
		if trace.Evaluated {
			explanation.RulesEvaluated++
		}
		if trace.Matched {
			explanation.RulesMatched++
		}
	}
	return explanation
}

func traceRule(rule schema.PolicyRule, diff *schema.DiffReport, matched []string) schema.RuleTrace {
	if !rule.Enabled {
		return schema.RuleTrace{
			RuleID:         rule.ID,
			Description:    rule.Description,
			MatchedChanges: []string{},
			Reason:         "This rule is disabled in the policy file.",
		}
	}

	if len(matched) > 0 {
		return schema.RuleTrace{
			RuleID:         rule.ID,
			Description:    rule.Description,
			Evaluated:      true,
			Matched:        true,
			Action:         rule.Action,
			MatchedChanges: matched,
			Reason:         explainMatch(rule, matched),
		}
	}

	return schema.RuleTrace{
		RuleID:         rule.ID,
		Description:    rule.Description,
		Evaluated:      true,
		MatchedChanges: []string{},
		Reason:         explainNoMatch(rule, diff),
	}
}

// explainMatch composes the matched-rule reason from the rule's present
// conditions, then lists the triggering change keys.
func explainMatch(rule schema.PolicyRule, matched []string) string {
	cond := rule.When
	var parts []string

	if cond.Section != "" {
		parts = append(parts, fmt.Sprintf("in the '%s' section", cond.Section))
	}
	if cond.Field != "" {
		parts = append(parts, fmt.Sprintf("where the '%s' field", cond.Field))
	}
	switch cond.ChangeType {
	case schema.ChangeAdded:
		parts = append(parts, "was added")
	case schema.ChangeRemoved:
		parts = append(parts, "was removed")
	case schema.ChangeChanged:
		parts = append(parts, "changed")
	}
	switch {
	case cond.FromValues != nil && cond.ToValues != nil:
		parts = append(parts, fmt.Sprintf("from [%s] to [%s]",
			strings.Join(cond.FromValues, " or "), strings.Join(cond.ToValues, " or ")))
	case cond.ToValues != nil:
		parts = append(parts, fmt.Sprintf("to [%s]", strings.Join(cond.ToValues, " or ")))
	case cond.FromValues != nil:
		parts = append(parts, fmt.Sprintf("from [%s]", strings.Join(cond.FromValues, " or ")))
	}

	var reason string
	if len(parts) > 0 {
		reason = "This rule matched because changes were detected " + strings.Join(parts, " ") + "."
	} else {
		reason = "This rule matched based on the specified conditions."
	}

	if len(matched) == 1 {
		return reason + "\n  Triggered by: " + matched[0]
	}
	reason += "\n  Triggered by:"
	for _, key := range matched {
		reason += "\n    - " + key
	}
	return reason
}

// explainNoMatch picks the most specific reason the rule failed to match,
// checked in a fixed order so the text is stable.
func explainNoMatch(rule schema.PolicyRule, diff *schema.DiffReport) string {
	cond := rule.When

	if len(diff.Changes) == 0 {
		return "This rule was evaluated but did not match because no changes were detected."
	}

	if cond.Section != "" {
		any := false
		for _, c := range diff.Changes {
			if c.Section == cond.Section {
				any = true
				break
			}
		}
		if !any {
			return fmt.Sprintf("This rule was evaluated but did not match because no changes were detected in the '%s' section.", cond.Section)
		}
	}

	if cond.ChangeType != "" {
		if cond.Section != "" {
			return fmt.Sprintf("This rule was evaluated but did not match because no '%s' changes were detected in the '%s' section.", cond.ChangeType, cond.Section)
		}
		return fmt.Sprintf("This rule was evaluated but did not match because no '%s' changes were detected.", cond.ChangeType)
	}

	if cond.ToValues != nil {
		toStr := strings.Join(cond.ToValues, " or ")
		if cond.Field != "" {
			return fmt.Sprintf("This rule was evaluated but did not match because no '%s' field changed to [%s].", cond.Field, toStr)
		}
		return fmt.Sprintf("This rule was evaluated but did not match because no changes resulted in [%s].", toStr)
	}

	return "This rule was evaluated but did not match the detected changes."
}
