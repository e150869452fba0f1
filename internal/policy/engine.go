package policy

// engine.go — Pure rule matching over a diff's change list.
//
// Violation order follows the diff's change order (outer loop) then policy
// file rule order (inner loop), so evaluation output is as stable as its
// inputs.

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Evaluate checks every diff change against every enabled rule and
// derives the overall status from the violation set: FAIL if any matched
// rule demands FAIL, WARN if anything matched at all, PASS otherwise.
func Evaluate(diff *schema.DiffReport, def *schema.PolicyDefinition) schema.PolicyEvaluationResult {
	var enabled []schema.PolicyRule
	for _, rule := range def.Rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}

	var violations []schema.PolicyViolation
	for _, item := range diff.Changes {
		for _, rule := range enabled {
			if ruleMatches(rule, item) {
				violations = append(violations, schema.PolicyViolation{
					RuleID:          rule.ID,
					RuleDescription: rule.Description,
					Action:          rule.Action,
					DiffItem:        item,
				})
			}
		}
	}

	status := schema.PolicyPass
	for _, v := range violations {
		if v.Action == schema.ActionFail {
			status = schema.PolicyFail
			break
		}
		status = schema.PolicyWarn
	}

	return schema.PolicyEvaluationResult{
		Status:         status,
		Violations:     violations,
		RulesEvaluated: len(enabled),
		ChangesChecked: len(diff.Changes),
	}
}

// ruleMatches applies AND logic over the rule's present conditions; an
// absent condition is a wildcard.
func ruleMatches(rule schema.PolicyRule, item schema.DiffItem) bool {
	cond := rule.When

	if cond.Section != "" && item.Section != cond.Section {
		return false
	}

	if cond.Key != "" {
		ok, err := doublestar.Match(cond.Key, item.Key)
		if err != nil || !ok {
			return false
		}
	}

	if cond.ChangeType != "" && item.ChangeType != cond.ChangeType {
		return false
	}

	// Field names are embedded in keys, e.g. "Dependencies_status".
	if cond.Field != "" && !strings.HasSuffix(item.Key, "_"+cond.Field) {
		return false
	}

	if cond.FromValues != nil {
		if item.Before == nil || !containsValue(cond.FromValues, extractValue(*item.Before)) {
			return false
		}
	}

	if cond.ToValues != nil {
		if item.After == nil || !containsValue(cond.ToValues, extractValue(*item.After)) {
			return false
		}
	}

	return true
}

func containsValue(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// extractValue pulls the comparable value out of a diff's human string:
// a bare token is returned verbatim, "key: value" yields the trimmed part
// after the first colon, and anything else yields its last token.
func extractValue(s string) string {
	if !strings.ContainsAny(s, " :") {
		return s
	}
	if _, after, ok := strings.Cut(s, ":"); ok {
		return strings.TrimSpace(after)
	}
	fields := strings.Fields(s)
	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return s
}
