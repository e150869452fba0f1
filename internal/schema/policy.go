package schema

// policy.go — Declarative policy rules, evaluation results, and the derived
// explanation view. PolicyExplanation is always recomputed from an existing
// (diff, policy, result) triple; it has no independent lifecycle.

// PolicyAction is what a matched rule demands.
type PolicyAction string

const (
	ActionFail PolicyAction = "FAIL"
	ActionWarn PolicyAction = "WARN"
)

// Valid reports whether a is one of the closed PolicyAction values.
func (a PolicyAction) Valid() bool {
	return a == ActionFail || a == ActionWarn
}

// PolicyStatus is the overall outcome of a policy evaluation.
// Precedence: FAIL > WARN > PASS.
type PolicyStatus string

const (
	PolicyPass PolicyStatus = "PASS"
	PolicyWarn PolicyStatus = "WARN"
	PolicyFail PolicyStatus = "FAIL"
)

// RuleCondition holds the optional matchers of a rule. An absent matcher is
// a wildcard; a rule matches a diff item only when every present matcher
// holds (AND logic).
//
// Zero values mean "absent" for the string fields; nil slices mean "absent"
// for the value lists (an explicitly empty list matches nothing).
type RuleCondition struct {
	Section    DiffSection `json:"section,omitempty" yaml:"section,omitempty"`
	Key        string      `json:"key,omitempty" yaml:"key,omitempty"`
	ChangeType ChangeType  `json:"change_type,omitempty" yaml:"change_type,omitempty"`
	Field      string      `json:"field,omitempty" yaml:"field,omitempty"`
	FromValues []string    `json:"from,omitempty" yaml:"from,omitempty"`
	ToValues   []string    `json:"to,omitempty" yaml:"to,omitempty"`
}

// PolicyRule is one declarative condition-to-action mapping.
type PolicyRule struct {
	ID          string        `json:"id" yaml:"id"`
	Description string        `json:"description" yaml:"description"`
	When        RuleCondition `json:"when" yaml:"when"`
	Action      PolicyAction  `json:"action" yaml:"action"`
	Enabled     bool          `json:"enabled" yaml:"enabled"`
}

// PolicyDefinition is a complete, validated policy file.
type PolicyDefinition struct {
	Version int          `json:"version" yaml:"version"`
	Rules   []PolicyRule `json:"rules" yaml:"rules"`
}

// PolicyViolation is one concrete (rule, diff item) match.
type PolicyViolation struct {
	RuleID          string       `json:"rule_id"`
	RuleDescription string       `json:"rule_description"`
	Action          PolicyAction `json:"action"`
	DiffItem        DiffItem     `json:"diff_item"`
}

// PolicyEvaluationResult is the outcome of evaluating a diff against a
// policy. Status is a pure function of the violation set.
type PolicyEvaluationResult struct {
	Status         PolicyStatus      `json:"status"`
	Violations     []PolicyViolation `json:"violations"`
	RulesEvaluated int               `json:"rules_evaluated"`
	ChangesChecked int               `json:"changes_checked"`
}

// ExitCode maps the status to a process exit code: PASS→0, WARN→1, FAIL→2.
func (s PolicyStatus) ExitCode() int {
	switch s {
	case PolicyFail:
		return 2
	case PolicyWarn:
		return 1
	default:
		return 0
	}
}

// RuleTrace explains what happened when one rule was checked against the
// diff: whether it ran, whether it matched, and why — in fixed template
// text so the same inputs always yield character-identical traces.
type RuleTrace struct {
	RuleID         string       `json:"rule_id"`
	Description    string       `json:"description"`
	Evaluated      bool         `json:"evaluated"`
	Matched        bool         `json:"matched"`
	Action         PolicyAction `json:"action,omitempty"`
	MatchedChanges []string     `json:"matched_changes"`
	Reason         string       `json:"reason"`
}

// PolicyExplanation is the full re-derived trace of a policy evaluation,
// one RuleTrace per rule in original policy file order.
type PolicyExplanation struct {
	OverallStatus  PolicyStatus `json:"overall_status"`
	TotalRules     int          `json:"total_rules"`
	RulesEvaluated int          `json:"rules_evaluated"`
	RulesMatched   int          `json:"rules_matched"`
	Rules          []RuleTrace  `json:"rules"`
}
