// Package policy loads declarative rule files, evaluates diffs against
// them, and explains the outcome rule by rule.
//
// Everything in this package is deterministic: evaluation is pure rule
// matching with no scoring, and explanations are fixed templates so the
// same (diff, policy) pair always yields byte-identical output.
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// ruleDoc is the on-disk rule shape. Enabled is a pointer so an omitted
// field defaults to true rather than false.
type ruleDoc struct {
	ID          string               `json:"id" yaml:"id"`
	Description string               `json:"description" yaml:"description"`
	When        schema.RuleCondition `json:"when" yaml:"when"`
	Action      schema.PolicyAction  `json:"action" yaml:"action"`
	Enabled     *bool                `json:"enabled" yaml:"enabled"`
}

type policyDoc struct {
	Version int       `json:"version" yaml:"version"`
	Rules   []ruleDoc `json:"rules" yaml:"rules"`
}

// Load reads a policy file in YAML (.yml/.yaml) or JSON (.json) form.
// Malformed input, unknown fields, and invalid enum values are all load
// errors; no partial policy is ever returned.
func Load(path string) (*schema.PolicyDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var doc policyDoc
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse policy %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse policy %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported policy file format: %s", ext)
	}

	def := &schema.PolicyDefinition{Version: doc.Version}
	for _, r := range doc.Rules {
		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}
		def.Rules = append(def.Rules, schema.PolicyRule{
			ID:          r.ID,
			Description: r.Description,
			When:        r.When,
			Action:      r.Action,
			Enabled:     enabled,
		})
	}

	if err := validate(def); err != nil {
		return nil, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	return def, nil
}

// validate rejects rules with missing ids, duplicate ids, or values
// outside the closed enum sets.
func validate(def *schema.PolicyDefinition) error {
	if len(def.Rules) == 0 {
		return fmt.Errorf("policy defines no rules")
	}
	seen := map[string]bool{}
	for i, rule := range def.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: missing id", i)
		}
		if seen[rule.ID] {
			return fmt.Errorf("rule %q: duplicate id", rule.ID)
		}
		seen[rule.ID] = true
		if !rule.Action.Valid() {
			return fmt.Errorf("rule %q: unknown action %q", rule.ID, rule.Action)
		}
		if rule.When.Section != "" && !rule.When.Section.Valid() {
			return fmt.Errorf("rule %q: unknown section %q", rule.ID, rule.When.Section)
		}
		if rule.When.ChangeType != "" && !rule.When.ChangeType.Valid() {
			return fmt.Errorf("rule %q: unknown change_type %q", rule.ID, rule.When.ChangeType)
		}
	}
	return nil
}
