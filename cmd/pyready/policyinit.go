package main

// policyinit.go — The `pyready policy init` command: interactive policy
// scaffolding. Prompts for the first rule and writes a commented starter
// file that `pyready diff --policy` accepts as-is.

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AdityaMallela041/PyReady/internal/policy"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

const defaultPolicyFile = ".pyready-policy.yml"

func runPolicy(args []string) error {
	if len(args) < 1 || args[0] != "init" {
		return fmt.Errorf("usage: pyready policy init [file]")
	}

	path := defaultPolicyFile
	if len(args) >= 2 {
		path = args[1]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("policy file %s already exists", path)
	}

	answers, err := promptQuestions([]promptQuestion{
		{Key: "id", Prompt: "Rule id (e.g. no-new-failures)"},
		{Key: "description", Prompt: "Rule description"},
		{Key: "action", Prompt: "Action on match (FAIL or WARN)"},
	})
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	def := starterPolicy(answers["id"], answers["description"], answers["action"])
	if err := writePolicyFile(def, path); err != nil {
		return err
	}

	// Round-trip through the loader so a scaffold that would not load is
	// caught here, not at diff time.
	if _, err := policy.Load(path); err != nil {
		return fmt.Errorf("generated policy failed validation: %w", err)
	}

	green.Print("✓ Policy written to: ")
	fmt.Println(path)
	fmt.Println()
	fmt.Println("Evaluate it with:")
	cyan.Printf("  pyready diff old.json new.json --policy %s\n", path)
	return nil
}

// starterPolicy builds a one-rule policy from the prompt answers, falling
// back to a check-regression rule when answers are blank.
func starterPolicy(id, description, action string) *schema.PolicyDefinition {
	if id == "" {
		id = "no-new-failures"
	}
	if description == "" {
		description = "Fail when any environment check starts failing"
	}
	act := schema.PolicyAction(strings.ToUpper(strings.TrimSpace(action)))
	if !act.Valid() {
		act = schema.ActionFail
	}

	return &schema.PolicyDefinition{
		Version: 1,
		Rules: []schema.PolicyRule{{
			ID:          id,
			Description: description,
			When: schema.RuleCondition{
				Section:  schema.SectionChecks,
				Field:    "status",
				ToValues: []string{"FAIL"},
			},
			Action:  act,
			Enabled: true,
		}},
	}
}

func writePolicyFile(def *schema.PolicyDefinition, path string) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return err
	}
	header := `# pyready policy file.
# Each rule matches diff changes (AND over the conditions under "when")
# and demands FAIL or WARN. Exit codes: PASS=0, WARN=1, FAIL=2.
`
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
