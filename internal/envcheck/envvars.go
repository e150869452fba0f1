package envcheck

// envvars.go — Environment variable verification against declared
// templates.
//
// Required variables come from .env.example / .env.template, including
// commented-out placeholder lines, which templates commonly use. Actual
// values come from .env. Only names are compared; values are never
// inspected or reported.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// checkEnvVars validates .env against the declared templates. Absence of
// any env file at all is a PASS: no requirement exists to violate.
func checkEnvVars(root string) schema.CheckResult {
	envPath := filepath.Join(root, ".env")
	hasEnv := dirEntryExists(envPath)
	required := requiredEnvVars(root)

	if !hasEnv && len(required) == 0 {
		return schema.CheckResult{
			Category: CategoryEnvVars,
			Status:   schema.StatusPass,
			Message:  "Environment variables: no requirements found",
			Details:  "No .env, .env.example, or .env.template files found",
		}
	}

	if hasEnv && len(required) == 0 {
		set := envVarNames(envPath)
		return schema.CheckResult{
			Category: CategoryEnvVars,
			Status:   schema.StatusPass,
			Message:  fmt.Sprintf("Environment variables: .env found with %d variables", len(set)),
			Details:  "No .env.example or .env.template to validate against",
		}
	}

	if !hasEnv {
		return schema.CheckResult{
			Category:   CategoryEnvVars,
			Status:     schema.StatusFail,
			Message:    "Environment variables: .env file missing",
			Details:    fmt.Sprintf("Found %d required variables in .env.example/.env.template but .env not found", len(required)),
			FixCommand: envVarsFixCommand(required),
		}
	}

	set := envVarNames(envPath)
	var missing []string
	for _, v := range required {
		if !set[v] {
			missing = append(missing, v)
		}
	}

	if len(missing) == 0 {
		return schema.CheckResult{
			Category: CategoryEnvVars,
			Status:   schema.StatusPass,
			Message:  fmt.Sprintf("Environment variables: all %d variables set in .env", len(required)),
		}
	}
	return schema.CheckResult{
		Category:   CategoryEnvVars,
		Status:     schema.StatusFail,
		Message:    fmt.Sprintf("Environment variables: %d missing from .env", len(missing)),
		Details:    fmt.Sprintf("Missing: %s", formatList(missing, 5)),
		FixCommand: envVarsFixCommand(missing),
	}
}

// requiredEnvVars collects variable names from the template files, sorted.
func requiredEnvVars(root string) []string {
	names := map[string]bool{}
	for _, template := range []string{".env.example", ".env.template"} {
		path := filepath.Join(root, template)
		if !dirEntryExists(path) {
			continue
		}
		for name := range envVarNames(path) {
			names[name] = true
		}
		for name := range commentedVarNames(path) {
			names[name] = true
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// envVarNames parses a dotenv file and returns the declared names.
func envVarNames(path string) map[string]bool {
	names := map[string]bool{}
	values, err := godotenv.Read(path)
	if err != nil {
		return names
	}
	for name := range values {
		names[name] = true
	}
	return names
}

// commentedVarNames picks up `# VAR_NAME=value` placeholder lines that
// dotenv parsing drops as comments.
func commentedVarNames(path string) map[string]bool {
	names := map[string]bool{}
	data, err := os.ReadFile(path)
	if err != nil {
		return names
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		name, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if isEnvVarName(name) {
			names[name] = true
		}
	}
	return names
}

// isEnvVarName reports whether s is a plausible variable name: letters,
// digits, underscores and hyphens only.
func isEnvVarName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '-' || (c >= '0' && c <= '9') ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return false
	}
	return true
}

// envVarsFixCommand phrases the fix for missing variables.
func envVarsFixCommand(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	if len(missing) == 1 {
		return fmt.Sprintf("Set %s in your environment or .env file", missing[0])
	}
	return fmt.Sprintf("Set %d variables in your environment or .env file", len(missing))
}
