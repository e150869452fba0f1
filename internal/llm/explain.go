package llm

// explain.go — Phrasing of already-determined run-command results.
//
// The generator never decides or discovers anything: the prompt carries
// only facts the detector already produced, and a failed call returns an
// empty explanation rather than an error the CLI would have to handle.

import (
	"context"
	"fmt"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// Explainer turns detection results into short natural-language
// explanations through a Client.
type Explainer struct {
	client Client
}

// NewExplainer wraps the client; a nil client defaults to Groq.
func NewExplainer(client Client) *Explainer {
	if client == nil {
		client = NewGroqClient("")
	}
	return &Explainer{client: client}
}

// Available reports whether explanations can be generated.
func (e *Explainer) Available() bool {
	return e.client.Available()
}

// ExplainRunCommand phrases the detection result. Generation failure
// yields "", never an error; the deterministic output already said
// everything that matters.
func (e *Explainer) ExplainRunCommand(ctx context.Context, result schema.RunCommandResult, projectName string) string {
	if !e.Available() {
		return ""
	}

	var prompt string
	var maxTokens int
	if result.HasCommand() {
		prompt = buildCommandPrompt(result, projectName)
		maxTokens = 200
	} else {
		prompt = noCommandPrompt
		maxTokens = 150
	}

	text, err := e.client.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return ""
	}
	return text
}

func buildCommandPrompt(result schema.RunCommandResult, projectName string) string {
	projectContext := ""
	if projectName != "" {
		projectContext = fmt.Sprintf(" for the '%s' project", projectName)
	}

	evidenceText := "No additional evidence"
	if len(result.Evidence) > 0 {
		var lines []string
		for _, e := range result.Evidence {
			lines = append(lines, fmt.Sprintf("- %s: %s", e.FilePath, e.Reason))
		}
		evidenceText = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Explain this command%s in 3-6 lines for a developer:

Command: %s

Evidence:
%s

Command type: %s

Provide a clear, technical explanation of:
1. What this command does
2. What the key flags/options mean (if any)
3. When this command is typically used

Do not add recommendations or speculate beyond what is shown above.`,
		projectContext, result.Command, evidenceText, result.CommandType)
}

const noCommandPrompt = `Explain in 3-4 lines why a Python project might not have a detectable run command, and what a developer should check:

The automated detection looked for:
- Poetry scripts in pyproject.toml
- FastAPI applications (app = FastAPI())
- Flask applications (app = Flask(__name__))
- Python files with if __name__ == "__main__"

None of these patterns were found.

Keep the explanation practical and actionable.`
