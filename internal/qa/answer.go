package qa

// answer.go — Model-phrased answers over selected artifacts. The prompt is
// the only bridge between artifacts and the model: no file paths to read,
// no source code, only the JSON bundle and the question.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AdityaMallela041/PyReady/internal/llm"
)

const answerMaxTokens = 300

// Answerer phrases answers from artifacts through an llm.Client.
type Answerer struct {
	client llm.Client
}

// NewAnswerer wraps the client; a nil client defaults to Groq.
func NewAnswerer(client llm.Client) *Answerer {
	if client == nil {
		client = llm.NewGroqClient("")
	}
	return &Answerer{client: client}
}

// Available reports whether answers can be generated.
func (a *Answerer) Available() bool {
	return a.client.Available()
}

// Answer phrases the artifacts into a response. An artifact-level error is
// reported deterministically without a model call; a model failure yields
// "", never an error the CLI would have to handle.
func (a *Answerer) Answer(ctx context.Context, question string, qt QuestionType, artifacts Artifacts) string {
	if !a.Available() {
		return ""
	}
	if msg := artifacts.Err(); msg != "" {
		return "Cannot answer: " + msg
	}

	text, err := a.client.Generate(ctx, buildAnswerPrompt(question, qt, artifacts), answerMaxTokens)
	if err != nil {
		return ""
	}
	return text
}

func buildAnswerPrompt(question string, qt QuestionType, artifacts Artifacts) string {
	artifactsJSON, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		artifactsJSON = []byte("{}")
	}
	return fmt.Sprintf("%s\n\n%s\n\nQuestion: %s\n\nAvailable Artifacts:\n%s\n\nGenerate your answer now:",
		baseAnswerRules, typeInstructions(qt), question, artifactsJSON)
}

const baseAnswerRules = `You are a technical assistant answering questions about a Python project.

CRITICAL RULES:
1. Use ONLY the provided artifacts below
2. Do NOT speculate or infer missing information
3. If artifacts don't contain enough information, say "Not enough information in the analysis"
4. Cite specific artifact fields in your answer
5. Format your answer as:

   Answer:
   <2-4 line factual explanation>

   Evidence:
   - <artifact>: <fact>
   - <artifact>: <fact>

6. Do NOT provide opinions or recommendations`

func typeInstructions(qt QuestionType) string {
	switch qt {
	case QuestionWhyRequired:
		return `Question type: "Why is X required?"

Check if the package appears in:
- dependencies (production)
- dev_dependencies (development only)

If found, explain its typical use case based on package name only.
If not found, state it's not listed as a dependency.`

	case QuestionWhatRuns:
		return `Question type: "What runs when I start the project?"

Explain:
1. The detected run command
2. What the command does (based on command_type)
3. The entry point (based on evidence)

Use only the provided run_command, command_type, and evidence fields.`

	case QuestionWhatBreaks:
		return `Question type: "What breaks if I remove X?"

Check if package is in dependencies.
If yes: State it's a direct dependency and may be used by the application.
If no: State it's not a declared dependency.

Do NOT scan code to find usage - only check dependency declarations.`

	case QuestionWhereUsed:
		return `Question type: "Where is X used?"

Check if package is in dependencies.
If yes: State it's declared as a dependency.
If no: State it's not found in dependencies.

IMPORTANT: You do NOT have access to source code or import information.
Only report what's in the dependency declarations.`

	default:
		return "This question type is not supported."
	}
}
