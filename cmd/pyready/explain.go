package main

// explain.go — The `pyready explain` command: question answering over
// pre-computed artifacts. Classification and artifact selection are
// deterministic; only the final phrasing goes through the model.

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/project"
	"github.com/AdityaMallela041/PyReady/internal/qa"
	"github.com/AdityaMallela041/PyReady/internal/rundetect"
	"github.com/AdityaMallela041/PyReady/internal/schema"
)

func runExplain(args []string) error {
	path := "."
	var words []string

	rest := args
	for len(rest) > 0 {
		switch rest[0] {
		case "--path", "-p":
			if len(rest) < 2 {
				return fmt.Errorf("usage: pyready explain <question> [--path <dir>]")
			}
			path = rest[1]
			rest = rest[2:]
		default:
			words = append(words, rest[0])
			rest = rest[1:]
		}
	}
	// Unquoted questions arrive as multiple arguments; join them back.
	question := strings.TrimSpace(strings.Join(words, " "))
	if question == "" {
		return fmt.Errorf("usage: pyready explain <question> [--path <dir>]")
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !dirExists(root) {
		return fmt.Errorf("directory %q does not exist", path)
	}

	answerer := qa.NewAnswerer(nil)
	if !answerer.Available() {
		fmt.Println()
		red.Println("✖ Error: GROQ_API_KEY environment variable not set")
		fmt.Println()
		fmt.Println("The 'explain' command requires Groq API access.")
		fmt.Println("Set your API key:")
		fmt.Println("  export GROQ_API_KEY='your-key-here'")
		fmt.Println()
		fmt.Println("Get a free API key at: https://console.groq.com/keys")
		fmt.Println()
		return fmt.Errorf("GROQ_API_KEY not set")
	}

	fmt.Println()
	bold.Print("🤔 Question: ")
	cyan.Println(question)
	fmt.Println()

	questionType, entity := qa.Classify(question)
	if questionType == qa.QuestionUnsupported {
		yellow.Println("This question cannot be answered with the available analysis.")
		fmt.Println()
		dim.Println("  Supported question types:")
		fmt.Println("    • Why is <package> required?")
		fmt.Println("    • What runs when I start the project?")
		fmt.Println("    • What breaks if I remove <file>?")
		fmt.Println("    • Where is <module> used?")
		fmt.Println()
		return nil
	}

	dim.Printf("  Question type: %s\n", questionType)
	if entity != "" {
		dim.Printf("  Entity: %s\n", entity)
	}
	fmt.Println()

	var run *schema.RunCommandResult
	if questionType == qa.QuestionWhatRuns {
		result := rundetect.New(root, project.DetectType(root)).Detect()
		run = &result
	}

	artifacts := qa.SelectArtifacts(root, questionType, entity, run)
	if msg := artifacts.Err(); msg != "" {
		yellow.Println(msg)
		fmt.Println()
		return nil
	}

	dim.Println("  Generating answer...")
	fmt.Println()

	answer := answerer.Answer(context.Background(), question, questionType, artifacts)
	if answer == "" {
		yellow.Println("Failed to generate answer")
		fmt.Println()
		return nil
	}

	bold.Println("💡 Answer:")
	fmt.Println()
	for _, line := range strings.Split(answer, "\n") {
		if strings.TrimSpace(line) != "" {
			fmt.Printf("  %s\n", line)
		}
	}
	fmt.Println()
	return nil
}
