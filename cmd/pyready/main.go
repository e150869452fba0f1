// pyready — deterministic Python project environment checker.
//
// Analysis, diffing, and policy evaluation are fully deterministic; the
// optional --explain layer only rephrases already-computed results.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "check",
		short: "Analyze a project and check its environment",
		usage: "pyready check [path] [--output file.json|file.md] [--explain]",
		long: `Analyze the project at path (default ".") and check its environment.

Detects project type, capabilities, intent, and a recommended run
command; validates Python version, virtual environment, dependencies,
and environment variables.

With --output, exports the full report to JSON or Markdown.
With --explain, adds an AI-assisted explanation of the detected run
command (requires GROQ_API_KEY; never affects the report itself).
`,
		run: runCheck,
	},
	{
		name:  "diff",
		short: "Compare two report snapshots",
		usage: "pyready diff <old.json> <new.json> [--output file] [--policy file] [--explain-policy]",
		long: `Compare two report snapshots and show what changed.

With --policy, evaluates the changes against team-defined rules and
sets the exit code: 0 PASS, 1 WARN, 2 FAIL.
With --explain-policy, traces why each rule did or did not match.
`,
		run: runDiff,
	},
	{
		name:  "explain",
		short: "Answer a question about the project",
		usage: "pyready explain <question> [--path <dir>]",
		long: `Answer a question about the project at --path (default ".").

The question is classified deterministically and matched against
pre-computed artifacts (declared dependencies, detected run command);
source code is never sent to the model. Supported questions:

  • Why is <package> required?
  • What runs when I start the project?
  • What breaks if I remove <file>?
  • Where is <module> used?

Requires GROQ_API_KEY (a .env in the working directory is honored).
`,
		run: runExplain,
	},
	{
		name:  "policy",
		short: "Manage policy files (policy init)",
		usage: "pyready policy init [file]",
		long: `Scaffold a policy file (default .pyready-policy.yml).

Prompts for an initial rule and writes a commented starter policy that
'pyready diff --policy' can evaluate.
`,
		run: runPolicy,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "pyready — Python project environment checker\n\n")
	fmt.Fprintf(w, "Usage:\n  pyready <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'pyready help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "pyready: unknown command %q\n\nRun 'pyready help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'pyready help' for usage.", args[0])
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func main() {
	// A .env in the working directory may carry GROQ_API_KEY.
	_ = godotenv.Load()

	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
