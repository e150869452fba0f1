// Package llm is the optional language-model layer used to phrase
// explanations of detected run commands.
//
// This layer is strictly additive: every deterministic output — reports,
// diffs, policy results, policy explanations — is produced without it, and
// a missing API key or failed call degrades to the deterministic text.
// Nothing in this package ever feeds back into detection or evaluation.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no client is configured.
var ErrUnavailable = errors.New("llm: client not configured")

// Client generates free-text from a prompt. Implementations must be safe
// for concurrent use.
type Client interface {
	// Available reports whether the client is configured and usable.
	Available() bool
	// Generate produces text for the prompt, bounded by maxTokens.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Error wraps a provider failure with a user-facing message.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Message, e.Err)
	}
	return "llm: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
