package llm

// groq.go — Groq chat-completions client over the OpenAI-compatible API.
//
// Requests carry a fixed system prompt and low temperature so the phrasing
// stays close to the deterministic facts it is given. Rate-limit responses
// are retried with backoff; every other failure is surfaced once.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	groqBaseURL  = "https://api.groq.com/openai/v1"
	groqModel    = "llama-3.1-8b-instant"
	groqTimeout  = 8 * time.Second
	systemPrompt = "You are a technical assistant that explains development commands. " +
		"Provide clear, concise explanations in 3-6 lines. " +
		"Do not speculate or add information beyond what is provided. " +
		"Focus on what the command does, not recommendations."
)

// GroqClient talks to the Groq chat-completions endpoint.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewGroqClient builds a client reading the key from GROQ_API_KEY when
// apiKey is empty. An unconfigured client is valid; it just reports
// unavailable.
func NewGroqClient(apiKey string) *GroqClient {
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	return &GroqClient{
		apiKey:  apiKey,
		model:   groqModel,
		baseURL: groqBaseURL,
		http:    &http.Client{Timeout: groqTimeout},
	}
}

// Available reports whether an API key is configured.
func (c *GroqClient) Available() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt and returns the first choice's content.
// HTTP 429 is retried with exponential backoff within the context budget.
func (c *GroqClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.Available() {
		return "", &Error{Message: "Groq API key not configured. Set GROQ_API_KEY environment variable.", Err: ErrUnavailable}
	}
	if maxTokens <= 0 {
		maxTokens = 200
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	var content string
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err := c.complete(ctx, body)
		if err != nil {
			return err
		}
		content = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *GroqClient) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Message: "Groq API request failed", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", &Error{Message: "Invalid Groq API key"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", retry.RetryableError(&Error{Message: "Groq API rate limit exceeded"})
	case resp.StatusCode != http.StatusOK:
		return "", &Error{Message: fmt.Sprintf("Groq API error: %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &Error{Message: "malformed Groq API response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Message: "No response from Groq API"}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
