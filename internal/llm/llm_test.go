package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

func testClient(serverURL string) *GroqClient {
	return &GroqClient{
		apiKey:  "test-key",
		model:   groqModel,
		baseURL: serverURL,
		http:    &http.Client{Timeout: 2 * time.Second},
	}
}

func chatReply(content string) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return data
}

func TestGenerateUnavailableWithoutKey(t *testing.T) {
	c := &GroqClient{http: http.DefaultClient}
	_, err := c.Generate(context.Background(), "prompt", 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.Messages[1].Content != "explain this" {
			t.Errorf("user prompt = %q", req.Messages[1].Content)
		}
		w.Write(chatReply("  a short explanation \n"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Generate(context.Background(), "explain this", 100)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a short explanation" {
		t.Errorf("content = %q (should be trimmed)", got)
	}
}

func TestGenerateInvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "p", 100)
	if err == nil || !strings.Contains(err.Error(), "Invalid Groq API key") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(chatReply("after retry"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Generate(context.Background(), "p", 100)
	if err != nil {
		t.Fatal(err)
	}
	if got != "after retry" {
		t.Errorf("content = %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGenerateServerErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "p", 100)
	if err == nil || !strings.Contains(err.Error(), "Groq API error: 500") {
		t.Fatalf("err = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1 (500 is not retryable)", calls)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "p", 100)
	if err == nil || !strings.Contains(err.Error(), "No response from Groq API") {
		t.Fatalf("err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Explainer
// ---------------------------------------------------------------------------

type stubClient struct {
	available bool
	reply     string
	err       error
	prompts   []string
}

func (s *stubClient) Available() bool { return s.available }

func (s *stubClient) Generate(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func sampleRun() schema.RunCommandResult {
	return schema.RunCommandResult{
		Command:     "uvicorn main:app --reload",
		CommandType: schema.RunFastAPI,
		Evidence: []schema.EvidenceItem{
			{FilePath: "main.py", Reason: "FastAPI() instance assigned to 'app' variable", LineNumber: 2},
		},
		DetectionBasis: schema.BasisPatternBased,
	}
}

func TestExplainRunCommand(t *testing.T) {
	stub := &stubClient{available: true, reply: "runs the API server"}
	e := NewExplainer(stub)
	got := e.ExplainRunCommand(context.Background(), sampleRun(), "demo")
	if got != "runs the API server" {
		t.Fatalf("explanation = %q", got)
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("prompts = %v", stub.prompts)
	}
	prompt := stub.prompts[0]
	for _, want := range []string{
		"for the 'demo' project",
		"Command: uvicorn main:app --reload",
		"- main.py: FastAPI() instance assigned to 'app' variable",
		"Command type: fastapi",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExplainNoCommandUsesFallbackPrompt(t *testing.T) {
	stub := &stubClient{available: true, reply: "nothing was found"}
	e := NewExplainer(stub)
	e.ExplainRunCommand(context.Background(), schema.NoRunCommand(), "demo")
	if len(stub.prompts) != 1 || stub.prompts[0] != noCommandPrompt {
		t.Fatalf("prompts = %v", stub.prompts)
	}
}

func TestExplainFailureIsEmpty(t *testing.T) {
	stub := &stubClient{available: true, err: errors.New("boom")}
	e := NewExplainer(stub)
	if got := e.ExplainRunCommand(context.Background(), sampleRun(), ""); got != "" {
		t.Fatalf("explanation = %q, want empty on error", got)
	}
}

func TestExplainUnavailableIsEmpty(t *testing.T) {
	stub := &stubClient{}
	e := NewExplainer(stub)
	if got := e.ExplainRunCommand(context.Background(), sampleRun(), ""); got != "" {
		t.Fatalf("explanation = %q, want empty when unavailable", got)
	}
	if len(stub.prompts) != 0 {
		t.Error("unavailable client must not be called")
	}
}
