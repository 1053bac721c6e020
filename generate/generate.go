// Package generate defines the generation backend abstraction consumed by
// the orchestrator. The backend is an opaque capability: given a prompt
// and sampling settings it asynchronously returns refined text or fails.
// Provider adapters live in the anthropic and openai subpackages; a mock
// implementation is provided for tests and examples.
package generate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/promptforge/refinery/core"
)

// Request captures one generation call.
type Request struct {
	// Prompt is the fully rendered prompt text.
	Prompt string `json:"prompt"`
	// Temperature is the sampling temperature for this call.
	Temperature float64 `json:"temperature"`
	// Capabilities lists backend features the caller permits (closed set
	// defined by core.Capability).
	Capabilities []string `json:"capabilities,omitempty"`
	// MaxTokens optionally caps the completion length (0 = provider default).
	MaxTokens int64 `json:"max_tokens,omitempty"`
}

// Result is the outcome of a successful generation call.
type Result struct {
	Text  string           `json:"text"`
	Usage *core.TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Generator is the minimal interface the orchestrator requires from a
// generation backend. Implementations must respect context cancellation;
// the caller supplies its own timeout.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)

	// Info returns information about the generator implementation.
	Info() Info
}

// GeneratorFunc adapts a function to the Generator interface. Handy for
// tests and small integrations.
type GeneratorFunc func(ctx context.Context, req Request) (*Result, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Info implements Generator.
func (f GeneratorFunc) Info() Info { return Info{Name: "func", Provider: "func"} }

// MockGenerator is a lightweight in-memory Generator useful for tests and
// examples. Responses can be registered per prompt; unmatched prompts get
// a deterministic echo.
type MockGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	latency   time.Duration
	calls     int
}

// NewMockGenerator constructs an empty MockGenerator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockGenerator) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent call return err.
func (m *MockGenerator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetLatency adds an artificial delay before each response.
func (m *MockGenerator) SetLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
}

// Calls returns the number of Generate invocations so far.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	latency := m.latency
	text, ok := m.responses[req.Prompt]
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(latency):
		}
	}

	if err != nil {
		return nil, err
	}

	if !ok {
		text = fmt.Sprintf("Mock refinement of: %s", req.Prompt)
	}

	return &Result{
		Text: text,
		Usage: &core.TokenUsage{
			PromptTokens:     len(req.Prompt) / 4,
			CompletionTokens: len(text) / 4,
			TotalTokens:      (len(req.Prompt) + len(text)) / 4,
		},
	}, nil
}

// Info implements Generator.
func (m *MockGenerator) Info() Info { return Info{Name: "mock", Provider: "mock"} }
