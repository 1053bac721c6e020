// Package openai provides a generation backend for the OpenAI Chat
// Completions API. It adapts the normalized generate.Request into the
// SDK's message format and back.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/generate"
)

// Options configure the OpenAI generator adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	MaxCompletionTokens int64
	// System is an optional system prompt prepended to every call.
	System string
}

// Generator wraps the OpenAI Chat Completions API behind the generic
// generate.Generator interface.
type Generator struct {
	client *openai.Client
	opts   Options
}

// NewGenerator creates a new OpenAI generator using the official client
func NewGenerator(optFns ...func(o *Options)) *Generator {
	client := openai.NewClient()
	return NewGeneratorFromClient(&client, optFns...)
}

// NewGeneratorFromClient creates a new OpenAI generator from an existing client
func NewGeneratorFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements generate.Generator. Capabilities are surfaced to the
// model as a system hint; there is no tool runtime at this layer.
func (g *Generator) Generate(ctx context.Context, req generate.Request) (*generate.Result, error) {
	maxTokens := g.opts.MaxCompletionTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if system := g.buildSystem(req); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               g.opts.Model,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api error: empty choices")
	}

	return &generate.Result{
		Text: resp.Choices[0].Message.Content,
		Usage: &core.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (g *Generator) buildSystem(req generate.Request) string {
	parts := make([]string, 0, 2)
	if g.opts.System != "" {
		parts = append(parts, g.opts.System)
	}
	if len(req.Capabilities) > 0 {
		parts = append(parts, "Permitted workspace capabilities: "+strings.Join(req.Capabilities, ", "))
	}
	return strings.Join(parts, "\n\n")
}

// Info returns metadata describing this OpenAI generator implementation.
func (g *Generator) Info() generate.Info {
	return generate.Info{
		Name:     g.opts.Model,
		Provider: "openai",
	}
}
