// Package llm provides a minimal completion client over LangChainGo.
// The assistant only needs single-shot completions for intent
// extraction, so the surface is one method.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Client is a single-shot completion client.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// New builds a client for the given provider. API keys come from the
// environment (OPENAI_API_KEY, ANTHROPIC_API_KEY); Ollama needs none.
func New(provider Provider, model, baseURL string) (Client, error) {
	var (
		m   llms.Model
		err error
	)
	switch provider {
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model)}
		if baseURL != "" {
			opts = append(opts, ollama.WithServerURL(baseURL))
		}
		m, err = ollama.New(opts...)
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(model)}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		if token := os.Getenv("OPENAI_API_KEY"); token != "" {
			opts = append(opts, openai.WithToken(token))
		}
		m, err = openai.New(opts...)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(model)}
		if token := os.Getenv("ANTHROPIC_API_KEY"); token != "" {
			opts = append(opts, anthropic.WithToken(token))
		}
		m, err = anthropic.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return &client{model: m}, nil
}

type client struct {
	model llms.Model
}

func (c *client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if system != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, prompt))

	// Extraction wants determinism, not creativity.
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(500),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}
