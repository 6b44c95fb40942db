// Package client wraps the eino chat models behind one LLMClient that turns
// corpus chunks into documentation fragments with retry on rate limits.
package client

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Defaults for the retry policy. Overridable per client via Options.
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = time.Second
)

// Options tunes one LLMClient beyond its provider configuration.
type Options struct {
	Attempts  int
	BaseDelay time.Duration
}

func (o *Options) defaults() {
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
}

// LLMClient drives a chat model for fragment generation. Calls are made one
// chunk at a time; the caller owns sequencing.
type LLMClient struct {
	chat      model.BaseChatModel
	provider  string
	modelName string
	attempts  int
	baseDelay time.Duration

	// wait is swapped out by tests to observe backoff without sleeping.
	wait func(ctx context.Context, d time.Duration) error
}

func newLLMClient(chat model.BaseChatModel, provider, modelName string, opts Options) *LLMClient {
	opts.defaults()
	return &LLMClient{
		chat:      chat,
		provider:  provider,
		modelName: modelName,
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
		wait:      waitFor,
	}
}

func waitFor(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Provider returns the provider id the client was built for.
func (c *LLMClient) Provider() string { return c.provider }

// ModelName returns the provider-side model name.
func (c *LLMClient) ModelName() string { return c.modelName }

// OpenAIModelOptions configures NewOpenAIClient.
type OpenAIModelOptions struct {
	Model string
	Options
}

// NewOpenAIClient builds an LLMClient over the OpenAI chat API.
func NewOpenAIClient(ctx context.Context, key string, opts OpenAIModelOptions) (*LLMClient, error) {
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: key,
		Model:  opts.Model,
	})
	if err != nil {
		log.Printf("Error creating OpenAI client: %v", err)
		return nil, err
	}
	return newLLMClient(chat, "openai", opts.Model, opts.Options), nil
}

// ClaudeModelOptions configures NewClaudeClient.
type ClaudeModelOptions struct {
	Model     string
	MaxTokens int
	Options
}

// NewClaudeClient builds an LLMClient over the Anthropic messages API.
func NewClaudeClient(ctx context.Context, key string, opts ClaudeModelOptions) (*LLMClient, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	chat, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    key,
		Model:     opts.Model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		log.Printf("Error creating Claude client: %v", err)
		return nil, err
	}
	return newLLMClient(chat, "anthropic", opts.Model, opts.Options), nil
}

// GeminiModelOptions configures NewGeminiClient.
type GeminiModelOptions struct {
	Model string
	Options
}

// NewGeminiClient builds an LLMClient over the Gemini API.
func NewGeminiClient(ctx context.Context, key string, opts GeminiModelOptions) (*LLMClient, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return nil, err
	}
	chat, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: gc,
		Model:  opts.Model,
	})
	if err != nil {
		log.Printf("Error creating Gemini chat model: %v", err)
		return nil, err
	}
	return newLLMClient(chat, "gemini", opts.Model, opts.Options), nil
}

// NewClientForProvider dispatches to the matching provider constructor.
func NewClientForProvider(ctx context.Context, providerID, apiKey, apiName string, opts Options) (*LLMClient, error) {
	switch providerID {
	case "openai":
		return NewOpenAIClient(ctx, apiKey, OpenAIModelOptions{Model: apiName, Options: opts})
	case "anthropic":
		return NewClaudeClient(ctx, apiKey, ClaudeModelOptions{Model: apiName, Options: opts})
	case "gemini":
		return NewGeminiClient(ctx, apiKey, GeminiModelOptions{Model: apiName, Options: opts})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerID)
	}
}
