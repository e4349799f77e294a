package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"paper2wiki/internal/types"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.1
	defaultMaxTokens   = 2000
)

// EngineConfig represents the configuration for the language-model engine.
type EngineConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
	BaseURL     string // optional OpenAI-compatible endpoint
}

// Engine drives every language-model capability of the pipeline: topic
// analysis, translation, merge scoring and content generation.
type Engine struct {
	config EngineConfig
	model  llms.Model
}

var (
	_ types.TopicAnalyzer    = (*Engine)(nil)
	_ types.MergeAdvisor     = (*Engine)(nil)
	_ types.ContentGenerator = (*Engine)(nil)
)

// NewWithConfig creates a new Engine with the given configuration.
func NewWithConfig(config EngineConfig) (*Engine, error) {
	applyDefaults(&config)

	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	}

	opts := []openai.Option{
		openai.WithModel(config.Model),
		openai.WithToken(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Engine{config: config, model: model}, nil
}

// NewWithModel wires a prebuilt model into an Engine. Used by tests and by
// callers bringing their own provider.
func NewWithModel(config EngineConfig, model llms.Model) *Engine {
	applyDefaults(&config)
	return &Engine{config: config, model: model}
}

func applyDefaults(config *EngineConfig) {
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
}

// complete sends one system+human exchange and returns the first choice.
func (e *Engine) complete(ctx context.Context, system, human string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, human),
	}

	resp, err := e.model.GenerateContent(ctx, content,
		llms.WithTemperature(e.config.Temperature),
		llms.WithMaxTokens(e.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("model call: empty response")
	}
	return resp.Choices[0].Content, nil
}
