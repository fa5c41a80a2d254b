package core

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
)

// NewLLMProvider creates an LLM provider based on configuration.
func NewLLMProvider(cfg config.LLMConfig, tel *telemetry.Telemetry) (LLMProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key not configured")
	}
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg, tel)
	case "openai":
		return NewOpenAIProvider(cfg, tel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider type: %s", cfg.Provider)
	}
}

// GeminiProvider implements LLMProvider on the Google GenAI API. Responses
// are requested as JSON via the response MIME type, though nothing guarantees
// the model honors it; the extractor downstream tolerates violations.
type GeminiProvider struct {
	config    config.LLMConfig
	client    *genai.Client
	telemetry *telemetry.Telemetry
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(cfg config.LLMConfig, tel *telemetry.Telemetry) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{config: cfg, client: client, telemetry: tel}, nil
}

// Generate generates text using Gemini.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(p.config.Temperature)),
		ResponseMIMEType: "application/json",
	}
	if p.config.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.config.MaxTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	if p.telemetry != nil && resp.UsageMetadata != nil {
		p.telemetry.RecordLLMUsage(int64(resp.UsageMetadata.PromptTokenCount), int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// OpenAIProvider implements LLMProvider on the OpenAI chat completions API
// with the JSON-object response format.
type OpenAIProvider struct {
	config    config.LLMConfig
	client    *openai.Client
	telemetry *telemetry.Telemetry
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg config.LLMConfig, tel *telemetry.Telemetry) *OpenAIProvider {
	var client *openai.Client
	if cfg.BaseURL != "" {
		c := openai.DefaultConfig(cfg.APIKey)
		c.BaseURL = cfg.BaseURL
		client = openai.NewClientWithConfig(c)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIProvider{config: cfg, client: client, telemetry: tel}
}

// Generate generates text using OpenAI.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: float32(p.config.Temperature),
		MaxTokens:   p.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	if p.telemetry != nil {
		p.telemetry.RecordLLMUsage(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}
