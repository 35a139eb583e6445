package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures an OpenAIClient. BaseURL may point at any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIClient calls a chat completions endpoint. Retries are left to the
// caller, so the SDK's own retry loop is disabled.
type OpenAIClient struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	stats       *LLMStats
	log         *slog.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, log *slog.Logger) *OpenAIClient {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		stats:       NewLLMStats(time.Hour),
		log:         log,
	}
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.model }

// Stats returns the latency statistics of completed calls.
func (c *OpenAIClient) Stats() *LLMStats { return c.stats }

// Complete sends one system and one user message and returns the text of
// the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	elapsed := time.Since(start)
	if err != nil {
		return "", c.classify(ctx, err)
	}
	if len(resp.Choices) == 0 {
		c.stats.Record(elapsed, resp.Usage.TotalTokens)
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	content := resp.Choices[0].Message.Content

	// Some compatible endpoints omit usage.
	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		tokens = int64(EstimateTokens(system) + EstimateTokens(user) + EstimateTokens(content))
	}
	c.stats.Record(elapsed, tokens)

	text := stripCodeBlock(content)
	c.log.Debug("completion received",
		"model", c.model,
		"duration_ms", elapsed.Milliseconds(),
		"tokens", tokens,
		"finish_reason", resp.Choices[0].FinishReason)
	return text, nil
}

// classify turns rate limits, server errors and dropped connections into
// RetryableError.
func (c *OpenAIClient) classify(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500 {
			return &RetryableError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return fmt.Errorf("chat completion status %d: %w", apiErr.StatusCode, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && ctx.Err() == nil {
		return &RetryableError{Message: err.Error()}
	}
	return fmt.Errorf("chat completion: %w", err)
}
