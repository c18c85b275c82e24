package deepseek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"tutorbot/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without
// credentials.
var ErrMissingAPIKey = errors.New("deepseek: api key is required")

// Options configures the DeepSeek chat completion client. DeepSeek speaks the
// OpenAI chat completions protocol, so the client rides on go-openai with a
// custom base URL.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs chat completion calls against the DeepSeek API.
type Client struct {
	api    *openai.Client
	apiKey string
	model  string
	max    int
	logger *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "deepseek-chat"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient

	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		apiKey: strings.TrimSpace(opts.APIKey),
		model:  model,
		max:    opts.MaxTokens,
		logger: logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Complete sends a single-turn prompt and returns the completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("deepseek: prompt is required")
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.max,
	})
	if err != nil {
		return "", fmt.Errorf("deepseek: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("deepseek: empty completion response")
	}
	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("deepseek: completion ok")
	return resp.Choices[0].Message.Content, nil
}
