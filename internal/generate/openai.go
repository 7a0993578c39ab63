package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-shortscript/internal/apierr"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// chatCompleter abstracts the chat completion call for testing.
// *openai.Client implements this implicitly.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Generator     = (*OpenAIGenerator)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAIGenerator generates text with the OpenAI chat completion API.
type OpenAIGenerator struct {
	client      chatCompleter
	model       string
	temperature float32
}

// OpenAIOption configures an OpenAIGenerator.
type OpenAIOption func(*OpenAIGenerator)

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(g *OpenAIGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithOpenAITemperature sets the sampling temperature.
func WithOpenAITemperature(t float32) OpenAIOption {
	return func(g *OpenAIGenerator) {
		g.temperature = t
	}
}

// NewOpenAIGenerator creates an OpenAIGenerator backed by the official API.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewOpenAIGenerator(apiKey string, opts ...OpenAIOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	return NewOpenAIGeneratorFromClient(openai.NewClient(apiKey), opts...), nil
}

// NewOpenAIGeneratorFromClient wraps an existing client, e.g. one built with
// openai.DefaultConfig for a compatible endpoint.
func NewOpenAIGeneratorFromClient(client chatCompleter, opts ...OpenAIOption) *OpenAIGenerator {
	g := &OpenAIGenerator{
		client: client,
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns "openai".
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Model returns the configured model name.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate sends prompt as a single user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices: %w", apierr.ErrEmptyResponse)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty message (%s): %w", resp.Choices[0].FinishReason, apierr.ErrEmptyResponse)
	}
	return text, nil
}

// classifyOpenAIError maps go-openai errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.ClassifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return apierr.ClassifyStatus(reqErr.HTTPStatusCode, msg)
	}
	return apierr.ClassifyTransport(err)
}
