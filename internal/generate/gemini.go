package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-shortscript/internal/apierr"
)

// Gemini API configuration.
const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash-preview-09-2025"

	// A single script generation rarely takes more than a minute.
	defaultGeminiHTTPTimeout = 3 * time.Minute
)

// Compile-time interface compliance check.
var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator calls the Gemini generateContent REST endpoint.
type GeminiGenerator struct {
	apiKey      string
	baseURL     string
	model       string
	temperature *float64
	httpTimeout time.Duration
	httpClient  httpDoer
}

// GeminiOption configures a GeminiGenerator.
type GeminiOption func(*GeminiGenerator)

// WithGeminiModel sets the model name (e.g. "gemini-2.5-flash").
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGeminiBaseURL sets a custom base URL (for testing or proxies).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(g *GeminiGenerator) {
		g.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithGeminiHTTPClient sets a custom HTTP client.
func WithGeminiHTTPClient(c httpDoer) GeminiOption {
	return func(g *GeminiGenerator) {
		g.httpClient = c
	}
}

// WithGeminiTimeout sets the HTTP client timeout.
func WithGeminiTimeout(timeout time.Duration) GeminiOption {
	return func(g *GeminiGenerator) {
		if timeout > 0 {
			g.httpTimeout = timeout
		}
	}
}

// WithGeminiTemperature sets the sampling temperature.
// Unset leaves the service default.
func WithGeminiTemperature(t float64) GeminiOption {
	return func(g *GeminiGenerator) {
		g.temperature = &t
	}
}

// NewGeminiGenerator creates a GeminiGenerator.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewGeminiGenerator(apiKey string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	g := &GeminiGenerator{
		apiKey:      apiKey,
		baseURL:     defaultGeminiBaseURL,
		model:       DefaultGeminiModel,
		httpTimeout: defaultGeminiHTTPTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	// Create HTTP client after options are applied (timeout may be customized).
	if g.httpClient == nil {
		g.httpClient = &http.Client{Timeout: g.httpTimeout}
	}
	return g, nil
}

// Name returns "gemini".
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if g.temperature != nil {
		req.GenerationConfig = &geminiGenerationConfig{Temperature: g.temperature}
	}

	resp, err := g.callAPI(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.text()
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// text extracts the generated text or reports an empty response.
func (r *geminiResponse) text() (string, error) {
	if r.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked (%s): %w", r.PromptFeedback.BlockReason, apierr.ErrEmptyResponse)
	}
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("no candidates: %w", apierr.ErrEmptyResponse)
	}

	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		reason := r.Candidates[0].FinishReason
		if reason == "" {
			reason = "no text"
		}
		return "", fmt.Errorf("empty candidate (%s): %w", reason, apierr.ErrEmptyResponse)
	}
	return b.String(), nil
}

// geminiErrorResponse is the error body returned with non-2xx statuses.
type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// callAPI makes the HTTP request and classifies failures.
func (g *GeminiGenerator) callAPI(ctx context.Context, reqBody geminiRequest) (_ *geminiResponse, err error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apierr.ClassifyTransport(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	// Limit response size to prevent OOM from malformed responses.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apierr.ClassifyTransport(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if err := apierr.ClassifyStatus(resp.StatusCode, geminiErrorMessage(respBody)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, apierr.ErrBadRequest)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// geminiErrorMessage extracts the message from an error body, falling back to the raw body.
func geminiErrorMessage(body []byte) string {
	var errResp geminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return strings.TrimSpace(string(body))
	}
	if errResp.Error.Status != "" {
		return errResp.Error.Status + ": " + errResp.Error.Message
	}
	return errResp.Error.Message
}
