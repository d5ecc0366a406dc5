// Package generation talks to the local generative backend (Ollama) and turns
// its streamed output into a single answer.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

// FallbackResponse is returned whenever the backend yields no usable text.
const FallbackResponse = "Sorry, I couldn't process your request at the moment."

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "tinyllama:latest"
	defaultTimeout = 60 * time.Second
)

// Config holds generator client configuration.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the /api/generate endpoint with streaming enabled.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	timeout    time.Duration
	logger     *observability.Logger
}

// GenerateRequest is the body of a generate call.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

// Result is the outcome of one generate call.
type Result struct {
	Text      string
	Fallback  bool
	Fragments int
	Skipped   int
	Latency   time.Duration
}

// NewClient creates a generator client, filling unset fields with defaults.
func NewClient(cfg Config, logger *observability.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends prompt and system instruction to the backend and aggregates
// the streamed reply. It never fails: transport errors, timeouts and empty
// replies all produce FallbackResponse.
func (c *Client) Generate(ctx context.Context, prompt, system string) Result {
	start := time.Now()
	log := c.logger.WithContext(ctx).WithOperation("generate")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, stats, err := c.stream(ctx, prompt, system)
	result := Result{
		Text:      text,
		Fragments: stats.Fragments,
		Skipped:   stats.Skipped,
		Latency:   time.Since(start),
	}

	switch {
	case err != nil:
		log.Error().Err(err).Str("model", c.model).Dur("latency", result.Latency).Msg("Generator request failed")
		result.Text = FallbackResponse
		result.Fallback = true
	case text == "":
		log.Warn().Str("model", c.model).Int("skipped", stats.Skipped).Msg("Generator returned no text")
		result.Text = FallbackResponse
		result.Fallback = true
	default:
		log.Debug().
			Str("model", c.model).
			Int("fragments", stats.Fragments).
			Int("skipped", stats.Skipped).
			Int("result_len", len(text)).
			Dur("latency", result.Latency).
			Msg("Generator reply aggregated")
	}

	return result
}

func (c *Client) stream(ctx context.Context, prompt, system string) (string, AggregateStats, error) {
	body, err := json.Marshal(GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: true,
	})
	if err != nil {
		return "", AggregateStats{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", AggregateStats{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", AggregateStats{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", AggregateStats{}, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	text, stats, err := Aggregate(resp.Body, c.logger.WithContext(ctx))
	if err != nil {
		return "", stats, fmt.Errorf("read stream: %w", err)
	}
	return text, stats, nil
}
