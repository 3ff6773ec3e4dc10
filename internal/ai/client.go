// Package ai implements the outbound completion-API client.
//
// The capability is optional: when no API key is configured the server runs
// without it and AI routes report unavailable. Callers hold an Optional and
// check Enabled before use.
package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/errors"
)

// Message is a single chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a completion client from configuration.
// Rate limited to smooth bursts against the upstream quota.
func NewClient(cfg config.AIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger,
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Upstream("completion request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("completion request rejected",
			"status", resp.StatusCode,
			"model", c.model,
		)
		return "", errors.Upstreamf("completion API returned status %d", resp.StatusCode).
			WithDetails(Truncate(string(raw), 500))
	}

	var completion completionResponse
	if err := json.UnmarshalRead(resp.Body, &completion); err != nil {
		return "", errors.Upstream("malformed completion response").WithCause(err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.Upstream("completion response has no choices")
	}

	c.logger.Debug("completion finished",
		"model", c.model,
		"duration", time.Since(start),
	)

	return completion.Choices[0].Message.Content, nil
}

// CompleteJSON runs a completion and decodes the reply as JSON, stripping
// markdown code fences first. A reply that still fails to parse surfaces as a
// bad-upstream-response error carrying the truncated raw text.
func (c *Client) CompleteJSON(ctx context.Context, messages []Message, dest any) error {
	raw, err := c.Complete(ctx, messages)
	if err != nil {
		return err
	}

	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		return errors.BadUpstreamResponse("model reply is not valid JSON", Truncate(raw, 500))
	}

	return nil
}

// StripFences removes a surrounding markdown code fence from a model reply.
// Handles ```json ... ``` and bare ``` ... ``` blocks; anything else is
// returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the info string (e.g. "json") up to the first newline.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, "{[\"") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// Truncate caps a string at n bytes for inclusion in error details.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
