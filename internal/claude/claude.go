// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package claude calls the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/hugo-ai/internal/httputil"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// DefaultBaseURL is the API root. Package-level var for test substitution.
var DefaultBaseURL = "https://api.anthropic.com"

const (
	ChatModelBig   = "claude-3-5-sonnet-20240620"
	ChatModelSmall = "claude-3-haiku-20240307"

	apiVersion = "2023-06-01"
	maxTokens  = 1024
)

// ErrUnauthorized reports a rejected API key.
var ErrUnauthorized = httputil.ErrUnauthorized

// Client calls the Messages endpoint.
type Client struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
	HTTP       *http.Client
}

// New returns a client configured from cfg, filling in defaults.
func New(cfg types.AnthropicConfig) *Client {
	c := &Client{
		APIKey:     cfg.APIKey,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		MaxRetries: cfg.MaxRetries,
		HTTP:       &http.Client{Timeout: cfg.Timeout},
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		c.HTTP.Timeout = 60 * time.Second
	}
	return c
}

// messagesRequest is the request body for the Messages API.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the response body from the Messages API.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Chat sends system and user prompts to model and returns the text of the
// reply.
func (c *Client) Chat(ctx context.Context, model, system, user string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	if err := httputil.CheckStatus(resp); err != nil {
		return "", fmt.Errorf("Claude API: %w", err)
	}
	defer resp.Body.Close()

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text []string
	for _, block := range out.Content {
		if block.Type == "text" {
			text = append(text, block.Text)
		}
	}
	if len(text) == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return strings.Join(text, ""), nil
}
