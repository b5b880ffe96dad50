// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openai calls the OpenAI embeddings and chat completions endpoints.
package openai

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
var DefaultBaseURL = "https://api.openai.com/v1"

const (
	EmbedModel     = "text-embedding-3-small"
	ChatModelBig   = "gpt-4o"
	ChatModelSmall = "gpt-4o-mini"
)

// ErrUnauthorized reports a rejected API key.
var ErrUnauthorized = httputil.ErrUnauthorized

// Client talks to the OpenAI REST API.
type Client struct {
	APIKey     string
	BaseURL    string
	EmbedModel string
	MaxRetries int
	HTTP       *http.Client
}

// New returns a client configured from cfg, filling in defaults.
func New(cfg types.OpenAIConfig) *Client {
	c := &Client{
		APIKey:     cfg.APIKey,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		EmbedModel: cfg.EmbedModel,
		MaxRetries: cfg.MaxRetries,
		HTTP:       &http.Client{Timeout: cfg.Timeout},
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.EmbedModel == "" {
		c.EmbedModel = EmbedModel
	}
	if cfg.Timeout <= 0 {
		c.HTTP.Timeout = 60 * time.Second
	}
	return c
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var out embedResponse
	if err := c.post(ctx, "/embeddings", embedRequest{Model: c.EmbedModel, Input: text}, &out); err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embed: response has no embedding")
	}
	return out.Data[0].Embedding, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends a system and a user message to model and returns the reply.
func (c *Client) Chat(ctx context.Context, model, system, user string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var out chatResponse
	if err := c.post(ctx, "/chat/completions", req, &out); err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai chat: response has no choices")
	}
	return out.Choices[len(out.Choices)-1].Message.Content, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return err
	}
	if err := httputil.CheckStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
