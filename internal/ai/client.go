// Package ai provides the chat-completion client and the batched review
// classifier built on top of it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"adbuilder-scraper/internal/common/config"
	cerrors "adbuilder-scraper/internal/common/errors"
	"adbuilder-scraper/internal/common/logger"
)

// Message is a single chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        logger.Logger
}

func NewClient(cfg config.OpenAIConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.GetDuration(cfg.Timeout)},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		log:        log,
	}
}

// Complete issues a single non-streaming chat completion and returns the
// first choice's content.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeCompletion, "failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeCompletion, "failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeCompletion, "completion request failed", err).
			WithMetadata("model", model)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeCompletion, "failed to read completion response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", cerrors.New(cerrors.ErrCodeCompletion,
			fmt.Sprintf("completion API returned status %d", resp.StatusCode)).
			WithMetadata("model", model).
			WithMetadata("body", truncateForLog(string(respBody)))
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeCompletion, "failed to decode completion response", err)
	}
	if parsed.Error != nil {
		return "", cerrors.New(cerrors.ErrCodeCompletion, parsed.Error.Message).
			WithMetadata("type", parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", cerrors.New(cerrors.ErrCodeCompletion, "completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncateForLog(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}

// StripCodeFences removes a surrounding markdown code fence from model
// output so the remainder can be parsed as JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
