// Package openai talks to an Azure OpenAI chat-completions deployment: one
// synchronous round trip per call, no retries, no streaming.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chatterbox/pkg/logger"
)

// ChatMessage is one entry of the outbound message list.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Fixed generation parameters; these are constants of the system, not
// caller-tunable.
const (
	maxTokens   = 800
	temperature = 0.7
	topP        = 0.95
)

type chatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client sends assembled message lists to the completion endpoint.
type Client struct {
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string
	httpc      *http.Client
}

// New creates a client. httpc may be nil, in which case a default client is
// used; tests inject a recording transport through it.
func New(endpoint, deployment, apiVersion, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		httpc:      httpc,
	}
}

// IsConfigured reports whether both endpoint and credential are present.
func (c *Client) IsConfigured() bool {
	return strings.TrimSpace(c.apiKey) != "" && strings.TrimSpace(c.endpoint) != ""
}

// Send posts the message list and extracts the first choice's content.
// Fails fast with ErrNotConfigured before any network call when
// unconfigured.
func (c *Client) Send(ctx context.Context, messages []ChatMessage) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &RequestError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Status: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("completion_request_failed", "status", resp.StatusCode, "body", string(respBody))
		return "", &RequestError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return extractContent(respBody)
}

// extractContent pulls choices[0].message.content out of a success body.
func extractContent(body []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &MalformedResponseError{Reason: "invalid json: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", &MalformedResponseError{Reason: "no choices"}
	}
	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", &MalformedResponseError{Reason: "empty message content"}
	}
	return content, nil
}
