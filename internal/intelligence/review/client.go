// Package review obtains automated legal reviews of assembled contracts from
// an external text-generation service and degrades to a static review when
// the service cannot be used.
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

// CompletionRequest is a single system+user prompt exchange.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	// JSONMode asks the service to emit a single JSON object.
	JSONMode bool
}

// TextGenerator is the port to the text-generation service.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClientConfig configures an OpenAI-compatible chat completions endpoint.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

const maxResponseBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// HTTPClient talks to a chat completions API. There are no retries; every
// call is bounded by the configured timeout and by ctx.
type HTTPClient struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewHTTPClient(cfg ClientConfig) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.NewValidationError("review.base_url", "must not be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Complete sends the prompts and returns the first choice's content.
func (c *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal completion request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeReviewUnavailable, "completion request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeReviewUnavailable, "failed to read completion response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(errors.ErrCodeReviewUnavailable, "completion service returned an error").
			WithDetail(fmt.Sprintf("status=%d body=%s", resp.StatusCode, truncate(string(raw), 256)))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeReviewUnavailable, "failed to decode completion response")
	}
	if out.Error != nil {
		return "", errors.New(errors.ErrCodeReviewUnavailable, "completion service error").WithDetail(out.Error.Message)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New(errors.ErrCodeReviewUnavailable, "completion response has no content")
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

//Personal.AI order the ending
