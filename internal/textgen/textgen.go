// Package textgen is the text-generation capability behind insights and
// recipe suggestions: prompt in, text out. The HTTP client speaks the
// OpenAI-compatible chat completions protocol.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
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
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// HTTPClient calls a chat completions endpoint.
type HTTPClient struct {
	url        string
	apiKey     string
	model      string
	attempts   uint64
	backoff    time.Duration
	httpClient *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithRetries sets how many times a throttled or failed call is repeated and
// the initial backoff between attempts.
func WithRetries(n uint64, backoff time.Duration) Option {
	return func(h *HTTPClient) { h.attempts, h.backoff = n, backoff }
}

func NewHTTPClient(url, apiKey, model string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		attempts:   2,
		backoff:    500 * time.Millisecond,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends one system and one user message and returns the first
// choice. Failures are wrapped in common.ErrGenerationFailed.
func (c *HTTPClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", common.ErrGenerationFailed, err)
	}

	var text string
	backoff := retry.WithMaxRetries(c.attempts, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		text, callErr = c.call(ctx, body)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrGenerationFailed, err)
	}
	return text, nil
}

func (c *HTTPClient) call(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.RetryableError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", retry.RetryableError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", retry.RetryableError(fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != nil && cr.Error.Message != "" {
		return "", fmt.Errorf("api error (%s): %s", cr.Error.Type, cr.Error.Message)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
