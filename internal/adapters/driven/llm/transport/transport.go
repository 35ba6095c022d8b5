// Package transport holds the JSON-over-HTTP plumbing shared by the LLM
// adapters: request encoding, status handling and error classification.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/findable/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 512

// Client sends JSON requests for one provider.
type Client struct {
	// HTTP performs the requests.
	HTTP *http.Client

	// Provider names the service in error messages.
	Provider string

	// Headers are added to every request.
	Headers map[string]string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Code, e.Body)
}

// Is maps statuses onto domain errors: 429 is ErrRateLimited, and 5xx
// and auth failures make the service unavailable.
func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	case domain.ErrLLMUnavailable:
		return e.Code >= http.StatusInternalServerError ||
			e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}
	return false
}

// PostJSON encodes in, posts it to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Get issues a GET to url and discards a successful body.
func (c *Client) Get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", c.Provider, err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", c.Provider, err)
		}
		return fmt.Errorf("%w: %s: send request: %w", domain.ErrLLMUnavailable, c.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Provider: c.Provider,
			Code:     resp.StatusCode,
			Body:     strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.Provider, err)
	}
	return nil
}
