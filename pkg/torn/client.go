// Package torn is a minimal client for the Torn public REST API. It returns
// response bodies untouched so callers can relay them verbatim.
package torn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Torn API host.
	DefaultBaseURL = "https://api.torn.com"

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 10 * time.Second

	// DefaultSelections is used when the caller names no selections.
	DefaultSelections = "basic"
)

// ErrInvalidBody is the cause recorded when a 2xx body is not JSON.
var ErrInvalidBody = errors.New("upstream response is not valid JSON")

// Endpoint names an upstream resource.
type Endpoint string

const (
	EndpointUser    Endpoint = "user"
	EndpointFaction Endpoint = "faction"
)

func (e Endpoint) String() string {
	return string(e)
}

// Upstream fetches raw JSON from the Torn API.
type Upstream interface {
	Fetch(ctx context.Context, endpoint Endpoint, selections, key string) ([]byte, error)
}

// Client talks to the Torn API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL builds the upstream request URL for endpoint.
func (c *Client) URL(endpoint Endpoint, selections, key string) string {
	q := url.Values{}
	q.Set("selections", selections)
	q.Set("key", key)
	return fmt.Sprintf("%s/%s/?%s", c.baseURL, endpoint, q.Encode())
}

// Fetch performs a GET against endpoint and returns the response body.
// Transport failures, non-2xx statuses and non-JSON bodies are returned as
// *UpstreamError.
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint, selections, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, selections, key), nil)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: redact(err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if !json.Valid(body) {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: ErrInvalidBody}
	}

	return body, nil
}
