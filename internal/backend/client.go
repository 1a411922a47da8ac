package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the storefront REST backend. The session is an opaque
// cookie kept in the jar; the client never inspects it. All calls go
// through one circuit breaker that only counts transport-level failures,
// so a burst of 404s cannot trip it.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	logger  *slog.Logger
}

type response struct {
	status int
	body   []byte
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		logger:  logger,
	}, nil
}

type headerKey struct{}

// withHeader attaches an extra header to the next request issued with ctx.
func withHeader(ctx context.Context, name, value string) context.Context {
	extra, _ := ctx.Value(headerKey{}).(http.Header)
	merged := make(http.Header, len(extra)+1)
	for k, v := range extra {
		merged[k] = v
	}
	merged.Set(name, value)
	return context.WithValue(ctx, headerKey{}, merged)
}

// errorEnvelope is the backend's {"error": "..."} body on failures.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do performs one request and decodes a 2xx body into out (when out is
// non-nil). Non-2xx responses are mapped to the package error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if extra, ok := ctx.Value(headerKey{}).(http.Header); ok {
		for name, values := range extra {
			req.Header[name] = values
		}
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		httpResp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
		}
		return &response{status: httpResp.StatusCode, body: data}, nil
	})
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			// breaker open or half-open rejection
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	if resp.status >= 200 && resp.status < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.mapError(method, path, resp)
}

func (c *Client) mapError(method, path string, resp *response) error {
	var envelope errorEnvelope
	parseErr := json.Unmarshal(resp.body, &envelope)

	switch resp.status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}

	if parseErr != nil || envelope.Error == "" {
		c.logger.Warn("backend error without parseable body",
			"method", method, "path", path, "status", resp.status)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.status)
	}
	return &Error{Status: resp.status, Message: envelope.Error}
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
