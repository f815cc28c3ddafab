// Package fetch executes vendor availability requests over HTTP.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
)

// DefaultTimeout bounds a single vendor request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps the response body kept on a StatusError.
const maxErrorBody = 512

// StatusError is returned for non-2xx vendor responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// HasStatus reports whether err wraps a StatusError with the given code.
func HasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Call describes one HTTP request. Body, when set, is encoded as JSON.
type Call struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    any
	Timeout time.Duration
}

// Doer executes a Call and returns the raw response body.
type Doer interface {
	Do(ctx context.Context, call Call) ([]byte, error)
}

// Client performs vendor checks. Vendors carrying a Strategy are routed to
// it; all others use the generic request shape.
type Client struct {
	http     *http.Client
	logger   *slog.Logger
	limiters map[string]*RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRateLimiter throttles checks for the named vendor.
func WithRateLimiter(vendor string, l *RateLimiter) Option {
	return func(c *Client) {
		c.limiters[vendor] = l
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{},
		logger:   slog.Default(),
		limiters: make(map[string]*RateLimiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one availability check for v.
func (c *Client) Fetch(ctx context.Context, v *retailer.Vendor, req retailer.Request) ([]byte, error) {
	if l, ok := c.limiters[v.Name]; ok {
		if err := l.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.FetchDailyLimitHits.WithLabelValues(v.Name).Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	c.logger.Debug("checking availability",
		"vendor", v.Name,
		"code", req.Code,
		"location", req.Location,
		"custom_strategy", v.Strategy != nil,
	)

	var (
		body []byte
		err  error
	)
	if v.Strategy != nil {
		body, err = v.Strategy.Fetch(ctx, req)
	} else {
		body, err = c.Do(ctx, genericCall(v, req))
	}

	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(v.Name, "error").Inc()
		return nil, err
	}
	metrics.FetchRequestsTotal.WithLabelValues(v.Name, "ok").Inc()
	return body, nil
}

func genericCall(v *retailer.Vendor, req retailer.Request) Call {
	headers := make(map[string]string, len(v.Request.Headers)+1)
	for k, val := range v.Request.Headers {
		headers[k] = val
	}
	if v.Request.APIKey != "" {
		headers["x-api-key"] = v.Request.APIKey
	}

	call := Call{
		Method:  strings.ToUpper(v.Request.Method),
		URL:     v.Request.URL,
		Headers: headers,
		Timeout: v.Request.Timeout,
	}
	if call.Method == "" {
		call.Method = http.MethodGet
	}

	if call.Method == http.MethodGet {
		q := url.Values{}
		q.Set("pincode", req.Location.String())
		q.Set("code", req.Code)
		call.Query = q
	} else {
		call.Body = map[string]string{
			"pincode": req.Location.String(),
			"code":    req.Code,
		}
	}
	return call
}

// Do implements Doer.
func (c *Client) Do(ctx context.Context, call Call) ([]byte, error) {
	timeout := call.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := call.URL
	if len(call.Query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + call.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, call.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	if call.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range call.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
