package connecthealth

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// StatusClient issues the read-only queries the aggregator needs.
type StatusClient interface {
	// ListConnectors returns the connector names in the order reported by the cluster.
	ListConnectors(ctx context.Context) ([]string, error)

	// ConnectorStatus returns the detailed status of one connector.
	// Returns an error matching ErrNotFound if the connector no longer exists.
	ConnectorStatus(ctx context.Context, name string) (ConnectorStatus, error)
}

// ClientOption configures the HTTPClient.
type ClientOption func(*HTTPClient)

// HTTPClient queries the Kafka Connect REST API over HTTP.
// Each call is bounded by its own timeout. Redirects are not followed
// and nothing is retried.
type HTTPClient struct {
	baseURL       string
	timeout       time.Duration
	tlsSkipVerify bool
	transport     http.RoundTripper
	client        *http.Client
}

// WithRequestTimeout sets the timeout of a single REST call (default 5s).
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

// WithTLSSkipVerify skips TLS certificate verification.
func WithTLSSkipVerify(skip bool) ClientOption {
	return func(c *HTTPClient) {
		c.tlsSkipVerify = skip
	}
}

// WithRoundTripper replaces the HTTP transport.
// WithTLSSkipVerify has no effect when a custom transport is set.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(c *HTTPClient) {
		c.transport = rt
	}
}

// NewHTTPClient creates a client for the Connect REST API at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("connecthealth: invalid base URL: %w", err)
	}

	c := &HTTPClient{
		baseURL: base,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout < MinTimeout || c.timeout > MaxTimeout {
		return nil, fmt.Errorf("connecthealth: request timeout %s out of range [%s, %s]", c.timeout, MinTimeout, MaxTimeout)
	}

	transport := c.transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: c.tlsSkipVerify, //nolint:gosec // configurable by user
		}
		transport = t
	}

	c.client = &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c, nil
}

// BaseURL returns the normalized REST base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ListConnectors issues GET {base}/connectors.
func (c *HTTPClient) ListConnectors(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "list connectors", c.baseURL+"/connectors", false, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ConnectorStatus issues GET {base}/connectors/{name}/status.
func (c *HTTPClient) ConnectorStatus(ctx context.Context, name string) (ConnectorStatus, error) {
	var cs ConnectorStatus
	u := c.baseURL + "/connectors/" + url.PathEscape(name) + "/status"
	if err := c.getJSON(ctx, "connector status "+name, u, true, &cs); err != nil {
		return ConnectorStatus{}, err
	}
	return cs, nil
}

// getJSON performs a GET request and decodes the JSON body into v.
// With notFound set, a 404 answer is reported as ErrNotFound.
func (c *HTTPClient) getJSON(ctx context.Context, op, u string, notFound bool, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &RequestError{Kind: ErrTransport, Op: op, URL: u, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "connecthealth/"+Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return &RequestError{Kind: ErrTransport, Op: op, URL: u, Cause: transportCause(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxBodySize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := ErrProtocol
		if notFound && resp.StatusCode == http.StatusNotFound {
			kind = ErrNotFound
		}
		return &RequestError{Kind: kind, Op: op, URL: u, StatusCode: resp.StatusCode, Cause: restErrorMessage(body)}
	}

	if err := decodeBody(body, v); err != nil {
		// A deadline hit while reading the body is a transport failure.
		if ctx.Err() != nil {
			return &RequestError{Kind: ErrTransport, Op: op, URL: u, Cause: transportCause(ctx.Err())}
		}
		return &RequestError{Kind: ErrProtocol, Op: op, URL: u, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decodeBody decodes exactly one JSON value; anything but whitespace after it
// is an error.
func decodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON value")
		}
		return fmt.Errorf("after JSON value: %w", err)
	}
	return nil
}

// transportCause marks deadline and cancellation failures as timeouts
// so the "error" diagnostic names them.
func transportCause(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("timeout: %w", err)
	}
	return err
}

// restErrorMessage extracts the message of a Kafka Connect error body
// ({"error_code": 404, "message": "..."}). Returns nil if there is none.
func restErrorMessage(body io.Reader) error {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&e); err != nil || e.Message == "" {
		return nil
	}
	return errors.New(e.Message)
}
