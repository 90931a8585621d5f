package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// MaxBodySize is the default cap on an upstream body.
	MaxBodySize = 32 << 20
)

// ErrBodyTooLarge is returned when an upstream body exceeds the client's limit.
var ErrBodyTooLarge = errors.New("upstream body too large")

// StatusPolicy reports whether an upstream status is a valid outcome.
type StatusPolicy func(status int) bool

// AcceptSuccess accepts 2xx statuses only.
func AcceptSuccess(status int) bool {
	return status >= 200 && status < 300
}

// AcceptBelowServerError accepts every status in [200,500), including redirects,
// not-modified revalidations and client errors.
func AcceptBelowServerError(status int) bool {
	return status >= 200 && status < 500
}

// AcceptAny accepts every status.
func AcceptAny(int) bool {
	return true
}

// Config holds configuration for an upstream client.
type Config struct {
	// Timeout bounds each request including reading the body (default: 30s).
	Timeout time.Duration

	// Accept is the status-acceptance policy (default: AcceptSuccess).
	Accept StatusPolicy

	// FollowRedirects makes the client follow 3xx responses.
	// When false, redirects are returned to the caller as-is.
	FollowRedirects bool

	// RequestsPerSecond limits outbound requests. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter's bucket size (default: 1).
	Burst int

	// MaxBodySize caps the bytes read from a response body (default: MaxBodySize).
	// Larger bodies fail with ErrBodyTooLarge rather than being truncated.
	MaxBodySize int64

	// Transport overrides the round tripper. Nil uses a clone of
	// http.DefaultTransport with transparent decompression disabled.
	Transport http.RoundTripper
}

// Response is a fully read upstream response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the upstream headers, unmodified.
	Header http.Header

	// Body is the upstream body. Empty for bodyless responses.
	Body []byte
}

// StatusError is returned when the upstream answered with a status the
// client's policy does not accept.
type StatusError struct {
	Method string
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

// Unwrap lets callers match the error with errors.Is(err, domain.ErrUpstreamStatus).
func (e *StatusError) Unwrap() error { return domain.ErrUpstreamStatus }

// Client issues outbound HTTP requests.
type Client struct {
	client  *http.Client
	accept  StatusPolicy
	limiter *rate.Limiter
	maxBody int64
}

// NewClient creates a new upstream client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Accept == nil {
		cfg.Accept = AcceptSuccess
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = MaxBodySize
	}
	if cfg.Transport == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DisableCompression = true
		cfg.Transport = transport
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: cfg.Transport,
	}
	if !cfg.FollowRedirects {
		httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	c := &Client{
		client:  httpClient,
		accept:  cfg.Accept,
		maxBody: cfg.MaxBodySize,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

// WithAccept returns a client sharing the same connection pool and limiter
// but using a different status policy.
func (c *Client) WithAccept(policy StatusPolicy) *Client {
	clone := *c
	clone.accept = policy
	return &clone
}

// Do sends the request and reads the whole response.
func (c *Client) Do(req *http.Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%s %s: waiting for rate limiter: %w", req.Method, req.URL, err)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.URL, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w: %w", req.Method, req.URL, domain.ErrUpstreamUnavailable, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w (limit %d bytes)", req.Method, req.URL, ErrBodyTooLarge, c.maxBody)
	}

	if !c.accept(resp.StatusCode) {
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Status: resp.StatusCode}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// Get issues a GET request with the given headers.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	return c.Do(req)
}

// GetJSON issues a GET request and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	header := http.Header{}
	header.Set("Accept", "application/json")

	resp, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// IsStatus reports whether err is a StatusError carrying status.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == status
}
