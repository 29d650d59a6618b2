package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/kbukum/locus/component"
	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/resilience"
	"github.com/kbukum/locus/resolver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HeaderRequestID carries the request id the server logs under.
const HeaderRequestID = "X-Request-ID"

// HealthReport is the body of GET /health.
type HealthReport struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Components []component.Health     `json:"components"`
}

type cacheEntry struct {
	Service   string   `json:"service"`
	Addresses []string `json:"addresses"`
}

type staticEntry struct {
	Service string `json:"service"`
	URL     string `json:"url"`
}

type cacheWrite struct {
	Addresses []string `json:"addresses"`
}

// Client talks to a locus server. Its methods mirror resolver.Resolver, so
// callers can switch between in-process and remote resolution.
type Client struct {
	http    *http.Client
	base    *url.URL
	headers map[string]string
	token   string
	policy  *resilience.Policy
	log     *logger.Logger
}

type reply struct {
	status int
	body   []byte
}

// New creates a Client. It does not contact the server.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	base, _ := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	transport.ForceAttemptHTTP2 = true

	c := &Client{
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		base:    base,
		headers: cfg.Headers,
		token:   cfg.Token,
		log:     log.WithComponent("client"),
	}
	if cfg.Resilience.Enabled {
		c.policy = resilience.NewPolicy("locus-api", cfg.Resilience, log, resilience.WithRetryIf(retryable))
	}
	return c, nil
}

// Resolve asks the server to resolve service. An unknown service yields a
// Resolution with Found() == false and a nil error.
func (c *Client) Resolve(ctx context.Context, namespace, service string) (resolver.Resolution, error) {
	var res resolver.Resolution
	if err := requireService(service); err != nil {
		return res, err
	}
	r, err := c.call(ctx, http.MethodGet, "/v1/resolve/"+url.PathEscape(namespace)+"/"+url.PathEscape(service), nil)
	if err != nil {
		return res, err
	}
	if notFound(r) {
		return res, nil
	}
	if err := expect(r, http.StatusOK); err != nil {
		return res, err
	}
	if err := json.Unmarshal(r.body, &res); err != nil {
		return resolver.Resolution{}, errors.Internal(fmt.Errorf("decode resolution: %w", err))
	}
	return res, nil
}

// ReadCache returns the cached addresses of service. ok is false when the
// server has no entry.
func (c *Client) ReadCache(ctx context.Context, service string) ([]string, bool, error) {
	if err := requireService(service); err != nil {
		return nil, false, err
	}
	r, err := c.call(ctx, http.MethodGet, cachePath(service), nil)
	if err != nil {
		return nil, false, err
	}
	if notFound(r) {
		return nil, false, nil
	}
	if err := expect(r, http.StatusOK); err != nil {
		return nil, false, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(r.body, &entry); err != nil {
		return nil, false, errors.Internal(fmt.Errorf("decode cache entry: %w", err))
	}
	return entry.Addresses, len(entry.Addresses) > 0, nil
}

// WriteCache replaces the cached addresses of service.
func (c *Client) WriteCache(ctx context.Context, service string, addrs []string) error {
	if err := requireService(service); err != nil {
		return err
	}
	body, err := json.Marshal(cacheWrite{Addresses: addrs})
	if err != nil {
		return errors.Internal(err)
	}
	r, err := c.call(ctx, http.MethodPut, cachePath(service), body)
	if err != nil {
		return err
	}
	return expect(r, http.StatusNoContent)
}

// ClearCache deletes the cached addresses of service.
func (c *Client) ClearCache(ctx context.Context, service string) error {
	if err := requireService(service); err != nil {
		return err
	}
	r, err := c.call(ctx, http.MethodDelete, cachePath(service), nil)
	if err != nil {
		return err
	}
	return expect(r, http.StatusNoContent)
}

// GetStaticOverride returns the server's static URL for service.
func (c *Client) GetStaticOverride(ctx context.Context, service string) (string, bool, error) {
	if err := requireService(service); err != nil {
		return "", false, err
	}
	r, err := c.call(ctx, http.MethodGet, "/v1/static/"+url.PathEscape(service), nil)
	if err != nil {
		return "", false, err
	}
	if notFound(r) {
		return "", false, nil
	}
	if err := expect(r, http.StatusOK); err != nil {
		return "", false, err
	}
	var entry staticEntry
	if err := json.Unmarshal(r.body, &entry); err != nil {
		return "", false, errors.Internal(fmt.Errorf("decode static entry: %w", err))
	}
	return entry.URL, entry.URL != "", nil
}

// Health fetches the server's component health. An unhealthy server still
// returns its report; only transport failures are errors. It bypasses the
// retry policy.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	r, err := c.roundTrip(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return report, err
	}
	if r.status != http.StatusOK && r.status != http.StatusServiceUnavailable {
		return report, decodeError(r.status, r.body)
	}
	if err := json.Unmarshal(r.body, &report); err != nil {
		return report, errors.Internal(fmt.Errorf("decode health: %w", err))
	}
	return report, nil
}

// call runs roundTrip under the resilience policy. Server errors (5xx) and
// transport failures count as failures; client errors are returned to the
// caller as replies.
func (c *Client) call(ctx context.Context, method, path string, body []byte) (reply, error) {
	attempt := func(ctx context.Context) (reply, error) {
		r, err := c.roundTrip(ctx, method, path, body)
		if err != nil {
			return r, err
		}
		if r.status >= http.StatusInternalServerError {
			return r, decodeError(r.status, r.body)
		}
		return r, nil
	}
	if c.policy == nil {
		return attempt(ctx)
	}
	return resilience.Execute(ctx, c.policy, attempt)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (reply, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return reply{}, errors.Internal(err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", logger.Fields("method", method, "path", path, logger.FieldRequestID, requestID, logger.FieldError, err.Error()))
		return reply{}, transportError(method+" "+path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{}, transportError(method+" "+path, err)
	}
	return reply{status: resp.StatusCode, body: data}, nil
}

func expect(r reply, status int) error {
	if r.status == status {
		return nil
	}
	return decodeError(r.status, r.body)
}

func requireService(service string) error {
	if service == "" {
		return errors.InvalidInput("service", "service must not be empty")
	}
	return nil
}

func cachePath(service string) string {
	return "/v1/cache/" + url.PathEscape(service)
}
