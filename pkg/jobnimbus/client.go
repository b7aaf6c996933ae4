// Package jobnimbus provides bearer-authenticated REST access to the JobNimbus CRM.
package jobnimbus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://app.jobnimbus.com/api1"
	defaultTimeout = 15 * time.Second
)

// Client defines the JobNimbus operations used by the gateway.
type Client interface {
	SearchContacts(ctx context.Context, q ContactQuery) ([]Record, error)
	GetContact(ctx context.Context, id string) (Record, error)
	CreateContact(ctx context.Context, body map[string]any) (Record, error)
	GetJob(ctx context.Context, id string) (Record, error)
	CreateJob(ctx context.Context, body map[string]any) (Record, error)
}

// Factory builds a Client for a single tenant credential and optional actor email.
type Factory func(apiKey, actor string) Client

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithActor attributes created records to the given user email via the
// actor query parameter.
func WithActor(email string) Option {
	return func(c *httpClient) {
		c.actor = email
	}
}

// WithHTTPClient overrides the default http.Client. The client is copied so
// later options never mutate a caller-owned value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

// WithTimeout sets the per-call transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outbound calls per second. A burst equal to the integer
// portion of rps is allowed. The limiter is created once, so every client
// built from the same option (for example through NewFactory) shares it.
func WithRateLimit(rps float64) Option {
	if rps <= 0 {
		return func(*httpClient) {}
	}
	limiter := rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	return func(c *httpClient) {
		c.limiter = limiter
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	actor   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a JobNimbus API client for one tenant key.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewFactory returns a Factory that applies opts to every client it builds.
func NewFactory(opts ...Option) Factory {
	return func(apiKey, actor string) Client {
		all := append([]Option{}, opts...)
		if actor != "" {
			all = append(all, WithActor(actor))
		}
		return NewClient(apiKey, all...)
	}
}

func (c *httpClient) SearchContacts(ctx context.Context, q ContactQuery) ([]Record, error) {
	params := url.Values{}
	if key, val := q.Discriminator(); key != "" {
		params.Set(key, val)
	}

	body, err := c.do(ctx, "search contacts", http.MethodGet, "/contacts", params, nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecordList(body)
	if err != nil {
		return nil, eris.Wrap(err, "jobnimbus: decode contact search")
	}
	return records, nil
}

func (c *httpClient) GetContact(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, eris.New("jobnimbus: contact id is required")
	}
	return c.record(ctx, "get contact", http.MethodGet, "/contacts/"+url.PathEscape(id), nil)
}

func (c *httpClient) CreateContact(ctx context.Context, body map[string]any) (Record, error) {
	return c.record(ctx, "create contact", http.MethodPost, "/contacts", body)
}

func (c *httpClient) GetJob(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, eris.New("jobnimbus: job id is required")
	}
	return c.record(ctx, "get job", http.MethodGet, "/jobs/"+url.PathEscape(id), nil)
}

func (c *httpClient) CreateJob(ctx context.Context, body map[string]any) (Record, error) {
	return c.record(ctx, "create job", http.MethodPost, "/jobs", body)
}

func (c *httpClient) record(ctx context.Context, op, method, path string, payload map[string]any) (Record, error) {
	body, err := c.do(ctx, op, method, path, nil, payload)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, eris.Wrapf(err, "jobnimbus: decode %s", op)
	}
	return rec, nil
}

func (c *httpClient) do(ctx context.Context, op, method, path string, params url.Values, payload map[string]any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "jobnimbus: rate limit")
		}
	}

	if params == nil {
		params = url.Values{}
	}
	if c.actor != "" {
		params.Set("actor", c.actor)
	}
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrapf(err, "jobnimbus: marshal %s", op)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, eris.Wrapf(err, "jobnimbus: create %s request", op)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "jobnimbus: %s", op)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "jobnimbus: read %s response", op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Op:         op,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	return respBody, nil
}
