package acumidata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Environment selects the vendor deployment a call is sent to.
type Environment string

const (
	EnvUAT  Environment = "uat"
	EnvProd Environment = "prod"
)

// ParseEnvironment normalizes user input ("PROD", "production", "uat") into an
// Environment.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return EnvProd, nil
	case "uat", "", "staging":
		return EnvUAT, nil
	default:
		return "", &ValidationError{Field: "environment", Reason: "must be uat or prod"}
	}
}

// Credentials holds the per-environment API keys, loaded once from
// configuration and read-only afterwards.
type Credentials struct {
	UAT  string
	Prod string
}

// For returns the key for env, or ErrMissingCredential if it is unset.
func (c Credentials) For(env Environment) (string, error) {
	var key string
	switch env {
	case EnvProd:
		key = c.Prod
	case EnvUAT:
		key = c.UAT
	}
	if key == "" {
		return "", fmt.Errorf("%w for %s", ErrMissingCredential, env)
	}
	return key, nil
}

func baseURL(env Environment) string {
	if env == EnvProd {
		return "https://api.acumidata.com"
	}
	return "https://uat.api.acumidata.com"
}

// Client issues calls against the Acumidata gateway. The environment is a
// per-call argument, not client state, so one client serves both UAT and
// Production and stays reentrant under test.
type Client struct {
	creds    Credentials
	http     *retryablehttp.Client
	override string // test hook: replaces the per-env base URL when set
}

// Option tweaks client construction.
type Option func(*Client)

// WithBaseURL points every call at a fixed base URL regardless of
// environment. Used by tests against stub servers.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.override = strings.TrimRight(u, "/") }
}

// WithTimeout bounds each vendor call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// NewClient builds a client. The transport carries a bounded timeout and no
// automatic retries: the vendor's rate limits are unknown, so every failure is
// terminal for that single request.
func NewClient(creds Credentials, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient.Timeout = 10 * time.Second

	c := &Client{creds: creds, http: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke validates the query, builds the request the descriptor describes and
// returns the raw vendor payload. Error kinds: ValidationError before the
// call, ErrMissingCredential for an unset key, TransportError for network
// failures, APIError for non-2xx vendor responses.
func (c *Client) Invoke(ctx context.Context, d EndpointDescriptor, q Query, env Environment) ([]byte, error) {
	if err := q.Validate(d); err != nil {
		return nil, err
	}
	key, err := c.creds.For(env)
	if err != nil {
		return nil, err
	}

	base := c.override
	if base == "" {
		base = baseURL(env)
	}

	path := d.Path
	vals := url.Values{}
	body := map[string]string{}
	for _, p := range d.Params {
		v := q.value(p.Field)
		if v == "" {
			continue
		}
		if strings.HasPrefix(p.Wire, "{") {
			path = strings.ReplaceAll(path, p.Wire, url.PathEscape(v))
			continue
		}
		if d.Method == http.MethodPost {
			body[p.Wire] = v
		} else {
			vals.Set(p.Wire, v)
		}
	}

	u := base + "/" + path
	if len(vals) > 0 {
		u += "?" + vals.Encode()
	}

	var req *retryablehttp.Request
	if d.Method == http.MethodPost {
		payload, _ := json.Marshal(body)
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return []byte(`{"message":"no content returned"}`), nil
	}
	raw, err := readAllLimit(resp.Body, 4<<20) // 4MB guard
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
