package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/shapegrid/pkg/buildinfo"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/httputil"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

const httpTimeout = 10 * time.Second

// Client talks to a shapegrid server. Idempotent requests are retried on
// network errors, 429 and 5xx responses. Decoded share tokens are cached
// when a cache is configured, since a token always decodes to the same
// record.
type Client struct {
	base    string
	http    *http.Client
	shares  *httputil.ShareCache
	backoff httputil.Backoff
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) { c.backoff.Attempts, c.backoff.Delay = attempts, delay }
}

// WithBackoff replaces the whole retry policy.
func WithBackoff(b httputil.Backoff) ClientOption {
	return func(c *Client) { c.backoff = b }
}

// NewClient creates a client for the server at baseURL. shares may be nil.
func NewClient(baseURL string, shares *httputil.ShareCache, opts ...ClientOption) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		shares:  shares,
		backoff: httputil.APIBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.base }

// Health fetches the server's build information.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListProjects returns every project, most recently updated first.
func (c *Client) ListProjects(ctx context.Context) ([]*project.Project, error) {
	var out ProjectList
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	var p project.Project
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject stores a new project on the server.
func (c *Client) CreateProject(ctx context.Context, name string, s settings.Settings) (*project.Project, error) {
	body, err := projectBody(name, &s)
	if err != nil {
		return nil, err
	}
	var p project.Project
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject replaces a project's settings. An empty name keeps the
// current one.
func (c *Client) UpdateProject(ctx context.Context, id, name string, s settings.Settings) (*project.Project, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	body, err := projectBody(name, &s)
	if err != nil {
		return nil, err
	}
	var p project.Project
	if err := c.do(ctx, http.MethodPut, "/api/v1/projects/"+id, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := errors.ValidateProjectID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/projects/"+id, nil, nil)
}

// Snapshot renders a stored project in one format.
func (c *Client) Snapshot(ctx context.Context, id, format string) ([]byte, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+id+"/snapshot."+url.PathEscape(format), nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Share asks the server for a share token and link.
func (c *Client) Share(ctx context.Context, s settings.Settings) (*ShareResponse, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	var out ShareResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/share", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveShare decodes a share token on the server. Cached results are used
// unless refresh is set.
func (c *Client) ResolveShare(ctx context.Context, token string, refresh bool) (settings.Settings, error) {
	if c.shares != nil && !refresh {
		if s, ok, _ := c.shares.Get(ctx, token); ok {
			return s, nil
		}
	}
	var s settings.Settings
	if err := c.do(ctx, http.MethodGet, "/api/v1/share/"+url.PathEscape(token), nil, &s); err != nil {
		return settings.Settings{}, err
	}
	if c.shares != nil {
		_ = c.shares.Put(ctx, token, s)
	}
	return s, nil
}

func projectBody(name string, s *settings.Settings) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	data, err := json.Marshal(ProjectRequest{Name: name, Settings: raw})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}
	return data, nil
}

// =============================================================================
// Transport
// =============================================================================

// do sends one request and decodes the response into out: a *bytes.Buffer
// receives the raw body, anything else is JSON-decoded, nil discards it.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	send := func() error { return c.send(ctx, method, path, body, out) }
	if method == http.MethodPost {
		// Creating twice is worse than failing once.
		return send()
	}
	return c.backoff.Do(ctx, send)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, path, err)
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", method, path)
		}
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	hooks.OnResponse(ctx, method, req.URL.Host, path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return apiError(err)
	}
	defer resp.Body.Close()

	switch v := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *bytes.Buffer:
		_, err = v.ReadFrom(resp.Body)
	default:
		err = json.NewDecoder(resp.Body).Decode(v)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "read response")
	}
	return nil
}

// apiError turns a server error document back into a coded error,
// keeping the retryable wrapper.
func apiError(err error) error {
	var retry *httputil.RetryableError
	if re, ok := err.(*httputil.RetryableError); ok {
		retry = re
		err = re.Err
	}
	se, ok := err.(*httputil.StatusError)
	if !ok {
		return err
	}

	var body ErrorBody
	var out error
	if json.Unmarshal([]byte(se.Body), &body) == nil && body.Error.Code != "" {
		out = errors.New(body.Error.Code, "%s", body.Error.Message)
	} else {
		out = errors.Wrap(errors.ErrCodeNetwork, se, "server error")
	}
	if retry != nil {
		return &httputil.RetryableError{Err: out, After: retry.After}
	}
	return out
}
