// Package gistapi talks to the GitHub Gist REST endpoint.
package gistapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/models"
)

const (
	DefaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	maxRawBytes    = 50 << 20 // 50 MB
)

// Client fetches gists and raw file bodies. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	creds     CredentialSource
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host (GitHub Enterprise, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCredentials attaches a bearer token source.
func WithCredentials(src CredentialSource) Option {
	return func(c *Client) { c.creds = src }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client with GitHub defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Inf, 0),
		userAgent: "gistlens",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wireOwner struct {
	Login string `json:"login"`
}

type wireFile struct {
	Filename  string  `json:"filename"`
	Content   *string `json:"content"`
	Truncated bool    `json:"truncated"`
	Size      int     `json:"size"`
	RawURL    string  `json:"raw_url"`
	Language  *string `json:"language"`
}

type wireGist struct {
	ID          string                                   `json:"id"`
	Description *string                                  `json:"description"`
	Owner       *wireOwner                               `json:"owner"`
	CreatedAt   time.Time                                `json:"created_at"`
	Files       *orderedmap.OrderedMap[string, wireFile] `json:"files"`
}

// FetchGist looks up a gist by id.
func (c *Client) FetchGist(ctx context.Context, id string) (*models.Gist, error) {
	endpoint := c.baseURL + "/gists/" + url.PathEscape(id)
	resp, err := c.get(ctx, endpoint, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("gistapi: gist %s: %w", id, apperr.ErrNotFound)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("gistapi: gist %s: %w", id, apperr.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &apperr.TransportError{Status: resp.StatusCode, URL: endpoint}
	}

	var wg wireGist
	if err := json.NewDecoder(resp.Body).Decode(&wg); err != nil {
		return nil, &apperr.TransportError{Status: 0, URL: endpoint, Err: fmt.Errorf("decode gist: %w", err)}
	}
	if wg.ID == "" {
		wg.ID = id
	}
	return wg.toModel(), nil
}

// ResolveContent returns the authoritative body of f, falling back to its raw
// URL when the API-embedded content cannot be trusted.
func (c *Client) ResolveContent(ctx context.Context, f models.File) (string, error) {
	if !f.NeedsRawFetch() {
		return *f.Content, nil
	}
	if f.RawURL == "" {
		return "", &apperr.TransportError{Err: fmt.Errorf("file %s has no raw url", f.Filename)}
	}
	resp, err := c.get(ctx, f.RawURL, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &apperr.TransportError{
			Status: resp.StatusCode,
			URL:    f.RawURL,
			Err:    fmt.Errorf("fetch raw file %s", f.Filename),
		}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRawBytes))
	if err != nil {
		return "", &apperr.TransportError{URL: f.RawURL, Err: fmt.Errorf("read raw file %s: %w", f.Filename, err)}
	}
	return string(data), nil
}

func (c *Client) get(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &apperr.TransportError{URL: endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &apperr.TransportError{URL: endpoint, Err: err}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.clientFor(ctx).Do(req)
	if err != nil {
		return nil, &apperr.TransportError{URL: endpoint, Err: err}
	}
	return resp, nil
}

// clientFor returns an oauth2 client carrying the current bearer token, or
// the plain client when no token is available.
func (c *Client) clientFor(ctx context.Context) *http.Client {
	ts, ok := TokenSource(ctx, c.creds)
	if !ok {
		return c.http
	}
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.http), ts)
	hc.Timeout = c.http.Timeout
	return hc
}

func (w wireGist) toModel() *models.Gist {
	g := &models.Gist{
		ID:        w.ID,
		Owner:     models.AnonymousOwner,
		CreatedAt: w.CreatedAt,
	}
	if w.Description != nil {
		g.Description = *w.Description
	}
	if w.Owner != nil && w.Owner.Login != "" {
		g.Owner = w.Owner.Login
	}
	if w.Files == nil {
		return g
	}
	g.Files = make([]models.File, 0, w.Files.Len())
	for pair := w.Files.Oldest(); pair != nil; pair = pair.Next() {
		wf := pair.Value
		f := models.File{
			Filename:  wf.Filename,
			Content:   wf.Content,
			Truncated: wf.Truncated,
			Size:      wf.Size,
			RawURL:    wf.RawURL,
		}
		if f.Filename == "" {
			f.Filename = pair.Key
		}
		if wf.Language != nil {
			f.Language = *wf.Language
		}
		g.Files = append(g.Files, f)
	}
	return g
}
