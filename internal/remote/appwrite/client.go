// Package appwrite implements remote.Service over the Appwrite REST API.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/observability"
	"github.com/julianstephens/streakline/internal/remote"
)

const (
	headerProject         = "X-Appwrite-Project"
	headerFallbackCookies = "X-Fallback-Cookies"
	headerResponseFormat  = "X-Appwrite-Response-Format"
	responseFormat        = "1.5.0"
)

// Config identifies the remote project.
type Config struct {
	Endpoint  string
	ProjectID string
	Platform  string
	Timeout   time.Duration
}

// SessionStore persists the session cookie between runs.
type SessionStore interface {
	Get() (string, error)
	Set(secret string) error
	Delete() error
}

// Client talks to one Appwrite project.
type Client struct {
	cfg      Config
	http     *http.Client
	sessions SessionStore

	mu     sync.Mutex
	cookie string
	loaded bool
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionStore persists the session cookie, typically in the OS keyring.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

func New(cfg Config, opts ...Option) *Client {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ remote.Service = (*Client)(nil)

// sessionCookie returns the cookie to send, loading it from the store once.
func (c *Client) sessionCookie() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded && c.sessions != nil {
		c.loaded = true
		cookie, err := c.sessions.Get()
		if err == nil {
			c.cookie = cookie
		} else {
			logger.Debug("No stored remote session", "error", err)
		}
	}
	return c.cookie
}

func (c *Client) setSessionCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	if cookie == c.cookie {
		return
	}
	c.cookie = cookie
	if c.sessions == nil {
		return
	}
	var err error
	if cookie == "" {
		err = c.sessions.Delete()
	} else {
		err = c.sessions.Set(cookie)
	}
	if err != nil {
		logger.Warn("Failed to persist remote session", "error", err)
	}
}

// ClearSession forgets the local session cookie without contacting the service.
func (c *Client) ClearSession() {
	c.setSessionCookie("")
}

// do sends one request and decodes the JSON response into out (if non-nil).
// api names the call for metrics.
func (c *Client) do(ctx context.Context, api, method, path string, query url.Values, body, out interface{}) error {
	err := c.send(ctx, method, path, query, body, out)
	observability.RecordRemoteRequest(api, outcome(err))
	if err != nil {
		return fmt.Errorf("%s: %w", api, err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		return strconv.Itoa(rerr.Code)
	}
	return "transport"
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.cfg.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerProject, c.cfg.ProjectID)
	req.Header.Set(headerResponseFormat, responseFormat)
	if c.cfg.Platform != "" {
		req.Header.Set("Origin", fmt.Sprintf("appwrite-%s://%s", runtime.GOOS, c.cfg.Platform))
	}
	if cookie := c.sessionCookie(); cookie != "" {
		req.Header.Set(headerFallbackCookies, cookie)
	}

	logger.Debug("Remote request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if cookie := resp.Header.Get(headerFallbackCookies); cookie != "" {
		c.setSessionCookie(cookie)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		rerr := &remote.Error{}
		if len(data) == 0 || json.Unmarshal(data, rerr) != nil || rerr.Message == "" {
			rerr.Message = http.StatusText(resp.StatusCode)
		}
		if rerr.Code == 0 {
			rerr.Code = resp.StatusCode
		}
		return rerr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
