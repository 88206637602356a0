package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/proxy"
)

const (
	// DefaultConnectTimeout bounds dialing and the TLS handshake.
	DefaultConnectTimeout = 15 * time.Second
	// DefaultReadTimeout bounds the wait for the response. x_search calls run
	// provider-side network searches and take much longer than a plain chat
	// completion.
	DefaultReadTimeout = 60 * time.Second

	maxResponseBytes = 16 << 20
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	APIKey         string
	Proxy          string // socks5://, socks5h://, http:// or https://; empty means direct
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
	// HTTPClient replaces the pooled client built from the options above.
	HTTPClient *http.Client
}

// Client posts requests to the xAI Responses API. The underlying HTTP client
// and its connection pool are built once in NewClient and never mutated, so
// a Client can be reused across searches. Use a new Client to change proxy.
type Client struct {
	endpoint  string
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
}

// NewClient validates opts and builds the pooled HTTP client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		var err error
		hc, err = newPooledHTTPClient(opts)
		if err != nil {
			return nil, err
		}
	}
	return &Client{
		endpoint:  base + "/responses",
		baseURL:   base,
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		http:      hc,
	}, nil
}

// BaseURL returns the API root without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient exposes the pooled client so follow-up calls share the same
// connections and proxy.
func (c *Client) HTTPClient() *http.Client { return c.http }

// Send issues one POST and returns the raw response body. Failures are always
// *TransportError except for request-encoding bugs.
func (c *Client) Send(ctx context.Context, r Request) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(data)).Dur("elapsed", time.Since(start)).Str("model", r.Model).Msg("xai response")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// newPooledHTTPClient returns a keep-alive client with separate connect and
// read timeouts and an optional upstream proxy.
func newPooledHTTPClient(opts Options) (*http.Client, error) {
	connect := opts.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	read := opts.ReadTimeout
	if read <= 0 {
		read = DefaultReadTimeout
	}
	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := applyProxy(transport, dialer, opts.Proxy); err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
	}, nil
}

// errUnsupportedProxy is returned for proxy URLs with an unknown scheme.
var errUnsupportedProxy = errors.New("unsupported proxy scheme")

func applyProxy(t *http.Transport, dialer *net.Dialer, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, dialer)
		if err != nil {
			return fmt.Errorf("socks proxy: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return fmt.Errorf("socks proxy %q: dialer lacks context support", u.Host)
		}
		t.Proxy = nil
		t.DialContext = cd.DialContext
	case "http", "https":
		t.Proxy = http.ProxyURL(u)
	default:
		return fmt.Errorf("%w: %q", errUnsupportedProxy, u.Scheme)
	}
	return nil
}
