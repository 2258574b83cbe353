// Package gateway calls the remote backend: edge functions, database RPCs
// and the table reads the game client performs directly.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	functionsPath = "/functions/v1/"
	restPath      = "/rest/v1/"
	rpcPath       = "/rest/v1/rpc/"
)

// TokenSource supplies the bearer token attached to every call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource holding a fixed token, e.g. one forwarded
// from an incoming request.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrNotAuthenticated
	}
	return string(t), nil
}

type Config struct {
	BaseURL    string
	AnonKey    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	baseURL string
	anonKey string
	tokens  TokenSource
	http    *http.Client
	log     *slog.Logger
}

func New(cfg Config, tokens TokenSource) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		tokens:  tokens,
		http:    hc,
		log:     logger,
	}
}

// WithTokens returns a copy of c that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// Call invokes the edge function fn with body (nil sends {}) and decodes
// the JSON reply into out when out is non-nil.
func (c *Client) Call(ctx context.Context, fn string, body, out any) error {
	if body == nil {
		body = struct{}{}
	}
	_, err := c.do(ctx, http.MethodPost, functionsPath+fn, nil, body, out, fn)
	if err != nil {
		c.log.Error("edge function failed", slog.String("function", fn), slog.String("error", err.Error()))
	}
	return err
}

// RPC invokes the database procedure name with params.
func (c *Client) RPC(ctx context.Context, name string, params, out any) error {
	if params == nil {
		params = struct{}{}
	}
	_, err := c.do(ctx, http.MethodPost, rpcPath+name, nil, params, out, name)
	if err != nil {
		c.log.Error("rpc failed", slog.String("rpc", name), slog.String("error", err.Error()))
	}
	return err
}

// Select reads rows of table matching filters (PostgREST syntax, for
// example id=eq.42) into out, which should point to a slice.
func (c *Client) Select(ctx context.Context, table string, filters url.Values, out any) error {
	q := cloneValues(filters)
	if q.Get("select") == "" {
		q.Set("select", "*")
	}
	_, err := c.do(ctx, http.MethodGet, restPath+table, q, nil, out, table)
	return err
}

// Count returns the exact number of rows of table matching filters.
func (c *Client) Count(ctx context.Context, table string, filters url.Values) (int, error) {
	q := cloneValues(filters)
	if q.Get("select") == "" {
		q.Set("select", "id")
	}
	hdr, err := c.do(ctx, http.MethodHead, restPath+table, q, nil, nil, table)
	if err != nil {
		return 0, err
	}
	return parseContentRange(table, hdr.Get("Content-Range"))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, procedure string) (http.Header, error) {
	if c.tokens == nil {
		return nil, ErrNotAuthenticated
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", procedure, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", procedure, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodHead {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", procedure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", procedure, err)
	}
	isJSON := isJSONContent(resp.Header.Get("Content-Type"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRemoteError(procedure, resp.StatusCode, data, isJSON)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.Header, nil
	}
	if s, ok := out.(*string); ok && !isJSON {
		*s = string(data)
		return resp.Header, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, &DecodeError{Procedure: procedure, Err: err}
	}
	return resp.Header, nil
}

func isJSONContent(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// parseContentRange reads the total from "0-24/573" or "*/0".
func parseContentRange(procedure, v string) (int, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, &DecodeError{Procedure: procedure, Err: fmt.Errorf("content-range %q has no total", v)}
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return 0, &DecodeError{Procedure: procedure, Err: fmt.Errorf("content-range %q: %w", v, err)}
	}
	return n, nil
}
