// Package store is the adapter for the hosted relational store. It
// translates between the in-memory invoice shape and the remote schema and
// issues REST calls scoped by a per-user bearer token. Failures are
// terminal: there is no retry and no transient/permanent distinction here.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client speaks the store's REST dialect. Every request carries the
// project API key; authorized requests add the user's bearer token.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// do issues one request and returns the raw body. Non-2xx responses are
// converted into an error carrying the store's own message when available.
func (c *Client) do(ctx context.Context, method, path, token string, body any, prefer string) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("store.request_failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("store.body_close_error", "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		err := remoteError(raw, resp.StatusCode)
		c.logger.Warn("store.non_2xx", "method", method, "path", path,
			"status", resp.StatusCode, "error", err)
		return raw, err
	}
	return raw, nil
}

// remoteError surfaces the store's own error message when the body carries
// one, else a generic HTTP-status-based message.
func remoteError(raw []byte, status int) error {
	var e struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Message, e.Msg, e.Error} {
			if m != "" {
				return fmt.Errorf("store: %s", m)
			}
		}
	}
	return fmt.Errorf("store: request failed with status %d", status)
}
