// Package aiclient talks to the extraction function. Every operation is a
// single JSON POST: exactly one attempt, no backoff, no queueing. Any
// network failure, non-2xx status or malformed body is terminal.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// Client issues extraction and chat requests against the function endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

func New(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type extractRequest struct {
	Task       string `json:"task"`
	FileBase64 string `json:"fileBase64,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	Text       string `json:"text,omitempty"`
}

type chatRequest struct {
	Query    string           `json:"query"`
	Invoices []entity.Invoice `json:"invoices"`
}

type chatResponse struct {
	Response string `json:"response"`
	Result   string `json:"result"`
}

// ExtractFromFile sends a base64-encoded payload plus its MIME type and
// returns the raw invoice-shaped JSON object.
func (c *Client) ExtractFromFile(ctx context.Context, fileBase64, mimeType string) (json.RawMessage, error) {
	return c.extract(ctx, extractRequest{Task: "extract", FileBase64: fileBase64, MimeType: mimeType})
}

// ExtractFromText sends an extracted text blob; same response contract as
// the binary path.
func (c *Client) ExtractFromText(ctx context.Context, text string) (json.RawMessage, error) {
	return c.extract(ctx, extractRequest{Task: "extract", Text: text})
}

func (c *Client) extract(ctx context.Context, req extractRequest) (json.RawMessage, error) {
	raw, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("extraction response is not a JSON object: %w", err)
	}
	return raw, nil
}

// Chat asks a free-text question about the given invoice collection. The
// retained source documents never ride along: an attached file can be
// megabytes of base64 that no question needs, so the envelope carries a
// header-and-items view only.
func (c *Client) Chat(ctx context.Context, query string, invoices []entity.Invoice) (string, error) {
	trimmed := make([]entity.Invoice, len(invoices))
	copy(trimmed, invoices)
	for i := range trimmed {
		trimmed[i].Source = nil
	}
	raw, err := c.post(ctx, chatRequest{Query: query, Invoices: trimmed})
	if err != nil {
		return "", err
	}
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if resp.Response != "" {
		return resp.Response, nil
	}
	return resp.Result, nil
}

func (c *Client) post(ctx context.Context, body any) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("aiclient.request", "req_id", reqID, "content_length", len(bs))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("aiclient.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("aiclient.body_close_error", "req_id", reqID, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("aiclient.response", "req_id", reqID, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			if e.Details != "" {
				return nil, fmt.Errorf("extraction service: %s: %s", e.Error, e.Details)
			}
			return nil, fmt.Errorf("extraction service: %s", e.Error)
		}
		return nil, fmt.Errorf("extraction service: non-2xx status %d", resp.StatusCode)
	}
	return raw, nil
}
