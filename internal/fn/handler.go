// Package fn is the serverless extraction function: a thin proxy between
// the client and the generative model. It accepts POST only, routes on the
// request body, validates model output against the invoice schema, and
// attributes a cost estimate to every extraction.
package fn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

type Handler struct {
	gen    Generator
	logger *slog.Logger
}

func NewHandler(gen Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gen: gen, logger: logger}
}

// request covers both envelopes the function accepts: the extraction shape
// ({task, fileBase64, mimeType} or {task, text}) and the chat shape
// ({query, invoices} or {prompt, invoicesJson}).
type request struct {
	Task       string `json:"task"`
	FileBase64 string `json:"fileBase64"`
	MimeType   string `json:"mimeType"`
	Text       string `json:"text"`

	Query        string          `json:"query"`
	Prompt       string          `json:"prompt"`
	Invoices     json.RawMessage `json:"invoices"`
	InvoicesJSON string          `json:"invoicesJson"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse JSON body", err.Error())
		return
	}

	if req.Query != "" || req.Prompt != "" {
		h.handleChat(r.Context(), w, req)
		return
	}
	h.handleExtract(r.Context(), w, req)
}

func (h *Handler) handleExtract(ctx context.Context, w http.ResponseWriter, req request) {
	var (
		raw   []byte
		usage *Usage
		err   error
	)
	switch {
	case req.FileBase64 != "":
		if req.MimeType == "" {
			writeError(w, http.StatusBadRequest, "mimeType is required with fileBase64", "")
			return
		}
		data, decErr := base64.StdEncoding.DecodeString(req.FileBase64)
		if decErr != nil {
			writeError(w, http.StatusBadRequest, "fileBase64 is not valid base64", decErr.Error())
			return
		}
		raw, usage, err = h.gen.ExtractFromFile(ctx, data, req.MimeType)
	case req.Text != "":
		raw, usage, err = h.gen.ExtractFromText(ctx, req.Text)
	default:
		writeError(w, http.StatusBadRequest, "fileBase64 or text is required", "")
		return
	}
	if err != nil {
		h.logger.Error("fn.extract.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "extraction failed", err.Error())
		return
	}

	schema := BuildInvoiceJSONSchema()
	if vErr := ValidateJSONAgainstSchema(schema, raw); vErr != nil {
		// Lenient second pass: clean the document and revalidate.
		cleaned, touched, nErr := NormalizeModelJSON(raw, h.logger)
		if nErr != nil || ValidateJSONAgainstSchema(schema, cleaned) != nil {
			h.logger.Error("fn.extract.schema_validation_failed", "error", vErr)
			writeError(w, http.StatusInternalServerError, "model output did not match the invoice schema", vErr.Error())
			return
		}
		h.logger.Warn("fn.extract.lenient_pass_applied", "touched", touched)
		raw = cleaned
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "model output was not a JSON object", err.Error())
		return
	}
	if usage != nil {
		doc["extractionCost"] = usage.Cost()
	}

	h.logger.Info("fn.extract.ok",
		"prompt_tokens", tokensOf(usage).PromptTokens,
		"output_tokens", tokensOf(usage).OutputTokens,
	)
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleChat(ctx context.Context, w http.ResponseWriter, req request) {
	query := req.Query
	if query == "" {
		query = req.Prompt
	}
	records := string(req.Invoices)
	if records == "" {
		records = req.InvoicesJSON
	}
	if records == "" {
		writeError(w, http.StatusBadRequest, "invoices are required for a chat request", "")
		return
	}

	prompt := fmt.Sprintf("Invoice records (JSON):\n%s\n\nQuestion: %s", records, query)
	answer, err := h.gen.Answer(ctx, prompt)
	if err != nil {
		h.logger.Error("fn.chat.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chat failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

func tokensOf(u *Usage) Usage {
	if u == nil {
		return Usage{}
	}
	return *u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	body := map[string]string{"error": msg}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
