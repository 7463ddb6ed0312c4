// Package ai calls an external extraction service for documents the
// rule-based heuristics could not read. The caller treats every error
// here as non-fatal: a failed or unreachable service just means the
// heuristic results stand.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	extractPath = "/api/extract"

	// maxTextLen bounds the document text sent per request.
	maxTextLen = 8000
)

// Client talks to the extraction service over JSON HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a client for the service at baseURL, or nil when
// baseURL is empty and AI assistance is disabled.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ExtractedField is one field/value pair returned by the service.
type ExtractedField struct {
	FieldName string `json:"fieldName"`
	Value     string `json:"value"`
}

type extractRequest struct {
	Text             string   `json:"text"`
	ExtractionPrompt string   `json:"extractionPrompt"`
	Fields           []string `json:"fields"`
}

type extractResponse struct {
	ExtractedFields []ExtractedField `json:"extractedFields"`
}

// ExtractFields asks the service to pull the named fields out of text.
// The returned map contains only non-empty values.
func (c *Client) ExtractFields(ctx context.Context, text string, fields []string) (map[string]string, error) {
	if c == nil {
		return nil, errors.New("ai service not configured")
	}
	if len(text) > maxTextLen {
		text = text[:maxTextLen]
	}

	payload, err := json.Marshal(extractRequest{
		Text:             text,
		ExtractionPrompt: buildPrompt(fields),
		Fields:           fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction request: %w", err)
	}

	requestID := uuid.NewString()
	c.logger.Info("ai.extract.request",
		"request_id", requestID,
		"fields", len(fields),
		"text_length", len(text),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	out := make(map[string]string, len(decoded.ExtractedFields))
	for _, f := range decoded.ExtractedFields {
		if v := strings.TrimSpace(f.Value); v != "" && f.FieldName != "" {
			out[f.FieldName] = v
		}
	}

	c.logger.Info("ai.extract.response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"fields_extracted", len(out),
	)
	return out, nil
}

func buildPrompt(fields []string) string {
	return "Extract the following fields from this DNA sequencing submission document. " +
		"Return each field with its value exactly as written in the document: " +
		strings.Join(fields, ", ")
}
