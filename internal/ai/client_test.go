package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractFields(t *testing.T) {
	var gotReq extractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, extractPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := extractResponse{ExtractedFields: []ExtractedField{
			{FieldName: "sample_name", Value: "EC-001"},
			{FieldName: "organism", Value: "  E. coli  "},
			{FieldName: "buffer", Value: "   "},
			{FieldName: "", Value: "orphan"},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	out, err := c.ExtractFields(context.Background(), "document text", []string{"sample_name", "organism", "buffer"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"sample_name": "EC-001",
		"organism":    "E. coli",
	}, out)
	assert.Equal(t, "document text", gotReq.Text)
	assert.Equal(t, []string{"sample_name", "organism", "buffer"}, gotReq.Fields)
	assert.Contains(t, gotReq.ExtractionPrompt, "sample_name")
}

func TestExtractFieldsTruncatesText(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotLen = len(req.Text)
		require.NoError(t, json.NewEncoder(w).Encode(extractResponse{}))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	long := strings.Repeat("x", maxTextLen+500)
	_, err := c.ExtractFields(context.Background(), long, []string{"sample_name"})
	require.NoError(t, err)
	assert.Equal(t, maxTextLen, gotLen)
}

func TestExtractFieldsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	_, err := c.ExtractFields(context.Background(), "text", []string{"sample_name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestExtractFieldsCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		require.NoError(t, json.NewEncoder(w).Encode(extractResponse{}))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, time.Second, discardLogger())
	_, err := c.ExtractFields(ctx, "text", []string{"sample_name"})
	require.Error(t, err)
}

func TestNewClientEmptyURL(t *testing.T) {
	assert.Nil(t, NewClient("", time.Second, discardLogger()))

	var c *Client
	_, err := c.ExtractFields(context.Background(), "text", nil)
	require.Error(t, err)
}
