package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, APIKey: "test-key", Model: "gemini-2.0-flash"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "diga oi", req.Contents[0].Parts[0].Text)

		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "oi, "}, {"text": "leitora!"}]}}]}`))
	})

	text, err := client.GenerateText(context.Background(), "diga oi")
	require.NoError(t, err)
	assert.Equal(t, "oi, leitora!", text)
}

func TestGenerateTextAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), "qualquer coisa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.GenerateText(context.Background(), "x")
	require.Error(t, err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{}, zap.NewNop())
	assert.Error(t, err)
}
