// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hugo-ai/internal/httputil"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := DefaultBaseURL
	DefaultBaseURL = ts.URL
	t.Cleanup(func() { DefaultBaseURL = old })

	return New(types.OpenAIConfig{APIKey: "sk-test"})
}

func TestEmbed(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, EmbedModel, req.Model)
		assert.Equal(t, "Title\n\nbody", req.Input)

		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.25,-0.5,1]}],"model":"text-embedding-3-small"}`))
	})

	got, err := c.Embed(context.Background(), "Title\n\nbody")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, -0.5, 1}, got)
}

func TestEmbedEmptyResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	_, err := c.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "no embedding")
}

func TestChat(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, ChatModelSmall, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, chatMessage{Role: "system", Content: "be brief"}, req.Messages[0])
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"A tagline."},"finish_reason":"stop"}]}`))
	})

	got, err := c.Chat(context.Background(), ChatModelSmall, "be brief", "post body")
	require.NoError(t, err)
	assert.Equal(t, "A tagline.", got)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var se *httputil.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusBadGateway, se.Code)
				assert.Equal(t, "upstream down", se.Body)
			},
		},
		{
			name:   "rate limited is not retried by default",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var se *httputil.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusTooManyRequests, se.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				w.Write([]byte("upstream down"))
			})
			_, err := c.Embed(context.Background(), "x")
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(types.OpenAIConfig{BaseURL: "http://localhost:9999/v1/"})
	assert.Equal(t, "http://localhost:9999/v1", c.BaseURL)
	assert.Equal(t, EmbedModel, c.EmbedModel)
	assert.NotZero(t, c.HTTP.Timeout)
}
