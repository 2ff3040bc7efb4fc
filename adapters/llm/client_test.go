package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gosheet/internal/errors"
	"gosheet/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func streamServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.True(t, gjson.GetBytes(body, "stream").Bool())
		assert.Equal(t, "test-model", gjson.GetBytes(body, "model").String())

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
		}
	}))
}

func newTestClient(t *testing.T, url string) *OpenAIClient {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-key", BaseURL: url, Model: "test-model", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestStreamChat(t *testing.T) {
	srv := streamServer(t,
		`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`: keep-alive`,
		`data: not json`,
		`data: {"choices":[{"delta":{"content":"lo"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
	)
	defer srv.Close()

	var deltas []string
	text, err := newTestClient(t, srv.URL).StreamChat(context.Background(),
		[]ports.ChatMessage{{Role: ports.RoleUser, Content: "hi"}},
		func(d string) { deltas = append(deltas, d) })

	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
}

func TestStreamChatHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).StreamChat(context.Background(),
		[]ports.ChatMessage{{Role: ports.RoleUser, Content: "hi"}}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExternalService))
	assert.Contains(t, err.Error(), "401")
}

func TestStreamChatInStreamError(t *testing.T) {
	srv := streamServer(t,
		`data: {"choices":[{"delta":{"content":"partial"}}]}`,
		`data: {"error":{"message":"overloaded"}}`,
	)
	defer srv.Close()

	text, err := newTestClient(t, srv.URL).StreamChat(context.Background(),
		[]ports.ChatMessage{{Role: ports.RoleUser, Content: "hi"}}, nil)

	require.Error(t, err)
	assert.Equal(t, "partial", text)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestStreamChatNoMessages(t *testing.T) {
	_, err := newTestClient(t, "http://unused").StreamChat(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Model: "m"})
	assert.True(t, errors.Is(err, errors.CodeUnavailable))

	_, err = NewClient(Config{APIKey: "k"})
	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))

	client, err := NewClient(Config{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.BaseURL)
}

func TestReadStreamToleratesMissingDone(t *testing.T) {
	text, err := readStream(strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}

func TestMockLLMClient(t *testing.T) {
	mock := &MockLLMClient{Chunks: []string{"a", "b"}}
	var got strings.Builder
	text, err := mock.StreamChat(context.Background(), []ports.ChatMessage{{Role: ports.RoleUser, Content: "q"}}, func(d string) { got.WriteString(d) })

	require.NoError(t, err)
	assert.Equal(t, "ab", text)
	assert.Equal(t, "ab", got.String())
	require.Len(t, mock.Calls, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&MockLLMClient{Chunks: []string{"a"}}).StreamChat(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
