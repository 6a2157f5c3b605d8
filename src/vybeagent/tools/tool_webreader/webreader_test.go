package tool_webreader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybelabs/vybe/src/aisdk"
)

func executeRead(t *testing.T, url string) *aisdk.ToolResponse {
	t.Helper()
	tool, err := Tool(Config{})
	require.NoError(t, err)

	args, err := json.Marshal(map[string]string{"url": url})
	require.NoError(t, err)

	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Name: Name, Arguments: args},
	})
	require.NoError(t, err)
	return resp
}

func TestWebReaderConvertsHTMLToMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Docs</title></head><body>
			<h1>Getting Started</h1>
			<p>Install the <strong>latest</strong> release.</p>
			<script>console.log("ignored")</script>
		</body></html>`))
	}))
	defer server.Close()

	resp := executeRead(t, server.URL)
	require.False(t, resp.IsError, "unexpected error payload: %s", resp.Content)

	var out WebReaderOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.Contains(t, out.Content, "Getting Started")
	assert.Contains(t, out.Content, "**latest**")
	assert.NotContains(t, out.Content, "console.log")
}

func TestWebReaderPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("just some text"))
	}))
	defer server.Close()

	resp := executeRead(t, server.URL)
	require.False(t, resp.IsError)

	var out WebReaderOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.Equal(t, "just some text", out.Content)
}

func TestWebReaderRejectsBadScheme(t *testing.T) {
	resp := executeRead(t, "ftp://example.com/file")
	assert.True(t, resp.IsError)
	assert.Contains(t, string(resp.Content), "URL must start with")
}
