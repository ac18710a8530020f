package mcpserver

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestErrorResult(t *testing.T) {
	res := errorResult(errors.New("something broke"))
	text := resultText(t, res)
	assert.Equal(t, "Error: something broke", text)
}

func TestRenderRaw(t *testing.T) {
	t.Run("valid json is indented", func(t *testing.T) {
		out := renderRaw(json.RawMessage(`{"a":1,"b":[2,3]}`))
		assert.Contains(t, out, "\n")
		assert.True(t, json.Valid([]byte(out)))
	})

	t.Run("invalid json passes through", func(t *testing.T) {
		out := renderRaw(json.RawMessage(`not json`))
		assert.Equal(t, "not json", out)
	})
}

func TestRenderProcessing(t *testing.T) {
	out, err := renderProcessing("abc-123")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "processing", payload["status"])
	assert.Equal(t, "abc-123", payload["task_id"])
	msg, _ := payload["message"].(string)
	assert.True(t, strings.Contains(msg, "still processing"))
}
