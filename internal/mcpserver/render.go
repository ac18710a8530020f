package mcpserver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// processingPayload is returned when a deferred search exhausted its poll
// budget. The caller retries the whole tool call; the task_id lets the
// backend serve the finished job from cache on the next attempt.
type processingPayload struct {
	Status  string `json:"status"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

// textResult wraps a string as an MCP text result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult converts any client failure into a descriptive text result.
// Failures never propagate as protocol errors; the LLM caller reads the
// message and adjusts.
func errorResult(err error) *mcp.CallToolResult {
	return textResult(fmt.Sprintf("Error: %s", err.Error()))
}

// renderJSON marshals v with two-space indentation.
func renderJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render response: %w", err)
	}
	return string(out), nil
}

// renderRaw re-indents a raw backend body. Bodies that fail to re-indent
// are passed through unchanged rather than dropped.
func renderRaw(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// renderProcessing builds the still-processing response for a search whose
// background job did not finish within the poll budget.
func renderProcessing(taskID string) (string, error) {
	return renderJSON(processingPayload{
		Status: "processing",
		TaskID: taskID,
		Message: "The search is still processing in the background. " +
			"Please retry the same search in a few seconds; the finished results will be served from cache.",
	})
}
