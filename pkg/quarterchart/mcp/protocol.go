// Package mcp serves the quarter_data tool and the chart UI resource over
// line-delimited JSON-RPC 2.0 on stdio, and provides a matching client.
package mcp

import (
	"encoding/json"
	"fmt"
)

const (
	ProtocolVersion = "2024-11-05"
	ToolName        = "quarter_data"
	UIResourceURI   = "ui://quarter-chart/index.html"
	UIMimeType      = "text/html;profile=mcp-app"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// A request without an id is a notification and gets no response.
func (r request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// Content is one item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the result of tools/call.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns the first text content.
func (r ToolResult) Text() (string, bool) {
	for _, c := range r.Content {
		if c.Type == "text" {
			return c.Text, true
		}
	}
	return "", false
}

// Tool describes a callable tool.
type Tool struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Meta        map[string]interface{} `json:"_meta,omitempty"`
}

// Resource describes a readable resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType"`
}

// ResourceContents is one item of a resources/read result.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type quarterDataArgs struct {
	ExcelPath string `json:"excelPath,omitempty"`
}

type readParams struct {
	URI string `json:"uri"`
}

func quarterDataTool() Tool {
	return Tool{
		Name:        ToolName,
		Title:       "Quarter data",
		Description: "Load quarterly stacked series data from an Excel file.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"excelPath": map[string]interface{}{"type": "string"},
			},
		},
		Meta: map[string]interface{}{
			"ui": map[string]interface{}{
				"resourceUri": UIResourceURI,
				"visibility":  []string{"model", "app"},
			},
		},
	}
}
