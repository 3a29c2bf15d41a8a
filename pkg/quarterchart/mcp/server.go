package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/site"
)

const maxMessageSize = 16 << 20

// Server answers MCP requests for one workbook source.
type Server struct {
	Name    string
	Version string
	// DefaultPath is used when quarter_data is called without excelPath.
	DefaultPath string
	// DistDir holds the UI bundle served as the UI resource.
	DistDir string
	// Load aggregates a workbook. Defaults to quarterchart.Load.
	Load   func(path string) (*models.Dataset, error)
	Logger *zap.Logger

	writeMu sync.Mutex
}

// NewServer returns a server with default naming.
func NewServer(defaultPath, distDir string, log *zap.Logger) *Server {
	return &Server{
		Name:        "mcp-quarter-chart",
		Version:     "0.1.0",
		DefaultPath: defaultPath,
		DistDir:     distDir,
		Logger:      log,
	}
}

func (s *Server) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Serve reads one request per line from r and writes responses to w
// until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.log().Warn("Failed to parse request", zap.Error(err))
			if err := s.write(w, response{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: &RPCError{Code: CodeParseError, Message: err.Error()}}); err != nil {
				return err
			}
			continue
		}

		result, rpcErr := s.Handle(ctx, req.Method, req.Params)
		if req.isNotification() {
			continue
		}
		resp := response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
		if rpcErr == nil {
			data, err := json.Marshal(result)
			if err != nil {
				resp.Error = &RPCError{Code: CodeInternalError, Message: err.Error()}
			} else {
				resp.Result = data
			}
		}
		if err := s.write(w, resp); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

func (s *Server) write(w io.Writer, resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Handle dispatches one method call.
func (s *Server) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, *RPCError) {
	s.log().Debug("MCP request", zap.String("method", method))

	switch method {
	case "initialize":
		return map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
			"serverInfo": map[string]string{"name": s.Name, "version": s.Version},
		}, nil
	case "notifications/initialized", "ping":
		return map[string]interface{}{}, nil
	case "tools/list":
		return map[string]interface{}{"tools": []Tool{quarterDataTool()}}, nil
	case "tools/call":
		var p callParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
		if p.Name != ToolName {
			return nil, &RPCError{Code: CodeInvalidParams, Message: "unknown tool: " + p.Name}
		}
		var args quarterDataArgs
		if len(p.Arguments) > 0 {
			if err := json.Unmarshal(p.Arguments, &args); err != nil {
				return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
			}
		}
		return s.quarterData(args.ExcelPath), nil
	case "resources/list":
		return map[string]interface{}{"resources": []Resource{{
			URI:         UIResourceURI,
			Name:        "Quarter Chart",
			Description: "Interactive stacked bar chart for quarterly data.",
			MimeType:    UIMimeType,
		}}}, nil
	case "resources/read":
		var p readParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
		if p.URI != UIResourceURI {
			return nil, &RPCError{Code: CodeInvalidParams, Message: "unknown resource: " + p.URI}
		}
		return map[string]interface{}{"contents": []ResourceContents{{
			URI:      UIResourceURI,
			MimeType: UIMimeType,
			Text:     string(site.IndexOrPlaceholder(s.DistDir)),
		}}}, nil
	default:
		return nil, &RPCError{Code: CodeMethodNotFound, Message: "method not found: " + method}
	}
}

// quarterData loads a workbook for the tool. Load failures are reported
// as an error result, not a protocol error.
func (s *Server) quarterData(excelPath string) ToolResult {
	path := strings.TrimSpace(excelPath)
	if path == "" {
		path = s.DefaultPath
	}
	if path == "" {
		path = quarterchart.DefaultExcelPath
	}

	load := s.Load
	if load == nil {
		load = func(p string) (*models.Dataset, error) {
			return quarterchart.Load(p, quarterchart.Options{Logger: s.log()})
		}
	}
	ds, err := load(path)
	if err == nil {
		var data []byte
		data, err = json.Marshal(ds)
		if err == nil {
			return ToolResult{Content: []Content{{Type: "text", Text: string(data)}}}
		}
	}
	s.log().Warn("quarter_data failed", zap.String("path", path), zap.Error(err))
	return ToolResult{IsError: true, Content: []Content{{Type: "text", Text: err.Error()}}}
}
