package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
)

// ErrClosed is returned by calls on a closed client.
var ErrClosed = errors.New("mcp connection closed")

// Client calls an MCP server over a line-delimited stream.
type Client struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	w       io.Writer
	closer  io.Closer
	nextID  int
	pending map[int]chan response
	closed  bool

	cmd  *exec.Cmd
	done chan struct{}
	log  *zap.Logger
}

// NewClient starts reading responses from r. closer, if not nil, is
// closed by Close.
func NewClient(r io.Reader, w io.Writer, closer io.Closer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		w:       w,
		closer:  closer,
		nextID:  1,
		pending: make(map[int]chan response),
		done:    make(chan struct{}),
		log:     log,
	}
	go c.readLoop(r)
	return c
}

// Spawn runs command (split on whitespace) and talks to it over its
// stdin and stdout.
func Spawn(ctx context.Context, command string, log *zap.Logger) (*Client, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command for stdio transport")
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start command %s: %w", parts[0], err)
	}
	c := NewClient(stdout, stdin, stdin, log)
	c.cmd = cmd
	return c, nil
}

func (c *Client) readLoop(r io.Reader) {
	defer close(c.done)
	defer c.failPending()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			c.log.Warn("Failed to parse response", zap.Error(err))
			continue
		}
		id, err := strconv.Atoi(string(resp.ID))
		if err != nil {
			c.log.Debug("Ignoring message without numeric id", zap.ByteString("line", line))
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Call sends one request and decodes its result into out.
func (c *Client) Call(ctx context.Context, method string, params, out interface{}) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := c.nextID
	c.nextID++

	req := struct {
		JSONRPC string      `json:"jsonrpc"`
		ID      int         `json:"id"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params,omitempty"`
	}{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	data, err := json.Marshal(req)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ch := make(chan response, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_, err = c.w.Write(append(data, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("failed to write request: %w", err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("failed to parse %s result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	}
}

// Initialize performs the protocol handshake.
func (c *Client) Initialize(ctx context.Context) error {
	return c.Call(ctx, "initialize", map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]string{"name": "quarterchart", "version": "0.1.0"},
	}, nil)
}

// CallTool invokes a tool by name.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
	var result ToolResult
	if err := c.Call(ctx, "tools/call", map[string]interface{}{"name": name, "arguments": args}, &result); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}
	return &result, nil
}

// QuarterData calls quarter_data and decodes the dataset from its text
// content.
func (c *Client) QuarterData(ctx context.Context, excelPath string) (*models.Dataset, error) {
	args := map[string]interface{}{}
	if excelPath != "" {
		args["excelPath"] = excelPath
	}
	result, err := c.CallTool(ctx, ToolName, args)
	if err != nil {
		return nil, err
	}
	text, ok := result.Text()
	if !ok {
		return nil, errors.New("tool returned no text content")
	}
	if result.IsError {
		return nil, errors.New(text)
	}
	var ds models.Dataset
	if err := json.Unmarshal([]byte(text), &ds); err != nil {
		return nil, fmt.Errorf("failed to parse tool result: %w", err)
	}
	ds.Densify()
	return &ds, nil
}

// Close closes the write side and waits for the reader to finish. A
// spawned server process is waited for.
func (c *Client) Close() error {
	var err error
	if c.closer != nil {
		err = c.closer.Close()
	}
	<-c.done
	if c.cmd != nil {
		if werr := c.cmd.Wait(); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
