package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/mcp"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
)

// Source produces a dataset for a workbook path.
type Source interface {
	Load(ctx context.Context, path string) (*models.Dataset, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) (*models.Dataset, error)

func (f SourceFunc) Load(ctx context.Context, path string) (*models.Dataset, error) {
	return f(ctx, path)
}

// FileSource reads workbooks from the local filesystem.
type FileSource struct {
	Options quarterchart.Options
}

func (s FileSource) Load(ctx context.Context, path string) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return quarterchart.Load(path, s.Options)
}

const defaultHTTPTimeout = 30 * time.Second

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// APISource asks a preview server's /api/quarter_data endpoint.
type APISource struct {
	BaseURL string
	Client  *http.Client
}

func (s APISource) Load(ctx context.Context, path string) (*models.Dataset, error) {
	u, err := url.JoinPath(s.BaseURL, "api", "quarter_data")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", s.BaseURL, err)
	}
	if path != "" {
		u += "?" + url.Values{"excelPath": {path}}.Encode()
	}
	return fetchDataset(ctx, httpClient(s.Client), u, "local API error")
}

// StaticSource reads a published data.json from a URL or file. The
// requested path is ignored.
type StaticSource struct {
	Location string
	Client   *http.Client
}

func (s StaticSource) Load(ctx context.Context, _ string) (*models.Dataset, error) {
	if strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://") {
		return fetchDataset(ctx, httpClient(s.Client), s.Location, "static data.json error")
	}
	data, err := os.ReadFile(s.Location)
	if err != nil {
		return nil, fmt.Errorf("static data.json error: %w", err)
	}
	return decodeDataset(data)
}

// MCPSource calls the quarter_data tool of a connected server.
type MCPSource struct {
	Client *mcp.Client
}

func (s MCPSource) Load(ctx context.Context, path string) (*models.Dataset, error) {
	return s.Client.QuarterData(ctx, path)
}

// FallbackSource tries each source in order and returns the first
// success. When all fail the errors are joined.
type FallbackSource struct {
	Sources []Source
	Logger  *zap.Logger
}

func (s FallbackSource) Load(ctx context.Context, path string) (*models.Dataset, error) {
	var errs []error
	for i, src := range s.Sources {
		ds, err := src.Load(ctx, path)
		if err == nil {
			return ds, nil
		}
		if s.Logger != nil {
			s.Logger.Debug("Source failed, trying next", zap.Int("source", i), zap.Error(err))
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("no data source configured")
	}
	return nil, errors.Join(errs...)
}

type errorBody struct {
	Error string `json:"error"`
}

func fetchDataset(ctx context.Context, client *http.Client, u, label string) (*models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			return nil, fmt.Errorf("%s: %d %s: %s", label, resp.StatusCode, http.StatusText(resp.StatusCode), body.Error)
		}
		return nil, fmt.Errorf("%s: %d %s", label, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return decodeDataset(data)
}

// decodeDataset parses a dataset received from outside the aggregator
// and restores its density.
func decodeDataset(data []byte) (*models.Dataset, error) {
	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	ds.Densify()
	return &ds, nil
}
