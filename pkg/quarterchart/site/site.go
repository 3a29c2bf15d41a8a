// Package site reads the built UI bundle and packages a static site that
// serves a pre-generated dataset.
package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
)

// File names inside the dist and docs directories.
const (
	IndexFile    = "index.html"
	DataFile     = "data.json"
	NoJekyllFile = ".nojekyll"
)

// ReadIndex reads dist/index.html. A missing bundle yields an error
// wrapping quarterchart.ErrUIBundleMissing.
func ReadIndex(distDir string) ([]byte, error) {
	p := filepath.Join(distDir, IndexFile)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s not found, build the UI first: %w", p, quarterchart.ErrUIBundleMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// IndexOrPlaceholder returns the bundle, or a page explaining how to
// build it.
func IndexOrPlaceholder(distDir string) []byte {
	data, err := ReadIndex(distDir)
	if err != nil {
		return NotBuiltPage(distDir)
	}
	return data
}

// NotBuiltPage is served in place of a missing UI bundle.
func NotBuiltPage(distDir string) []byte {
	abs, err := filepath.Abs(distDir)
	if err != nil {
		abs = distDir
	}
	return []byte(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Quarter Chart (not built)</title>
    <style>body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:24px;}</style>
  </head>
  <body>
    <h1>UI not built</h1>
    <p>Place the built UI at <code>` + html.EscapeString(filepath.Join(abs, IndexFile)) + `</code>, then reload. The chart is also available at <a href="/chart.svg">/chart.svg</a>.</p>
  </body>
</html>
`)
}

// BuildOptions configures Build.
type BuildOptions struct {
	DistDir   string
	DocsDir   string
	ExcelPath string
	// PublishedDefaults is copied to the site when it exists.
	PublishedDefaults string
	// Load aggregates the workbook. Defaults to quarterchart.Load.
	Load   func(path string) (*models.Dataset, error)
	Logger *zap.Logger
}

// Build writes docs/index.html, docs/data.json, docs/.nojekyll and, when
// present, docs/published-defaults.json. It returns the written paths.
func Build(opts BuildOptions) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	load := opts.Load
	if load == nil {
		load = func(p string) (*models.Dataset, error) {
			return quarterchart.Load(p, quarterchart.Options{Logger: log})
		}
	}

	index, err := ReadIndex(opts.DistDir)
	if err != nil {
		return nil, err
	}
	excelAbs, err := filepath.Abs(quarterchart.NormalizePath(opts.ExcelPath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.ExcelPath, err)
	}
	if _, err := os.Stat(excelAbs); errors.Is(err, os.ErrNotExist) {
		return nil, quarterchart.NewLoadError(excelAbs, "open", quarterchart.ErrFileNotFound)
	}

	if err := os.MkdirAll(opts.DocsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.DocsDir, err)
	}

	var written []string
	indexPath := filepath.Join(opts.DocsDir, IndexFile)
	if err := os.WriteFile(indexPath, index, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	written = append(written, indexPath)

	ds, err := load(excelAbs)
	if err != nil {
		return written, err
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return written, fmt.Errorf("failed to encode dataset: %w", err)
	}
	dataPath := filepath.Join(opts.DocsDir, DataFile)
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", dataPath, err)
	}
	written = append(written, dataPath)

	if opts.PublishedDefaults != "" {
		dst := filepath.Join(opts.DocsDir, prefs.PublishedFileName)
		copied, err := copyIfExists(opts.PublishedDefaults, dst)
		if err != nil {
			return written, err
		}
		if copied {
			written = append(written, dst)
		}
	}

	noJekyll := filepath.Join(opts.DocsDir, NoJekyllFile)
	if err := os.WriteFile(noJekyll, nil, 0o644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", noJekyll, err)
	}
	written = append(written, noJekyll)

	log.Info("Wrote static site", zap.String("dir", opts.DocsDir), zap.Strings("files", written))
	return written, nil
}

func copyIfExists(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return false, fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return true, out.Close()
}
