package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"go.uber.org/zap"
)

// PublishedFileName is the conventional name of the published defaults file.
const PublishedFileName = "published-defaults.json"

var publishedClient = &http.Client{Timeout: 10 * time.Second}

// LoadPublished reads published defaults from a file path or an http(s)
// URL. A missing, unreachable or malformed source yields empty defaults.
func LoadPublished(ctx context.Context, src string, log *zap.Logger) models.PreferenceDefaults {
	if log == nil {
		log = zap.NewNop()
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return models.PreferenceDefaults{}
	}

	data, err := fetchPublished(ctx, src)
	if err != nil {
		log.Debug("No published defaults", zap.String("source", src), zap.Error(err))
		return models.PreferenceDefaults{}
	}
	d, err := ParsePublished(data)
	if err != nil {
		log.Debug("Ignoring malformed published defaults", zap.String("source", src), zap.Error(err))
		return models.PreferenceDefaults{}
	}
	return d
}

func fetchPublished(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := publishedClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", src, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ParsePublished decodes and sanitizes a published defaults document.
// Only valid colors and string order entries are kept.
func ParsePublished(data []byte) (models.PreferenceDefaults, error) {
	var input interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return models.PreferenceDefaults{}, err
	}
	return Sanitize(input), nil
}

// Sanitize extracts the valid parts of an untyped defaults document.
func Sanitize(input interface{}) models.PreferenceDefaults {
	var out models.PreferenceDefaults
	obj, ok := input.(map[string]interface{})
	if !ok {
		return out
	}
	if colors, ok := obj["colorsByCategory"].(map[string]interface{}); ok {
		out.ColorsByCategory = sanitizeColors(colors)
	}
	if order, ok := obj["categoryOrder"].([]interface{}); ok {
		out.CategoryOrder = sanitizeOrder(order)
	}
	return out
}

func sanitizeColors(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if c, err := NormalizeColor(s); err == nil {
			out[k] = c
		}
	}
	return out
}

func sanitizeOrder(in []interface{}) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// WriteSnapshot writes d as an indented published defaults document.
func WriteSnapshot(path string, d models.PreferenceDefaults) error {
	d = sanitizeDefaults(d)
	if d.ColorsByCategory == nil {
		d.ColorsByCategory = map[string]string{}
	}
	if d.CategoryOrder == nil {
		d.CategoryOrder = []string{}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func sanitizeDefaults(d models.PreferenceDefaults) models.PreferenceDefaults {
	var out models.PreferenceDefaults
	if d.ColorsByCategory != nil {
		out.ColorsByCategory = make(map[string]string, len(d.ColorsByCategory))
		for k, v := range d.ColorsByCategory {
			if c, err := NormalizeColor(v); err == nil {
				out.ColorsByCategory[k] = c
			}
		}
	}
	if d.CategoryOrder != nil {
		out.CategoryOrder = append([]string{}, d.CategoryOrder...)
	}
	return out
}
