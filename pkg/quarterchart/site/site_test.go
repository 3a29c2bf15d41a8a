package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
)

type fixture struct {
	root, dist, docs, excel, published string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		root:      root,
		dist:      filepath.Join(root, "dist"),
		docs:      filepath.Join(root, "docs"),
		excel:     filepath.Join(root, "data", "data.xlsx"),
		published: filepath.Join(root, "data", "published-defaults.json"),
	}
	require.NoError(t, os.MkdirAll(f.dist, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(f.excel), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.dist, IndexFile), []byte("<html>chart</html>"), 0o644))
	require.NoError(t, os.WriteFile(f.excel, []byte("stub"), 0o644))
	return f
}

func stubLoad(path string) (*models.Dataset, error) {
	return &models.Dataset{
		ExcelPath:  path,
		Quarters:   []string{"2020-Q1"},
		Categories: []string{"A"},
		Series:     []models.SeriesEntry{{Quarter: "2020-Q1", Values: map[string]float64{"A": 3}}},
	}, nil
}

func (f fixture) options() BuildOptions {
	return BuildOptions{DistDir: f.dist, DocsDir: f.docs, ExcelPath: f.excel, PublishedDefaults: f.published, Load: stubLoad}
}

func TestBuild(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.published, []byte(`{"categoryOrder":["A"]}`), 0o644))

	written, err := Build(f.options())
	require.NoError(t, err)
	assert.Len(t, written, 4)

	index, err := os.ReadFile(filepath.Join(f.docs, IndexFile))
	require.NoError(t, err)
	assert.Equal(t, "<html>chart</html>", string(index))

	raw, err := os.ReadFile(filepath.Join(f.docs, DataFile))
	require.NoError(t, err)
	var ds models.Dataset
	require.NoError(t, json.Unmarshal(raw, &ds))
	assert.Equal(t, []string{"2020-Q1"}, ds.Quarters)
	assert.Equal(t, 3.0, ds.Series[0].Values["A"])

	assert.FileExists(t, filepath.Join(f.docs, NoJekyllFile))
	assert.FileExists(t, filepath.Join(f.docs, "published-defaults.json"))
}

func TestBuildWithoutPublishedDefaults(t *testing.T) {
	f := newFixture(t)
	written, err := Build(f.options())
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.NoFileExists(t, filepath.Join(f.docs, "published-defaults.json"))
}

func TestBuildMissingBundle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.dist, IndexFile)))

	_, err := Build(f.options())
	assert.ErrorIs(t, err, quarterchart.ErrUIBundleMissing)
	assert.NoDirExists(t, f.docs)
}

func TestBuildMissingWorkbook(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.excel))

	_, err := Build(f.options())
	assert.ErrorIs(t, err, quarterchart.ErrFileNotFound)
	assert.Contains(t, err.Error(), "data/data.xlsx")
}

func TestIndexOrPlaceholder(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "<html>chart</html>", string(IndexOrPlaceholder(f.dist)))
	assert.Contains(t, string(IndexOrPlaceholder(filepath.Join(f.root, "nowhere"))), "UI not built")
}
