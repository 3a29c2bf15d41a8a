package quarterchart

import (
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/aggregate"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Load reads the workbook at path and aggregates it into a dataset.
// The returned dataset carries path unchanged as its provenance label.
func Load(path string, opts Options) (*models.Dataset, error) {
	log := opts.logger()
	filePath := NormalizePath(path)

	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return nil, NewLoadError(filePath, "open", ErrFileNotFound)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, NewLoadError(filePath, "open", err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheetList := f.GetSheetList()
		if len(sheetList) == 0 {
			return nil, NewLoadError(filePath, "sheet", ErrNoSheets)
		}
		sheetName = sheetList[0]
	}

	sheet, err := parser.ReadRows(f, sheetName)
	if err != nil {
		return nil, NewLoadError(filePath, "rows", err)
	}

	var aggOpts []aggregate.Option
	if opts.Locale != "" {
		if tag, err := language.Parse(opts.Locale); err == nil {
			aggOpts = append(aggOpts, aggregate.WithLocale(tag))
		} else {
			log.Warn("Ignoring unknown locale", zap.String("locale", opts.Locale), zap.Error(err))
		}
	}

	ds, stats := aggregate.Aggregate(path, slices.Values(sheet.Rows), aggOpts...)
	log.Info("Loaded workbook",
		zap.String("path", filePath),
		zap.String("sheet", sheetName),
		zap.String("range", sheet.Range),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("defaulted", stats.Defaulted),
		zap.Int("quarters", len(ds.Quarters)),
		zap.Int("categories", len(ds.Categories)))

	return ds, nil
}

// NormalizePath accepts forward slashes from browser input on every
// platform and returns a path in the local separator convention.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if os.PathSeparator == '\\' {
		return strings.ReplaceAll(p, "/", `\`)
	}
	return p
}
