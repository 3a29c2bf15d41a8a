package quarterchart

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrNoSheets indicates the workbook contains no sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrUIBundleMissing indicates the built UI bundle (dist/index.html) is absent.
var ErrUIBundleMissing = errors.New("UI bundle not built")

// LoadError represents an error while turning a workbook into a dataset.
type LoadError struct {
	Path  string
	Stage string // "open", "sheet", "rows"
	Err   error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, ErrFileNotFound) {
		return fmt.Sprintf("Excel not found: %s. Put your file at data/data.xlsx (recommended) or set EXCEL_PATH.", e.Path)
	}
	return fmt.Sprintf("loading %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path, stage string, err error) *LoadError {
	return &LoadError{
		Path:  path,
		Stage: stage,
		Err:   err,
	}
}
