package spreadsheet2json

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/parser"
)

// Convert reads the workbook at path and builds its document using the
// built-in locale table.
func Convert(path string, opts Options) (*models.Document, error) {
	return NewConverter().ConvertFile(path, opts)
}

// ConvertFile reads the workbook at path and builds its document.
// Properties.Path is the absolute input path unless opts.InputPath is set.
func (c *Converter) ConvertFile(path string, opts Options) (*models.Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	wb, err := parser.Open(abs, parser.Options{Locale: opts.EffectiveLocale()})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, path, err)
	}
	defer wb.Close()
	c.logger.Debug("workbook opened", "path", abs, "sheets", len(wb.SheetNames()))

	if opts.InputPath == "" {
		opts.InputPath = abs
	}
	return c.Build(wb, opts)
}
