package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// LoadOptions controls file ingestion.
type LoadOptions struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for delimited text. If 0, sniffed from the extension and header line.
	Delimiter rune
	// SheetName selects a workbook sheet by name; SheetIndex (1-based) is used otherwise.
	SheetName  string
	SheetIndex int
}

// Loader decodes one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

var (
	// ErrUnsupported indicates a format has no registered loader.
	ErrUnsupported = errors.New("unsupported dataset format")
	// ErrEmpty indicates the source has no header row.
	ErrEmpty = errors.New("dataset has no header row")
	// ErrSheetNotFound indicates the requested workbook sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// LoaderFor returns the first registered loader accepting filename.
func LoaderFor(filename string) (Loader, error) {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// Load picks a loader by extension and reads path into a Table.
func Load(path string, opt LoadOptions) (*Table, error) {
	l, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	t, err := l.Load(path, opt)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = filepath.Base(path)
	}
	slog.Debug("dataset loaded", "file", path, "rows", len(t.Rows), "cols", len(t.Columns), "truncated", t.Truncated, "took", time.Since(start))
	return t, nil
}

// fromRecords applies the header handling shared by all loaders.
func fromRecords(header []string, body [][]string, total int, opt LoadOptions) (*Table, error) {
	if header == nil || isBlankRecord(header) {
		return nil, ErrEmpty
	}
	t := NewTable(header, body)
	t.Total = total
	t.Truncated = opt.MaxRows > 0 && total > len(t.Rows)
	return t, nil
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
