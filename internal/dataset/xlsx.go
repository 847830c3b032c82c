package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return hasExt(filename, ".xlsx", ".xlsm")
}

// Load reads one sheet: SheetName when set, else the 1-based SheetIndex, else the first sheet.
func (xlsxLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var (
		header []string
		body   [][]string
		total  int
	)
	for rows.Next() {
		rec, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if header == nil {
			if isBlankRecord(rec) {
				continue
			}
			header = rec
			continue
		}
		if isBlankRecord(rec) {
			continue
		}
		total++
		if opt.MaxRows <= 0 || len(body) < opt.MaxRows {
			body = append(body, rec)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	t, err := fromRecords(header, body, total, opt)
	if err != nil {
		return nil, err
	}
	if len(f.GetSheetList()) > 1 {
		t.Name = fmt.Sprintf("%s (sheet: %s)", filepath.Base(path), sheet)
	}
	return t, nil
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", ErrEmpty
	}
	if name != "" {
		for _, s := range sheets {
			if s == name {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	if index <= 0 {
		return sheets[0], nil
	}
	if index > len(sheets) {
		return "", fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, index, len(sheets))
	}
	return sheets[index-1], nil
}
