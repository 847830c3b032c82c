package dataset

import (
	"fmt"
	"strings"
)

// Table is an in-memory row set with an explicit column order.
type Table struct {
	Name      string
	Columns   []string
	Rows      []Row
	Total     int  // rows seen in the source, before MaxRows
	Truncated bool // Rows holds fewer records than the source
}

// NewTable builds a table from a header record and text records. Blank header
// cells become column_N and repeated names get a numeric suffix.
func NewTable(header []string, records [][]string) *Table {
	cols := cleanHeaders(header)
	t := &Table{Columns: cols, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				r[c] = Str(rec[i])
			} else {
				r[c] = Empty()
			}
		}
		t.Rows = append(t.Rows, r)
	}
	t.Total = len(t.Rows)
	return t
}

// FromMaps builds a table from loosely typed records; columns keep the given order.
func FromMaps(columns []string, records []map[string]any) *Table {
	t := &Table{Columns: append([]string(nil), columns...), Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		r := make(Row, len(columns))
		for _, c := range columns {
			r[c] = FromAny(rec[c])
		}
		t.Rows = append(t.Rows, r)
	}
	t.Total = len(t.Rows)
	return t
}

// Len returns the number of loaded rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is part of the column universe.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the cells of one column in row order.
func (t *Table) Column(name string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Head returns at most n rows; the slice aliases the table.
func (t *Table) Head(n int) []Row {
	if n <= 0 || n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:n]
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
