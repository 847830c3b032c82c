package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "sales.csv", "Region,Sales,,Region\nEMEA,100,x,a\n\n APAC ,\"1,200\",y,b\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", tbl.Name)
	assert.Equal(t, []string{"Region", "Sales", "column_3", "Region_2"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "APAC", tbl.Rows[1]["Region"].String())
	f, ok := tbl.Rows[1]["Sales"].Float()
	require.True(t, ok)
	assert.Equal(t, 1200.0, f)
	assert.False(t, tbl.Truncated)
}

func TestLoadCSVSniffsSemicolon(t *testing.T) {
	p := writeFile(t, "eu.csv", "name;score\nann;1\nbob;2\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, tbl.Columns)
	assert.Equal(t, "bob", tbl.Rows[1]["name"].String())
}

func TestLoadTSVAndMaxRows(t *testing.T) {
	p := writeFile(t, "data.tsv", "a\tb\n1\t2\n3\t4\n5\t6\n")
	tbl, err := Load(p, LoadOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 3, tbl.Total)
	assert.True(t, tbl.Truncated)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "notes.pdf", "x"), LoadOptions{})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Load(writeFile(t, "empty.csv", ""), LoadOptions{})
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	rows := [][]any{
		{"Region", "Sales"},
		{"EMEA", 100},
		{"APAC", 200},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Orders", cell, &r))
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))

	tbl, err := Load(p, LoadOptions{SheetName: "Orders"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	v, ok := tbl.Rows[1]["Sales"].Float()
	require.True(t, ok)
	assert.Equal(t, 200.0, v)
	assert.Contains(t, tbl.Name, "sheet: Orders")

	_, err = Load(p, LoadOptions{SheetName: "Missing"})
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	_, err = Load(p, LoadOptions{SheetIndex: 9})
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestFromMaps(t *testing.T) {
	tbl := FromMaps([]string{"Region", "Sales"}, []map[string]any{
		{"Region": "EMEA", "Sales": 100},
		{"Region": "APAC"},
	})
	assert.True(t, tbl.HasColumn("Sales"))
	assert.False(t, tbl.HasColumn("Profit"))
	col := tbl.Column("Sales")
	assert.True(t, col[1].IsEmpty())
	assert.Len(t, tbl.Head(1), 1)
}
