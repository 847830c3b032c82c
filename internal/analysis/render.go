package analysis

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTables formats the KPI, category and correlation sections as
// terminal tables.
func RenderTables(p *Profile) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %d rows x %d columns\n", nameOr(p.Name, "dataset"), p.NRows, p.NCols))

	schema := newTable("Column", "Kind")
	for _, c := range p.Cols {
		kind := "-"
		if k, ok := p.Classification.KindOf(c); ok {
			kind = k.String()
		}
		schema.AppendRow(table.Row{c, kind})
	}
	b.WriteString(schema.Render())
	b.WriteString("\n")

	if len(p.KPIs) > 0 {
		t := newTable("Metric", "Sum", "Avg", "Std", "Min", "Max", "N", "Trimmed")
		for _, k := range p.KPIs {
			t.AppendRow(table.Row{k.Name, FormatNum(k.Sum), FormatNum(k.Avg), FormatNum(k.Std),
				FormatNum(k.Min), FormatNum(k.Max), k.N, fmt.Sprintf("%.1f%%", k.OutlierRatio*100)})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	if len(p.CategoryKPIs) > 0 {
		t := newTable(p.CategoryCol, "Sum", "Avg", "Count", "Min", "Max")
		t.SetTitle(fmt.Sprintf("%s by %s", p.MeasureCol, p.CategoryCol))
		for i, c := range p.CategoryKPIs {
			if i == 10 {
				break
			}
			t.AppendRow(table.Row{c.Category, FormatNum(c.Sum), FormatNum(c.Avg), c.Count, FormatNum(c.Min), FormatNum(c.Max)})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	if len(p.TopCorrelations) > 0 {
		t := newTable("A", "B", "r")
		for _, c := range p.TopCorrelations {
			t.AppendRow(table.Row{c.A, c.B, fmt.Sprintf("%.3f", c.R)})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	if len(p.Anomalies) > 0 {
		t := newTable("Period", "Value", "z")
		for _, a := range p.Anomalies {
			t.AppendRow(table.Row{a.Period, FormatNum(a.Value), fmt.Sprintf("%.2f", a.Z)})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}

func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row(header))
	t.SetStyle(table.StyleLight)
	return t
}

func nameOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
