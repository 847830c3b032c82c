package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the profile as bracket-sectioned text suited to LLM context.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.NRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", p.NCols))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		kind := "unclassified"
		if k, ok := p.Classification.KindOf(c); ok {
			kind = k.String()
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(c), kind))
	}

	if len(p.KPIs) > 0 {
		b.WriteString("\n[KPIS]\n")
		for _, k := range p.KPIs {
			b.WriteString(fmt.Sprintf("- %s: sum %s, avg %s, std %s, min %s, max %s (n=%d", safeName(k.Name),
				FormatNum(k.Sum), FormatNum(k.Avg), FormatNum(k.Std), FormatNum(k.Min), FormatNum(k.Max), k.N))
			if k.OutlierRatio > 0 {
				b.WriteString(fmt.Sprintf(", %.1f%% trimmed as outliers", k.OutlierRatio*100))
			}
			b.WriteString(")\n")
		}
	}

	if p.TopCatCol != "" && len(p.TopCats) > 0 {
		b.WriteString(fmt.Sprintf("\n[TOP CATEGORIES: %s]\n", safeName(p.TopCatCol)))
		for _, c := range p.TopCats {
			share := 0.0
			if p.NRows > 0 {
				share = c.Value * 100 / float64(p.NRows)
			}
			b.WriteString(fmt.Sprintf("- %s: %d (%.0f%%)\n", safeVal(c.Name), int(c.Value), share))
		}
	}

	if len(p.Trend) > 0 {
		b.WriteString(fmt.Sprintf("\n[TREND: %s]\n", safeName(p.DateCol)))
		for _, t := range p.Trend {
			b.WriteString(fmt.Sprintf("- %s: %s\n", t.Period, FormatNum(t.Value)))
		}
	}

	if len(p.TopCorrelations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, c := range p.TopCorrelations {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", safeName(c.A), safeName(c.B), c.R))
		}
	}
	if len(p.RankedRelationships) > 0 {
		b.WriteString("\n[RANKED RELATIONSHIPS]\n")
		for _, r := range p.RankedRelationships {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f, coverage %.0f%%, score %.4g\n", safeName(r.A), safeName(r.B), r.R, r.Coverage*100, r.Score))
		}
	}

	if len(p.CategoryKPIs) > 0 {
		b.WriteString(fmt.Sprintf("\n[CATEGORY KPIS: %s by %s]\n", safeName(p.MeasureCol), safeName(p.CategoryCol)))
		lim := 10
		if len(p.CategoryKPIs) < lim {
			lim = len(p.CategoryKPIs)
		}
		for _, c := range p.CategoryKPIs[:lim] {
			b.WriteString(fmt.Sprintf("- %s: sum %s, avg %s, count %d, min %s, max %s\n", safeVal(c.Category),
				FormatNum(c.Sum), FormatNum(c.Avg), c.Count, FormatNum(c.Min), FormatNum(c.Max)))
		}
		if len(p.CategoryKPIs) > lim {
			b.WriteString(fmt.Sprintf("- ... %d more\n", len(p.CategoryKPIs)-lim))
		}
	}
	if p.Extremes != nil && len(p.CategoryKPIs) > segmentSize {
		b.WriteString("\n[SEGMENTS]\n")
		b.WriteString(fmt.Sprintf("- Highest average: %s\n", segmentNames(p.Extremes.TopAvg, func(k CategoryKPI) float64 { return k.Avg })))
		b.WriteString(fmt.Sprintf("- Lowest total: %s\n", segmentNames(p.Extremes.BottomSum, func(k CategoryKPI) float64 { return k.Sum })))
	}

	if len(p.Distribution) > 0 {
		b.WriteString(fmt.Sprintf("\n[DISTRIBUTION: %s]\n", safeName(p.MeasureCol)))
		for _, d := range p.Distribution {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", d.Range, d.Count, d.Percentage))
		}
	}
	if len(p.Seasonality) > 0 {
		b.WriteString("\n[SEASONALITY]\n")
		for _, s := range p.Seasonality {
			b.WriteString(fmt.Sprintf("- month %02d: avg %s\n", s.Month, FormatNum(s.Average)))
		}
	}
	if len(p.Anomalies) > 0 {
		b.WriteString("\n[ANOMALIES]\n")
		for _, a := range p.Anomalies {
			b.WriteString(fmt.Sprintf("- %s: %s (z=%.2f)\n", a.Period, FormatNum(a.Value), a.Z))
		}
	}
	return b.String()
}

var sectionLine = regexp.MustCompile(`(?m)^\[([^\]]+)\]$`)

// HTML renders Markdown as a standalone page.
func (p *Profile) HTML() string {
	md := sectionLine.ReplaceAllStringFunc(p.Markdown(), func(s string) string {
		return "## " + titleCase(strings.Trim(s, "[]"))
	})
	title := "Dataset profile"
	if p.Name != "" {
		title = p.Name
	}
	md = "# " + title + "\n\n" + md
	ps := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: title,
	})
	return string(markdown.ToHTML([]byte(md), ps, r))
}

// titleCase turns "TOP CATEGORIES: Region" into "Top categories: Region".
func titleCase(s string) string {
	head, rest, found := strings.Cut(s, ":")
	head = strings.ToLower(head)
	if head != "" {
		head = strings.ToUpper(head[:1]) + head[1:]
	}
	if found {
		return head + ":" + rest
	}
	return head
}

func segmentNames(xs []CategoryKPI, value func(CategoryKPI) float64) string {
	names := make([]string, len(xs))
	for i, x := range xs {
		names[i] = fmt.Sprintf("%s (%s)", safeVal(x.Category), FormatNum(math.Round(value(x)*100)/100))
	}
	return strings.Join(names, ", ")
}

func safeName(s string) string {
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
