package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/ai"
	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

type Metric struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type Chart struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	DataKey string `json:"dataKey"`
	NameKey string `json:"nameKey"`
}

// Dashboard is the chart configuration consumed by a front end.
type Dashboard struct {
	AnalysisText string   `json:"analysisText"`
	KeyMetrics   []Metric `json:"keyMetrics"`
	Charts       []Chart  `json:"charts"`
}

const defaultSampleRows = 5

// LocalDashboard derives a dashboard without a model: the first numeric column
// is the measure and the first categorical column names the series.
func LocalDashboard(t *dataset.Table, p *analysis.Profile) Dashboard {
	if t == nil {
		t = &dataset.Table{}
	}
	if p == nil {
		p = analysis.BuildProfile(t, analysis.DefaultOptions())
	}
	var first string
	if len(t.Columns) > 0 {
		first = t.Columns[0]
	}
	dataKey := first
	if len(p.Numeric) > 0 {
		dataKey = p.Numeric[0]
	} else {
		for _, h := range t.Columns {
			lh := strings.ToLower(h)
			if strings.Contains(lh, "amount") || strings.Contains(lh, "sales") {
				dataKey = h
				break
			}
		}
	}
	nameKey := first
	if len(p.Categorical) > 0 {
		nameKey = p.Categorical[0]
	}

	distinct := map[string]struct{}{}
	var sum float64
	for _, r := range t.Rows {
		distinct[r[nameKey].String()] = struct{}{}
		if f, ok := r[dataKey].Float(); ok {
			sum += f
		}
	}
	n := t.Len()
	avg := sum / float64(max(1, n))

	return Dashboard{
		AnalysisText: fmt.Sprintf("Automatic summary: %d records across %d columns. Top fields include %s and %s.", n, len(t.Columns), nameKey, dataKey),
		KeyMetrics: []Metric{
			{Title: "Unique Categories", Value: fmt.Sprint(len(distinct)), Description: fmt.Sprintf("Distinct values in %s.", nameKey)},
			{Title: "Sum", Value: analysis.FormatNum(sum), Description: fmt.Sprintf("Total of %s.", dataKey)},
			{Title: "Average", Value: fmt.Sprintf("%.2f", avg), Description: fmt.Sprintf("Average %s.", dataKey)},
		},
		Charts: []Chart{
			{Type: "bar", Title: fmt.Sprintf("%s by %s", dataKey, nameKey), DataKey: dataKey, NameKey: nameKey},
			{Type: "line", Title: "Trend of " + dataKey, DataKey: dataKey, NameKey: nameKey},
			{Type: "pie", Title: "Share of " + nameKey, DataKey: dataKey, NameKey: nameKey},
			{Type: "area", Title: "Area " + dataKey, DataKey: dataKey, NameKey: nameKey},
			{Type: "composed", Title: "Composed view", DataKey: dataKey, NameKey: nameKey},
		},
	}
}

// GenerateDashboard asks rt for a dashboard configuration using the first
// sampleRows rows as context. Callers fall back to LocalDashboard on error.
func GenerateDashboard(ctx context.Context, rt ai.Runtime, model string, t *dataset.Table, sampleRows int) (Dashboard, error) {
	if t == nil || t.Len() == 0 {
		return Dashboard{}, errors.New("dataset has no rows")
	}
	if sampleRows <= 0 {
		sampleRows = defaultSampleRows
	}
	sample, err := json.Marshal(t.Head(sampleRows))
	if err != nil {
		return Dashboard{}, fmt.Errorf("encode sample: %w", err)
	}
	text, err := ai.Ask(ctx, rt, ai.GenerateRequest{Model: model, MaxTokens: 1500, Temperature: 0.2}, ai.DashboardPrompt(t.Columns, string(sample)))
	if err != nil {
		return Dashboard{}, fmt.Errorf("generate dashboard: %w", err)
	}
	raw, err := ai.ExtractJSON(text)
	if err != nil {
		return Dashboard{}, err
	}
	var d Dashboard
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Dashboard{}, fmt.Errorf("parse dashboard: %w", err)
	}
	if d.AnalysisText == "" && len(d.Charts) == 0 {
		return Dashboard{}, errors.New("parse dashboard: response has no analysis or charts")
	}
	return d, nil
}
