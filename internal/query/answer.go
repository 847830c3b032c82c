package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// CannotAnswer is returned for questions that resolve but find no data.
const CannotAnswer = "I can't answer that from this data."

const maxListed = 10

// QueryContext remembers the last ranked answer so "what is it?" can be
// resolved. The zero value is an empty context. Values are never mutated;
// every call returns the context for the next turn.
type QueryContext struct {
	Type    IntentType           `json:"type,omitempty"`
	Dim     string               `json:"dim,omitempty"`
	Measure string               `json:"measure,omitempty"`
	Winners []analysis.NameValue `json:"winners,omitempty"`
}

// Answer is a resolved question.
type Answer struct {
	Intent  Intent               `json:"intent"`
	Text    string               `json:"text"`
	Results []analysis.NameValue `json:"results,omitempty"`
}

// AnswerFromData infers the schema from p and t, then answers query. A nil
// answer means no dimension or measure could be resolved and the caller should
// fall back. The returned context replaces ctx for the next call.
func AnswerFromData(query string, t *dataset.Table, p *analysis.Profile, ctx QueryContext) (*Answer, QueryContext) {
	return AnswerWithSchema(query, t, InferGenericSchema(p, t), ctx)
}

// AnswerWithSchema answers against a precomputed schema.
func AnswerWithSchema(query string, t *dataset.Table, s Schema, ctx QueryContext) (*Answer, QueryContext) {
	in := ParseQuery(query, s)
	switch in.Type {
	case IntentUnknown:
		return nil, ctx
	case IntentFollowup:
		return followup(in, ctx), ctx
	}
	if t.Len() == 0 {
		return nil, ctx
	}
	rows := t.Rows
	switch in.Type {
	case IntentTop:
		return top(in, rows, ctx)
	case IntentTotal:
		return total(in, rows), ctx
	case IntentAvg:
		return average(in, rows), ctx
	case IntentCountsBy:
		return countsBy(in, rows), ctx
	case IntentMostCommon:
		return mostCommon(in, rows, ctx)
	}
	return nil, ctx
}

func top(in Intent, rows []dataset.Row, ctx QueryContext) (*Answer, QueryContext) {
	if in.Dim == "" || in.Measure == "" {
		return nil, ctx
	}
	winners := analysis.SortTop(analysis.SumBy(rows, in.Dim, in.Measure), in.K, true)
	next := QueryContext{Type: IntentTop, Dim: in.Dim, Measure: in.Measure, Winners: cloneWinners(winners)}
	a := &Answer{Intent: in, Results: winners}
	switch {
	case len(winners) == 0:
		a.Text = CannotAnswer
	case in.K == 1:
		a.Text = fmt.Sprintf("Top **%s** by **%s** is **%s** with **%s**.", in.Dim, in.Measure, winners[0].Name, formatValue(winners[0].Value))
	default:
		parts := make([]string, len(winners))
		for i, w := range winners {
			parts[i] = fmt.Sprintf("%d) **%s** (%s)", i+1, w.Name, formatValue(w.Value))
		}
		a.Text = fmt.Sprintf("Top %d **%s** by **%s** → %s", in.K, in.Dim, in.Measure, strings.Join(parts, " · "))
	}
	return a, next
}

func total(in Intent, rows []dataset.Row) *Answer {
	if in.Measure == "" {
		return nil
	}
	a := &Answer{Intent: in}
	if in.Dim != "" {
		a.Results = analysis.SortTop(analysis.SumBy(rows, in.Dim, in.Measure), 0, true)
		if len(a.Results) == 0 {
			a.Text = CannotAnswer
			return a
		}
		a.Text = fmt.Sprintf("Total **%s** by **%s** → %s", in.Measure, in.Dim, listing(a.Results, formatValue))
		return a
	}
	sum := 0.0
	for _, r := range rows {
		if f, ok := r[in.Measure].Float(); ok {
			sum += f
		}
	}
	a.Text = fmt.Sprintf("Total **%s** is **%s**.", in.Measure, formatValue(sum))
	return a
}

func average(in Intent, rows []dataset.Row) *Answer {
	if in.Measure == "" {
		return nil
	}
	a := &Answer{Intent: in}
	fixed2 := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	if in.Dim != "" {
		a.Results = analysis.SortTop(analysis.AvgBy(rows, in.Dim, in.Measure), 0, true)
		if len(a.Results) == 0 {
			a.Text = CannotAnswer
			return a
		}
		a.Text = fmt.Sprintf("Average **%s** by **%s** → %s", in.Measure, in.Dim, listing(a.Results, fixed2))
		return a
	}
	sum, n := 0.0, 0
	for _, r := range rows {
		if f, ok := r[in.Measure].Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		a.Text = CannotAnswer
		return a
	}
	a.Text = fmt.Sprintf("Average **%s** is **%s**.", in.Measure, fixed2(sum/float64(n)))
	return a
}

func countsBy(in Intent, rows []dataset.Row) *Answer {
	if in.Dim == "" {
		return nil
	}
	a := &Answer{Intent: in, Results: analysis.SortTop(analysis.CountBy(rows, in.Dim), 0, true)}
	if len(a.Results) == 0 {
		a.Text = CannotAnswer
		return a
	}
	a.Text = fmt.Sprintf("Counts by **%s** → %s", in.Dim, listing(a.Results, formatValue))
	return a
}

func mostCommon(in Intent, rows []dataset.Row, ctx QueryContext) (*Answer, QueryContext) {
	if in.Dim == "" {
		return nil, ctx
	}
	winners := analysis.SortTop(analysis.CountBy(rows, in.Dim), 1, true)
	next := QueryContext{Type: IntentTop, Dim: in.Dim, Measure: "count", Winners: cloneWinners(winners)}
	a := &Answer{Intent: in, Results: winners}
	if len(winners) == 0 {
		a.Text = CannotAnswer
		return a, next
	}
	a.Text = fmt.Sprintf("Most common **%s** is **%s** with **%s** records.", in.Dim, winners[0].Name, formatValue(winners[0].Value))
	return a, next
}

// followup answers from ctx alone. "what is the <measure>?" yields the
// winning value; anything else yields the winning name.
func followup(in Intent, ctx QueryContext) *Answer {
	a := &Answer{Intent: in}
	if len(ctx.Winners) == 0 {
		a.Text = CannotAnswer
		return a
	}
	w := ctx.Winners[0]
	a.Results = []analysis.NameValue{w}
	if in.AskedHeader != "" && ctx.Measure != "" {
		known := []string{ctx.Dim, ctx.Measure}
		if bestMatch(known, tokensOf(in.AskedHeader), known) == ctx.Measure {
			a.Text = fmt.Sprintf("**%s**", formatValue(w.Value))
			return a
		}
	}
	a.Text = fmt.Sprintf("**%s**", w.Name)
	return a
}

func cloneWinners(w []analysis.NameValue) []analysis.NameValue {
	return append([]analysis.NameValue(nil), w...)
}

func listing(list []analysis.NameValue, format func(float64) string) string {
	n := len(list)
	if n > maxListed {
		n = maxListed
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("**%s**: %s", list[i].Name, format(list[i].Value))
	}
	out := strings.Join(parts, " · ")
	if len(list) > n {
		out += fmt.Sprintf(" · … (+%d more)", len(list)-n)
	}
	return out
}

// formatValue prints whole numbers without decimals and rounds the rest to two places.
func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
