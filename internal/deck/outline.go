// Package deck turns a dataset profile into presentation material: a slide
// outline and a dashboard configuration, either from an LLM or computed locally.
package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/dataloom-cli/internal/ai"
	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
)

const defaultMaxSlides = 6

type Slide struct {
	SlideTitle string   `json:"slideTitle"`
	Points     []string `json:"points"`
}

type Outline struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

var grouped = message.NewPrinter(language.English)

// FallbackOutline builds a one-slide executive summary from the profile alone.
func FallbackOutline(title string, p *analysis.Profile) Outline {
	if p == nil {
		p = &analysis.Profile{}
	}
	if strings.TrimSpace(title) == "" {
		title = grouped.Sprintf("Comprehensive Analysis of %d Records", p.NRows)
	}
	points := []string{grouped.Sprintf("Scope: %d rows × %d columns", p.NRows, p.NCols)}

	if len(p.KPIs) > 0 {
		parts := make([]string, len(p.KPIs))
		for i, k := range p.KPIs {
			parts[i] = fmt.Sprintf("%s (%s)", k.Name, analysis.FormatNum(k.Avg))
		}
		points = append(points, "Key metrics: "+strings.Join(parts, ", "))
	} else {
		points = append(points, "Quant analysis limited")
	}

	if p.TopCatCol != "" && len(p.TopCats) > 0 && p.NRows > 0 {
		top := p.TopCats[0]
		share := math.Round(top.Value / float64(p.NRows) * 100)
		points = append(points, fmt.Sprintf("Top segment: %s (%.0f%% share)", top.Name, share))
	} else {
		points = append(points, "Segmentation available")
	}

	if len(p.TopCorrelations) > 0 {
		c := p.TopCorrelations[0]
		points = append(points, fmt.Sprintf("Strongest: %s vs %s (r=%.3f)", c.A, c.B, c.R))
	} else {
		points = append(points, "Relationships pending")
	}

	return Outline{Title: title, Slides: []Slide{{SlideTitle: "Executive Summary", Points: points}}}
}

// GenerateOutline asks rt for an outline grounded in the profile report.
// Slides beyond maxSlides are dropped, as are slides without points.
func GenerateOutline(ctx context.Context, rt ai.Runtime, model, title string, p *analysis.Profile, maxSlides int) (Outline, error) {
	if p == nil {
		return Outline{}, errors.New("profile is required")
	}
	if maxSlides <= 0 {
		maxSlides = defaultMaxSlides
	}
	prompt := ai.OutlinePrompt(title, p.Markdown(), maxSlides)
	text, err := ai.Ask(ctx, rt, ai.GenerateRequest{Model: model, MaxTokens: 1200, Temperature: 0.2}, prompt)
	if err != nil {
		return Outline{}, fmt.Errorf("generate outline: %w", err)
	}
	raw, err := ai.ExtractJSON(text)
	if err != nil {
		return Outline{}, err
	}
	var out Outline
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Outline{}, fmt.Errorf("parse outline: %w", err)
	}
	slides := out.Slides[:0]
	for _, s := range out.Slides {
		if len(s.Points) == 0 || len(slides) == maxSlides {
			continue
		}
		slides = append(slides, s)
	}
	out.Slides = slides
	if len(out.Slides) == 0 {
		return Outline{}, errors.New("parse outline: no slides in response")
	}
	if strings.TrimSpace(title) != "" {
		out.Title = title
	} else if out.Title == "" {
		out.Title = FallbackOutline("", p).Title
	}
	return out, nil
}

// Markdown renders the outline as a heading per slide with bullet points.
func (o Outline) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + o.Title + "\n")
	for i, s := range o.Slides {
		b.WriteString(fmt.Sprintf("\n## %d. %s\n", i+1, s.SlideTitle))
		for _, pt := range s.Points {
			b.WriteString("- " + pt + "\n")
		}
	}
	return b.String()
}
