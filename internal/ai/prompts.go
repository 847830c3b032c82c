package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const analystSystem = "You are a careful data analyst. Answer only from the data you are given."

// QuestionPrompt builds the fallback prompt used when a question cannot be
// answered locally. rowsJSON and statsJSON are embedded verbatim.
func QuestionPrompt(question, rowsJSON, statsJSON string) string {
	var b strings.Builder
	b.WriteString("You are a helpful and knowledgeable data analyst.\n")
	b.WriteString("You have access to a dataset and precomputed statistics. Answer the user's question from them.\n\n")
	b.WriteString("USER QUESTION:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nDATASET (JSON rows):\n")
	b.WriteString(rowsJSON)
	b.WriteString("\n\nPRECOMPUTED STATS (safe to use):\n")
	b.WriteString(statsJSON)
	b.WriteString("\n\nGUIDELINES:\n")
	b.WriteString("- Work out the intent behind the question and answer it directly from the data and stats.\n")
	b.WriteString("- Prefer the precomputed stats over recomputing from rows; rows may be a truncated sample.\n")
	b.WriteString("- When the question implies an analysis, give a concise data-backed insight close to what was asked.\n")
	b.WriteString("- If the data cannot answer it, say why briefly and suggest a question the data can answer.\n")
	b.WriteString("- Keep numbers as they appear in the data and keep the answer under 200 words.\n")
	return b.String()
}

// DashboardPrompt asks for a dashboard configuration as a single JSON object.
func DashboardPrompt(headers []string, sampleJSON string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are a data analyst. Analyze the provided dataset with the following headers: %s.\n", strings.Join(headers, ", ")))
	b.WriteString("Here is a small sample of the data to understand the structure:\n")
	b.WriteString(sampleJSON)
	b.WriteString("\n\n1. Provide a concise narrative summary of the data, highlighting key trends, relationships, and patterns.\n")
	b.WriteString("2. Identify 4-5 key metrics that would be most useful for a business reader, relevant to this dataset.\n")
	b.WriteString("3. Return a dashboard configuration. dataKey must name a numeric column or a count of a categorical column; nameKey must name a column.\n\n")
	b.WriteString("Respond with JSON only, following this exact structure:\n")
	b.WriteString(`{
  "analysisText": "narrative summary",
  "keyMetrics": [
    { "title": "Metric Title", "value": "Metric Value", "description": "Short description." }
  ],
  "charts": [
    { "type": "bar", "title": "Chart Title", "dataKey": "data_key", "nameKey": "name_key" },
    { "type": "line", "title": "Chart Title", "dataKey": "data_key", "nameKey": "name_key" },
    { "type": "pie", "title": "Chart Title", "dataKey": "data_key", "nameKey": "name_key" },
    { "type": "area", "title": "Chart Title", "dataKey": "data_key", "nameKey": "name_key" },
    { "type": "composed", "title": "Chart Title", "dataKey": "data_key", "nameKey": "name_key" }
  ]
}`)
	b.WriteString("\n")
	return b.String()
}

// OutlinePrompt asks for a slide outline grounded in a profile report.
func OutlinePrompt(title, profileMarkdown string, maxSlides int) string {
	if maxSlides <= 0 {
		maxSlides = 6
	}
	var b strings.Builder
	b.WriteString("You are preparing an executive presentation from a dataset profile.\n")
	if title != "" {
		b.WriteString(fmt.Sprintf("Presentation title: %s\n", title))
	}
	b.WriteString(fmt.Sprintf("Produce at most %d slides with 3-5 short bullet points each.\n", maxSlides))
	b.WriteString("Use only figures that appear in the profile. Do not invent numbers.\n\n")
	b.WriteString("PROFILE:\n")
	b.WriteString(profileMarkdown)
	b.WriteString("\n\nRespond with JSON only:\n")
	b.WriteString(`{"title": "...", "slides": [{"slideTitle": "...", "points": ["...", "..."]}]}`)
	b.WriteString("\n")
	return b.String()
}

// Ask sends a single user prompt with the analyst system message and returns the reply text.
func Ask(ctx context.Context, rt Runtime, req GenerateRequest, prompt string) (string, error) {
	if rt == nil {
		return "", errors.New("no runtime configured")
	}
	req.Messages = []Message{
		{Role: "system", Content: analystSystem},
		{Role: "user", Content: prompt},
	}
	resp, err := rt.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Content())
	if text == "" {
		return "", errors.New("no valid response from model")
	}
	return text, nil
}

// ExtractJSON strips markdown code fences and returns the outermost JSON
// object in text.
func ExtractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in model response")
	}
	return s[start : end+1], nil
}
