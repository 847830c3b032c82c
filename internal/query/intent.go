package query

import (
	"regexp"
	"strconv"
)

// IntentType is the classified purpose of a question.
type IntentType string

const (
	IntentTop        IntentType = "top"
	IntentTotal      IntentType = "total"
	IntentAvg        IntentType = "avg"
	IntentCountsBy   IntentType = "counts-by"
	IntentMostCommon IntentType = "most-common"
	IntentFollowup   IntentType = "followup-top-name"
	IntentUnknown    IntentType = "unknown"
)

// Intent is a parsed question resolved against a Schema.
type Intent struct {
	Type    IntentType `json:"type"`
	K       int        `json:"k,omitempty"`
	Dim     string     `json:"dim,omitempty"`
	Measure string     `json:"measure,omitempty"`
	// AskedHeader is the free text of "what is the X?" follow-ups.
	AskedHeader string `json:"askedHeader,omitempty"`
}

var (
	topRe          = regexp.MustCompile(`\b(top\s*\d*|best|highest|largest|max(?:imum)?|top-?selling)\b`)
	topKRe         = regexp.MustCompile(`\btop\s*(\d+)`)
	byRe           = regexp.MustCompile(`\bby\s+([a-z0-9 _-]+?)\s*[?.!]*$`)
	totalRe        = regexp.MustCompile(`\b(total|sum|overall|grand\s*total)\b`)
	avgRe          = regexp.MustCompile(`\b(average|avg|mean)\b`)
	countsByRe     = regexp.MustCompile(`\bcounts?\s+by\s+|\beach\s+.+\s+how\s+many\b`)
	mostCommonRe   = regexp.MustCompile(`\bmost\s+(?:common|frequent)\s+(.+?)\s*[?.!]*$`)
	followItRe     = regexp.MustCompile(`^(what\s+is\s+it|which\s+one)\s*\??$`)
	followHeaderRe = regexp.MustCompile(`^what\s+is\s+the\s+(.+?)\s*\??$`)
)

// question is the lexical form shared by all rules.
type question struct {
	text   string
	tokens []string
	by     []string // tokens of a trailing "by <x>" clause
}

func newQuestion(raw string) question {
	q := question{text: normalize(raw), tokens: tokensOf(raw)}
	if m := byRe.FindStringSubmatch(q.text); m != nil {
		q.by = tokensOf(m[1])
	}
	return q
}

// rule pairs a predicate with the intent it builds. Rules are tried in order.
type rule struct {
	name  IntentType
	match func(q question) bool
	build func(q question, s Schema) Intent
}

var rules = []rule{
	{
		name:  IntentTop,
		match: func(q question) bool { return topRe.MatchString(q.text) },
		build: buildTop,
	},
	{
		name:  IntentTotal,
		match: func(q question) bool { return totalRe.MatchString(q.text) || avgRe.MatchString(q.text) },
		build: buildTotal,
	},
	{
		name:  IntentCountsBy,
		match: func(q question) bool { return countsByRe.MatchString(q.text) },
		build: func(q question, s Schema) Intent {
			return Intent{Type: IntentCountsBy, Dim: orDefault(bestMatch(s.Headers, q.tokens, s.Dims), s.DefaultDim)}
		},
	},
	{
		name:  IntentMostCommon,
		match: func(q question) bool { return mostCommonRe.MatchString(q.text) },
		build: func(q question, s Schema) Intent {
			m := mostCommonRe.FindStringSubmatch(q.text)
			return Intent{Type: IntentMostCommon, Dim: orDefault(bestMatch(s.Headers, tokensOf(m[1]), s.Dims), s.DefaultDim)}
		},
	},
	{
		name:  IntentFollowup,
		match: func(q question) bool { return followItRe.MatchString(q.text) || followHeaderRe.MatchString(q.text) },
		build: func(q question, _ Schema) Intent {
			in := Intent{Type: IntentFollowup}
			if m := followHeaderRe.FindStringSubmatch(q.text); m != nil {
				in.AskedHeader = m[1]
			}
			return in
		},
	},
}

// ParseQuery classifies text by the first matching rule.
func ParseQuery(text string, s Schema) Intent {
	q := newQuestion(text)
	for _, r := range rules {
		if r.match(q) {
			return r.build(q, s)
		}
	}
	return Intent{Type: IntentUnknown}
}

func buildTop(q question, s Schema) Intent {
	k := 1
	if m := topKRe.FindStringSubmatch(q.text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 1 {
			k = n
		}
	}
	measure := ""
	if len(q.by) > 0 {
		measure = bestMatch(s.Headers, q.by, s.Measures)
	}
	if measure == "" {
		measure = orDefault(bestMatch(s.Headers, q.tokens, s.Measures), s.DefaultMeasure)
	}
	return Intent{
		Type:    IntentTop,
		K:       k,
		Dim:     orDefault(bestMatch(s.Headers, q.tokens, s.Dims), s.DefaultDim),
		Measure: measure,
	}
}

func buildTotal(q question, s Schema) Intent {
	in := Intent{Type: IntentTotal, Measure: orDefault(bestMatch(s.Headers, q.tokens, s.Measures), s.DefaultMeasure)}
	if avgRe.MatchString(q.text) {
		in.Type = IntentAvg
	}
	if len(q.by) > 0 {
		in.Dim = bestMatch(s.Headers, q.by, s.Dims)
	}
	return in
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
