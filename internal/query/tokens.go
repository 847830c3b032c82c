package query

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)

// fillers never count as partial header matches.
var fillers = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "by": true, "is": true, "in": true,
	"for": true, "per": true, "what": true, "which": true, "how": true, "many": true, "top": true,
}

// normalize folds accents to ASCII, lowercases and trims.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// tokensOf splits normalized text on anything that is not a letter or digit.
func tokensOf(s string) []string {
	return strings.Fields(nonAlnum.ReplaceAllString(normalize(s), " "))
}

// bestMatch scores each allowed header against tokens: +3 when the header
// equals a token, +1 when it contains one (filler words excluded). The highest positive score wins and
// ties go to the earlier header. Returns "" when nothing matches.
func bestMatch(headers, tokens, allowed []string) string {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	best, bestScore := "", 0
	for _, h := range headers {
		if !ok[h] {
			continue
		}
		name := strings.Join(tokensOf(h), " ")
		if name == "" {
			continue
		}
		score := 0
		for _, t := range tokens {
			switch {
			case name == t:
				score += 3
			case !fillers[t] && strings.Contains(name, t):
				score++
			}
		}
		if score > bestScore {
			best, bestScore = h, score
		}
	}
	return best
}
