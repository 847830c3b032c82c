package utils

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Token estimates use the 1 token ~= 4 characters heuristic.

// CountTokens estimates the number of tokens in the given text.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit naively truncates text to roughly fit within a token limit.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	return string(runes[:charLimit])
}

// FitJSONPrefix encodes the longest prefix of items whose JSON stays within
// limit estimated tokens and reports how many items it holds. A limit <= 0
// encodes everything.
func FitJSONPrefix[T any](items []T, limit int) ([]byte, int, error) {
	encode := func(n int) ([]byte, error) {
		b, err := json.Marshal(items[:n])
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return b, nil
	}
	all, err := encode(len(items))
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || CountTokens(string(all)) <= limit {
		return all, len(items), nil
	}
	var encErr error
	// n is the first prefix length that no longer fits.
	n := sort.Search(len(items)+1, func(k int) bool {
		b, err := encode(k)
		if err != nil {
			encErr = err
			return true
		}
		return CountTokens(string(b)) > limit
	})
	if encErr != nil {
		return nil, 0, encErr
	}
	if n > 0 {
		n--
	}
	b, err := encode(n)
	if err != nil {
		return nil, 0, err
	}
	return b, n, nil
}
