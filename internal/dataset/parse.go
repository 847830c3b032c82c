package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const minYear = 1900

var currencyReplacer = strings.NewReplacer(
	",", "", "_", "", " ", "", "\u00a0", "",
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
)

// ParseNumber reads a human-formatted number: thousands separators, currency
// symbols, a trailing percent sign and accounting parentheses are tolerated.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		neg = true
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	raw = currencyReplacer.Replace(raw)
	if raw == "" || raw == "-" || raw == "+" || raw == "." {
		return 0, false
	}
	// ParseFloat would accept these spellings.
	switch strings.ToLower(strings.TrimLeft(raw, "+-")) {
	case "inf", "infinity", "nan":
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006-01",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"01-02-06",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2006",
	"January 2006",
}

// ParseDate tries the known layouts in order; only years after 1900 count.
func ParseDate(s string) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	if len(raw) < 6 {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			if t.Year() <= minYear {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}
