package dataset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 1,234.5 ", 1234.5, true},
		{"$1,000", 1000, true},
		{"€ 12", 12, true},
		{"12.5%", 12.5, true},
		{"(300)", -300, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"2024-01-05", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		assert.Equal(t, c.ok, ok, "ParseNumber(%q)", c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, "ParseNumber(%q)", c.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-05", "2024/01/05", "01/05/2024", "2024-01-05T10:00:00Z", "Jan 5, 2024", "2024-01"} {
		d, ok := ParseDate(in)
		require.True(t, ok, "ParseDate(%q)", in)
		assert.Equal(t, 2024, d.Year())
	}
	for _, in := range []string{"", "12", "1500", "hello", "1850-03-01"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "ParseDate(%q)", in)
	}
}

func TestValueAccessors(t *testing.T) {
	v := Str(" 7 ")
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)
	assert.Equal(t, "7", v.String())

	assert.True(t, Str("   ").IsEmpty())
	assert.True(t, Empty().IsEmpty())
	assert.False(t, Num(0).IsEmpty())

	d := Date(time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC))
	_, ok = d.Float()
	assert.False(t, ok, "dates are not numbers")
	tm, ok := d.Time()
	require.True(t, ok)
	assert.Equal(t, time.April, tm.Month())
	assert.Equal(t, "2023-04-01", d.String())
}

func TestFromAnyAndJSON(t *testing.T) {
	row := Row{
		"a": FromAny(1.5),
		"b": FromAny("x"),
		"c": FromAny(nil),
		"d": FromAny(""),
	}
	assert.Equal(t, KindNumber, row["a"].Kind())
	assert.Equal(t, KindText, row["b"].Kind())
	assert.Equal(t, KindEmpty, row["c"].Kind())
	assert.Equal(t, KindEmpty, row["d"].Kind())

	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":"x","c":null,"d":null}`, string(b))
}
