package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		pos    int
		token  string
		end    int
		hasErr bool
	}{
		{name: "simple", input: "a;b;c", pos: 0, token: "a", end: 2},
		{name: "middle", input: "a;b;c", pos: 2, token: "b", end: 4},
		{name: "last", input: "a;b;c", pos: 4, token: "c", end: npos},
		{name: "trims spaces", input: "  a ;b", pos: 0, token: "a", end: 5},
		{name: "braced", input: "{x=1;y=2};b", pos: 0, token: "x=1;y=2", end: 10},
		{name: "nested braces", input: "{a={b=1}};c", pos: 0, token: "a={b=1}", end: 10},
		{name: "braced last", input: "{x=1}", pos: 0, token: "x=1", end: npos},
		{name: "past end", input: "a", pos: 5, token: "", end: npos},
		{name: "escaped delimiter", input: `a\;b;c`, pos: 0, token: `a\;b`, end: 5},
		{name: "escaped brace", input: `\{x;b`, pos: 0, token: `\{x`, end: 4},
		{name: "unbalanced", input: "{x=1", pos: 0, hasErr: true},
		{name: "trailing garbage", input: "{x=1}junk;b", pos: 0, hasErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, end, err := NextToken(tt.input, ';', tt.pos)
			if tt.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestStringToMap(t *testing.T) {
	pairs, err := StringToMap("a=1;b=2;c=3")
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{{"a", "1"}, {"b", "2"}, {"c", "3"}}, pairs)
}

func TestStringToMap_NestedValues(t *testing.T) {
	pairs, err := StringToMap("outer={a=1;b=2};plain=3")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, KeyValue{"outer", "a=1;b=2"}, pairs[0])
	assert.Equal(t, KeyValue{"plain", "3"}, pairs[1])
}

func TestStringToMap_StripsRedundantBraces(t *testing.T) {
	for _, input := range []string{"a=1;b=2", "{a=1;b=2}", "{{a=1;b=2}}", " { a=1;b=2 } "} {
		pairs, err := StringToMap(input)
		require.NoError(t, err, input)
		assert.Equal(t, []KeyValue{{"a", "1"}, {"b", "2"}}, pairs, input)
	}
	// Braces that close early are not a redundant layer; they stay part of
	// the keys and values.
	pairs, err := StringToMap("{a=1};b=2")
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{{"{a", "1}"}, {"b", "2"}}, pairs)
}

func TestStringToMap_EscapedValues(t *testing.T) {
	pairs, err := StringToMap(`label=a\;b\=\{c\};plain=3`)
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{{"label", `a\;b\=\{c\}`}, {"plain", "3"}}, pairs)
}

func TestStringToMap_LastDuplicateWins(t *testing.T) {
	pairs, err := StringToMap("a=1;b=2;a=3")
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{{"a", "3"}, {"b", "2"}}, pairs)
}

func TestStringToMap_Errors(t *testing.T) {
	_, err := StringToMap("=1")
	assert.Error(t, err)

	_, err = StringToMap("a")
	assert.Error(t, err)

	_, err = StringToMap("a={b=1")
	assert.Error(t, err)
}

func TestEscapeOptionString_RoundTrip(t *testing.T) {
	tests := []struct {
		raw     string
		escaped string
	}{
		{"plain", "plain"},
		{"a=b;c", `a\=b\;c`},
		{"{x}", `\{x\}`},
		{"back\\slash", `back\\slash`},
		{"line\nbreak\r", `line\nbreak\r`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.escaped, EscapeOptionString(tt.raw), tt.raw)
		assert.Equal(t, tt.raw, UnescapeOptionString(tt.escaped), tt.raw)
	}
}

func TestStringToMap_Empty(t *testing.T) {
	pairs, err := StringToMap("")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
