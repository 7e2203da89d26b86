package options

import (
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
)

// npos marks "no next token" from NextToken, matching the convention of the
// returned end index being past the end of input.
const npos = -1

// KeyValue is a single parsed option assignment. StringToMap returns a slice
// of these rather than a map so that configuration order is preserved.
type KeyValue struct {
	Key   string
	Value string
}

// NextToken scans opts starting at pos for the next token terminated by
// delimiter. Tokens may contain nested option blocks wrapped in curly braces;
// braces nest and the delimiter is ignored inside them. The surrounding
// braces of a fully-braced token are stripped from the returned token.
// A backslash makes the following character inert, so escaped string values
// tokenize back as written.
//
// end is the index to resume scanning from, or npos when the token consumed
// the rest of the input.
func NextToken(opts string, delimiter byte, pos int) (token string, end int, err error) {
	for pos < len(opts) && (opts[pos] == ' ' || opts[pos] == '\t') {
		pos++
	}
	if pos >= len(opts) {
		return "", npos, nil
	}
	if opts[pos] == '{' {
		depth := 1
		pos++
		start := pos
		for ; pos < len(opts); pos++ {
			switch opts[pos] {
			case '\\':
				pos++
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					token = strings.TrimSpace(opts[start:pos])
					pos++
					for pos < len(opts) && (opts[pos] == ' ' || opts[pos] == '\t') {
						pos++
					}
					if pos >= len(opts) {
						return token, npos, nil
					}
					if opts[pos] != delimiter {
						return "", npos, errors.InvalidArgument(
							"unexpected chars after nested options", opts)
					}
					return token, pos + 1, nil
				}
			}
		}
		return "", npos, errors.InvalidArgument("mismatched curly braces", opts)
	}
	start := pos
	for ; pos < len(opts); pos++ {
		switch opts[pos] {
		case '\\':
			pos++
		case delimiter:
			return strings.TrimSpace(opts[start:pos]), pos + 1, nil
		}
	}
	return strings.TrimSpace(opts[start:]), npos, nil
}

// StringToMap parses a semicolon-delimited key=value list into an ordered
// slice of assignments. The whole input may be wrapped in one or more layers
// of redundant braces, which are stripped before parsing. A repeated key
// keeps only its last assignment.
func StringToMap(optsStr string) ([]KeyValue, error) {
	optsStr = strings.TrimSpace(optsStr)
	for strings.HasPrefix(optsStr, "{") && strings.HasSuffix(optsStr, "}") {
		stripped, balanced := stripOuterBraces(optsStr)
		if !balanced {
			break
		}
		optsStr = strings.TrimSpace(stripped)
	}

	var pairs []KeyValue
	index := make(map[string]int)
	pos := 0
	for pos >= 0 && pos < len(optsStr) {
		eq := strings.IndexByte(optsStr[pos:], '=')
		if eq < 0 {
			return nil, errors.InvalidArgument("mismatched key value pair", optsStr)
		}
		key := strings.TrimSpace(optsStr[pos : pos+eq])
		if key == "" {
			return nil, errors.InvalidArgument("empty key found", optsStr)
		}
		value, next, err := NextToken(optsStr, ';', pos+eq+1)
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			pairs[i].Value = value
		} else {
			index[key] = len(pairs)
			pairs = append(pairs, KeyValue{Key: key, Value: value})
		}
		pos = next
	}
	return pairs, nil
}

// stripOuterBraces removes one layer of braces from s if the opening brace at
// position 0 matches the closing brace at the end. It reports false when the
// first brace closes before the end of the string, in which case s does not
// have a redundant outer layer.
func stripOuterBraces(s string) (string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if i != len(s)-1 {
					return s, false
				}
				return s[1:i], true
			}
		}
	}
	return s, false
}

func isSpecialChar(c byte) bool {
	switch c {
	case '\\', ';', '=', '{', '}', '\n', '\r':
		return true
	}
	return false
}

var escapeFor = map[byte]byte{'\n': 'n', '\r': 'r'}
var unescapeFor = map[byte]byte{'n': '\n', 'r': '\r'}

// EscapeOptionString backslash-escapes the characters that carry meaning in
// the option grammar, so arbitrary text can ride in an option value written
// to a file.
func EscapeOptionString(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isSpecialChar(c) {
			b.WriteByte('\\')
			if sub, ok := escapeFor[c]; ok {
				c = sub
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeOptionString reverses EscapeOptionString. A trailing lone
// backslash is dropped.
func UnescapeOptionString(escaped string) string {
	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c == '\\' && i+1 < len(escaped) {
			i++
			c = escaped[i]
			if sub, ok := unescapeFor[c]; ok {
				c = sub
			}
		} else if c == '\\' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// pairsToMap converts an ordered assignment list to a lookup map. Order is
// already deduplicated by StringToMap.
func pairsToMap(pairs []KeyValue) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		m[kv.Key] = kv.Value
	}
	return m
}

// mapToPairs converts a map to an assignment list in sorted key order so that
// configuration from a map is deterministic.
func mapToPairs(m map[string]string) []KeyValue {
	pairs := make([]KeyValue, 0, len(m))
	for _, k := range sortedStringKeys(m) {
		pairs = append(pairs, KeyValue{Key: k, Value: m[k]})
	}
	return pairs
}
