package parser

import "strconv"

// simpleEscapes maps the character following a backslash to its decoded
// byte, for the escapes that don't take an argument. Used when decoding the
// quoted strings that appear in "byte" data lines and in .include/.chrbin
// filename arguments.
var simpleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'0':  0x00,
	'"':  '"',
	'\'': '\'',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
}

// ProcessEscapeSequences decodes the backslash escapes inside a "byte"
// string literal or a directive filename argument into their raw byte
// values. \xNN hex escapes are supported for embedding arbitrary data bytes
// (tile indices, control codes) that have no printable form; everything
// else follows the simpleEscapes table. Unknown escapes are left as-is so a
// stray backslash in a filename doesn't silently eat the next character.
func ProcessEscapeSequences(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			consumed, b, ok := parseEscapeAt(s, i)
			if ok {
				result = append(result, b...)
				i += consumed
			} else {
				result = append(result, s[i], s[i+1])
				i += 2
			}
		} else {
			result = append(result, s[i])
			i++
		}
	}
	return string(result)
}

// parseEscapeAt parses one escape sequence starting at position i in s,
// returning the number of source characters consumed and the decoded
// byte(s).
func parseEscapeAt(s string, i int) (int, []byte, bool) {
	if i+1 >= len(s) || s[i] != '\\' {
		return 0, nil, false
	}

	if b, ok := simpleEscapes[s[i+1]]; ok {
		return 2, []byte{b}, true
	}

	if s[i+1] == 'x' {
		if i+3 >= len(s) {
			return 0, nil, false
		}
		val, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
		if err != nil {
			return 0, nil, false
		}
		return 4, []byte{byte(val)}, true
	}

	return 0, nil, false
}
