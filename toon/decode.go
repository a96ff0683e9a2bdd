package toon

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type decoder struct {
	input  string
	strict bool
}

func newDecoder(input string, strict bool) *decoder {
	return &decoder{
		input:  input,
		strict: strict,
	}
}

// segment is a slice of the input together with its byte offset.
type segment struct {
	text string
	off  int
}

func (d *decoder) errorf(off int, reason string) error {
	near := ""
	if off >= 0 && off < len(d.input) {
		near = d.input[off:]
		if len(near) > 24 {
			cut := 24
			for cut > 0 && !utf8.RuneStart(near[cut]) {
				cut--
			}
			near = near[:cut] + "..."
		}
	}
	return &ParseError{Offset: off, Reason: reason, Near: near}
}

func trim(s string, off int) (string, int) {
	left := strings.TrimLeftFunc(s, unicode.IsSpace)
	off += len(s) - len(left)
	return strings.TrimRightFunc(left, unicode.IsSpace), off
}

func (d *decoder) decodeDocument() (Value, error) {
	text, off := trim(d.input, 0)
	if text == "" {
		return NewObject(), nil
	}

	switch text[0] {
	case '[', '{':
		end, err := d.matchingClose(text, off)
		if err != nil {
			return nil, err
		}
		if end == len(text)-1 {
			if text[0] == '[' {
				return d.decodeArray(text[1:end], off+1)
			}
			return d.decodeObject(text[1:end], off+1)
		}
	}

	return d.decodeObject(text, off)
}

// matchingClose returns the index of the delimiter closing the one at s[0].
func (d *decoder) matchingClose(s string, off int) (int, error) {
	var stack []byte
	inQuote, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case c == '}' || c == ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, d.errorf(off+i, "unexpected '"+string(c)+"'")
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}

	if inQuote {
		return 0, d.errorf(off, "unterminated quoted string")
	}
	return 0, d.errorf(off, "unclosed '"+s[:1]+"'")
}

// split cuts s at every sep that is outside quotes and nested structures,
// and checks that s is balanced. A sep of 0 only checks.
func (d *decoder) split(s string, off int, sep byte) ([]segment, error) {
	var parts []segment
	var stack []byte
	inQuote, escaped := false, false
	quoteStart, start := 0, 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			if !inQuote {
				quoteStart = i
			}
			inQuote = !inQuote
		case inQuote:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case c == '}' || c == ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return nil, d.errorf(off+i, "unexpected '"+string(c)+"'")
			}
			stack = stack[:len(stack)-1]
		case sep != 0 && c == sep && len(stack) == 0:
			parts = append(parts, segment{text: s[start:i], off: off + start})
			start = i + 1
		}
	}

	switch {
	case escaped:
		return nil, d.errorf(off+len(s)-1, "trailing backslash")
	case inQuote:
		return nil, d.errorf(off+quoteStart, "unterminated quoted string")
	case len(stack) > 0:
		return nil, d.errorf(off+len(s), "missing '"+string(stack[len(stack)-1])+"'")
	}

	return append(parts, segment{text: s[start:], off: off + start}), nil
}

func (d *decoder) decodeObject(body string, off int) (*Object, error) {
	obj := NewObject()
	if strings.TrimSpace(body) == "" {
		return obj, nil
	}

	pairs, err := d.split(body, off, '|')
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		text, pairOff := trim(pair.text, pair.off)
		if text == "" {
			continue
		}

		colon := keySeparator(text)
		if colon < 0 {
			if d.strict {
				return nil, d.errorf(pairOff, "missing ':' in pair")
			}
			continue
		}

		key, err := d.decodeKey(trim(text[:colon], pairOff))
		if err != nil {
			return nil, err
		}
		value, err := d.decodeValue(text[colon+1:], pairOff+colon+1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}

	return obj, nil
}

// keySeparator finds the first ':' outside quotes. Values such as URLs and
// times may contain further colons.
func keySeparator(pair string) int {
	inQuote, escaped := false, false
	for i := 0; i < len(pair); i++ {
		c := pair[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == ':' && !inQuote:
			return i
		}
	}
	return -1
}

func (d *decoder) decodeKey(text string, off int) (string, error) {
	if strings.HasPrefix(text, "\"") {
		return d.unquote(text, off)
	}
	return text, nil
}

func (d *decoder) decodeArray(body string, off int) (Array, error) {
	arr := Array{}
	if strings.TrimSpace(body) == "" {
		return arr, nil
	}

	items, err := d.split(body, off, ';')
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if strings.TrimSpace(item.text) == "" {
			continue
		}
		value, err := d.decodeValue(item.text, item.off)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}

	return arr, nil
}

func (d *decoder) decodeValue(raw string, off int) (Value, error) {
	text, off := trim(raw, off)
	if text == "" {
		return String(""), nil
	}

	switch text[0] {
	case '"':
		s, err := d.unquote(text, off)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case '{', '[':
		end, err := d.matchingClose(text, off)
		if err != nil {
			return nil, err
		}
		if end != len(text)-1 {
			return nil, d.errorf(off+end+1, "unexpected text after '"+text[end:end+1]+"'")
		}
		if text[0] == '{' {
			return d.decodeObject(text[1:end], off+1)
		}
		return d.decodeArray(text[1:end], off+1)
	}

	if _, err := d.split(text, off, 0); err != nil {
		return nil, err
	}
	return parseBare(text), nil
}

// unquote decodes a quoted string. text must start with '"' and the closing
// quote must be its last character.
func (d *decoder) unquote(text string, off int) (string, error) {
	if !strings.ContainsRune(text[1:], '\\') {
		end := strings.IndexByte(text[1:], '"')
		if end < 0 {
			return "", d.errorf(off, "unterminated quoted string")
		}
		if end+2 != len(text) {
			return "", d.errorf(off+end+2, "unexpected text after closing quote")
		}
		return text[1 : end+1], nil
	}

	var b strings.Builder
	b.Grow(len(text))

	for i := 1; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\':
			if i+1 >= len(text) {
				return "", d.errorf(off+i, "trailing backslash")
			}
			i++
			switch text[i] {
			case '\\', '"':
				b.WriteByte(text[i])
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", d.errorf(off+i-1, "invalid escape sequence")
			}
		case '"':
			if i != len(text)-1 {
				return "", d.errorf(off+i+1, "unexpected text after closing quote")
			}
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}

	return "", d.errorf(off, "unterminated quoted string")
}

// parseBare interprets an unquoted token: null, booleans, integers, floats
// (only when the token contains '.'), and otherwise a plain string.
func parseBare(s string) Value {
	switch s {
	case "null":
		return Null{}
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}
		return String(s)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	return String(s)
}
