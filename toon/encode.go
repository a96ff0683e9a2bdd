package toon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// reservedChars may not appear in a bare string. The backslash is not part of
// the grammar but is escaped by the splitter, so it forces quoting too.
const reservedChars = "|:;{}[]\"\n\r\t\\"

type encoder struct {
	b strings.Builder
}

func newEncoder() *encoder {
	return &encoder{}
}

func (e *encoder) String() string {
	return e.b.String()
}

func (e *encoder) encodeTop(v Value) error {
	switch val := v.(type) {
	case *Object:
		return e.encodeObjectBody(val)
	case Array:
		return e.encodeArrayBody(val)
	default:
		return e.encodeValue(v)
	}
}

func (e *encoder) encodeValue(v Value) error {
	switch val := v.(type) {
	case nil, Null:
		e.b.WriteString("null")
	case Bool:
		e.b.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		e.b.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		e.b.WriteString(formatFloat(float64(val)))
	case String:
		e.encodeString(string(val))
	case *Object:
		e.b.WriteByte('{')
		if err := e.encodeObjectBody(val); err != nil {
			return err
		}
		e.b.WriteByte('}')
	case Array:
		e.b.WriteByte('[')
		if err := e.encodeArrayBody(val); err != nil {
			return err
		}
		e.b.WriteByte(']')
	default:
		return fmt.Errorf("toon: unsupported type: %T", v)
	}
	return nil
}

func (e *encoder) encodeObjectBody(obj *Object) error {
	for i, m := range obj.Members() {
		if i > 0 {
			e.b.WriteByte('|')
		}
		if needsKeyQuoting(m.Key) {
			e.quoteString(m.Key)
		} else {
			e.b.WriteString(m.Key)
		}
		e.b.WriteByte(':')
		if err := e.encodeValue(m.Value); err != nil {
			return fmt.Errorf("key %q: %w", m.Key, err)
		}
	}
	return nil
}

func (e *encoder) encodeArrayBody(arr Array) error {
	for i, item := range arr {
		if i > 0 {
			e.b.WriteByte(';')
		}
		if err := e.encodeValue(item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

func (e *encoder) encodeString(s string) {
	if needsQuoting(s) {
		e.quoteString(s)
		return
	}
	e.b.WriteString(s)
}

func (e *encoder) quoteString(s string) {
	e.b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' {
			e.b.WriteByte('\\')
		}
		e.b.WriteByte(c)
	}
	e.b.WriteByte('"')
}

// needsQuoting reports whether s would not decode back to the same string
// when written bare.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, reservedChars) {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	_, isString := parseBare(s).(String)
	return !isString
}

func needsKeyQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, reservedChars) || strings.TrimSpace(key) != key
}

// formatFloat always includes a '.' so the number decodes as a float again.
// NaN and infinities have no TOON form and become null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(s, "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "e" + exponent
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
