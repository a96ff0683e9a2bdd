package offer

import (
	"strings"

	"github.com/paularlott/procure/rules"
	"github.com/paularlott/procure/toon"
	"github.com/shopspring/decimal"
)

// StripCodeFence removes a Markdown code fence wrapped around a model reply.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseDecimal reads a number the way vendors write it. Strings may carry a
// currency marker and use German separators ("1.234,56 €").
func ParseDecimal(v toon.Value) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case toon.Int:
		return decimal.NewFromInt(int64(n)), true
	case toon.Float:
		d, err := rules.ToDecimal(float64(n))
		return d, err == nil
	case toon.String:
		s := strings.NewReplacer("€", "", "EUR", "", " ", "").Replace(string(n))
		s = strings.TrimSpace(s)
		switch {
		case strings.Contains(s, ",") && strings.Contains(s, "."):
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		case strings.Contains(s, ","):
			s = strings.ReplaceAll(s, ",", ".")
		}
		d, err := rules.ToDecimal(s)
		return d, err == nil
	}
	return decimal.Zero, false
}

func parseDecimalPtr(v toon.Value, ok bool) *decimal.Decimal {
	if !ok {
		return nil
	}
	d, ok := ParseDecimal(v)
	if !ok {
		return nil
	}
	return &d
}

// truthy reports whether v counts as a supplied value. Zero numbers, empty
// strings and empty containers do not.
func truthy(v toon.Value) bool {
	switch n := v.(type) {
	case nil, toon.Null:
		return false
	case toon.Bool:
		return bool(n)
	case toon.Int:
		return n != 0
	case toon.Float:
		return n != 0
	case toon.String:
		return n != ""
	case toon.Array:
		return len(n) > 0
	case *toon.Object:
		return n.Len() > 0
	}
	return true
}

// first returns the first supplied value among keys.
func first(o *toon.Object, keys ...string) (toon.Value, bool) {
	for _, key := range keys {
		if v, ok := o.Get(key); ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// textField reads key as text. Bare numbers such as an offer number of
// 2024001 decode as Int and are rendered back to their text. A missing or
// null key gives def.
func textField(o *toon.Object, key, def string) string {
	v, ok := o.Get(key)
	if !ok {
		return def
	}
	if _, isNull := v.(toon.Null); isNull {
		return def
	}
	return text(v)
}

// text renders a scalar as plain text.
func text(v toon.Value) string {
	if s, ok := v.(toon.String); ok {
		return string(s)
	}
	encoded, err := toon.EncodeValue(v)
	if err != nil {
		return ""
	}
	return encoded
}
