package toon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FromJSON parses JSON text into a Value, keeping object key order. Numbers
// containing '.', 'e' or 'E' become Float, all others Int unless they
// overflow int64.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("toon: parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("toon: parse json: unexpected data after top-level value")
	}
	return v, nil
}

func readJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return numberValue(t)
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %s", s)
	}
	return Float(f), nil
}

// ToJSON writes v as compact JSON in member order. NaN and infinities are
// written as null. '&', '<' and '>' are written as is.
func ToJSON(v Value) ([]byte, error) {
	w := newJSONWriter(",", ":")
	if err := w.write(v); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// jsonWriter writes a Value as JSON with the given item and key separators.
type jsonWriter struct {
	buf     bytes.Buffer
	str     bytes.Buffer
	enc     *json.Encoder
	itemSep string
	keySep  string
	// formatFloat overrides the float form when set
	formatFloat func(float64) string
}

func newJSONWriter(itemSep, keySep string) *jsonWriter {
	w := &jsonWriter{itemSep: itemSep, keySep: keySep}
	w.enc = json.NewEncoder(&w.str)
	w.enc.SetEscapeHTML(false)
	return w
}

func (w *jsonWriter) writeString(s string) error {
	w.str.Reset()
	if err := w.enc.Encode(s); err != nil {
		return err
	}
	w.buf.Write(bytes.TrimSuffix(w.str.Bytes(), []byte("\n")))
	return nil
}

func (w *jsonWriter) write(v Value) error {
	switch val := v.(type) {
	case nil, Null:
		w.buf.WriteString("null")
	case Bool:
		w.buf.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		w.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			w.buf.WriteString("null")
			return nil
		}
		if w.formatFloat != nil {
			w.buf.WriteString(w.formatFloat(f))
			return nil
		}
		raw, err := json.Marshal(f)
		if err != nil {
			return err
		}
		w.buf.Write(raw)
	case String:
		return w.writeString(string(val))
	case *Object:
		w.buf.WriteByte('{')
		for i, m := range val.Members() {
			if i > 0 {
				w.buf.WriteString(w.itemSep)
			}
			if err := w.writeString(m.Key); err != nil {
				return err
			}
			w.buf.WriteString(w.keySep)
			if err := w.write(m.Value); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')
	case Array:
		w.buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				w.buf.WriteString(w.itemSep)
			}
			if err := w.write(item); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	default:
		return fmt.Errorf("toon: unsupported type: %T", v)
	}
	return nil
}

// MarshalJSON lets an Object be embedded in encoding/json output.
func (o *Object) MarshalJSON() ([]byte, error) {
	return ToJSON(o)
}

func (a Array) MarshalJSON() ([]byte, error) {
	return ToJSON(a)
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
