// Package toon implements TOON (Token-Oriented Object Notation), a compact
// delimiter-based text format for the JSON data model.
//
// Objects are written as key:value pairs joined by "|", arrays as elements
// joined by ";". Nested objects are wrapped in {} and nested arrays in [].
// Strings that contain reserved characters, or that would otherwise be read
// back as another type, are wrapped in double quotes with \ and " escaped.
//
//	JSON: {"name":"Dell Laptop","price":1299.99,"tags":["a","b"]}
//	TOON: name:Dell Laptop|price:1299.99|tags:[a;b]
//
// The top-level object is written without its braces. Encode and Decode
// round-trip any object; EncodeValue and DecodeValue round-trip any value.
package toon

import (
	"encoding/json"
	"fmt"
)

// DecodeOptions configures TOON decoding behavior.
type DecodeOptions struct {
	Strict bool // Reject pairs without a ':' separator (default: true)
}

// Encode converts a value to TOON. A top-level object or array is written
// without its surrounding delimiters.
func Encode(v Value) (string, error) {
	e := newEncoder()
	if err := e.encodeTop(v); err != nil {
		return "", err
	}
	return e.String(), nil
}

// EncodeValue converts a value to TOON in nested form, so objects and arrays
// keep their braces and brackets even at the top level.
func EncodeValue(v Value) (string, error) {
	e := newEncoder()
	if err := e.encodeValue(v); err != nil {
		return "", err
	}
	return e.String(), nil
}

// Marshal normalises any Go value through encoding/json and encodes it to
// TOON. Struct field order is preserved; map keys are sorted.
func Marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("toon: marshal: %w", err)
	}
	value, err := FromJSON(data)
	if err != nil {
		return "", err
	}
	return Encode(value)
}

// Decode parses a TOON document.
func Decode(data string) (Value, error) {
	return DecodeWithOptions(data, nil)
}

// DecodeWithOptions parses a TOON document with custom options.
func DecodeWithOptions(data string, opts *DecodeOptions) (Value, error) {
	if opts == nil {
		opts = &DecodeOptions{Strict: true}
	}

	d := newDecoder(data, opts.Strict)
	return d.decodeDocument()
}

// DecodeValue parses a single TOON value token, the inverse of EncodeValue.
func DecodeValue(token string) (Value, error) {
	d := newDecoder(token, true)
	return d.decodeValue(token, 0)
}

// Unmarshal decodes a TOON document and stores the result in the value
// pointed to by out, using encoding/json field mapping.
func Unmarshal(data string, out any) error {
	value, err := Decode(data)
	if err != nil {
		return err
	}
	raw, err := ToJSON(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("toon: unmarshal: %w", err)
	}
	return nil
}
