package toon

import (
	"errors"
	"testing"
)

func TestDecodeOptions(t *testing.T) {
	input := "vendor_name:Dell|Here is the extracted offer|currency:EUR|"

	t.Run("strict_default", func(t *testing.T) {
		_, err := Decode(input)
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Expected ErrSyntax in strict mode, got %v", err)
		}
	})

	t.Run("lenient_skips_pairs_without_colon", func(t *testing.T) {
		result, err := DecodeWithOptions(input, &DecodeOptions{Strict: false})
		if err != nil {
			t.Fatal(err)
		}
		expected := obj("vendor_name", String("Dell"), "currency", String("EUR"))
		if !Equal(result, expected) {
			t.Errorf("Expected %v, got %v", expected, result)
		}
	})

	t.Run("lenient_still_rejects_unbalanced", func(t *testing.T) {
		_, err := DecodeWithOptions("a:{b:1", &DecodeOptions{Strict: false})
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Expected ErrSyntax, got %v", err)
		}
	})

	t.Run("nil_options_are_strict", func(t *testing.T) {
		_, err := DecodeWithOptions("orphan", nil)
		if err == nil {
			t.Error("Expected error with nil options")
		}
	})
}
