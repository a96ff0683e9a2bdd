package toon

import (
	"testing"
)

func TestEstimateSavings(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected Savings
	}{
		{
			"simple object",
			obj("a", Int(1)),
			Savings{JSONChars: 8, TOONChars: 3, SavingsPercent: 62.5, JSONTokensEst: 2, TOONTokensEst: 1, TokensSavedEst: 1},
		},
		{
			// 6/4 is an exact half and rounds to even
			"half to even",
			obj("abc", Int(12)),
			Savings{JSONChars: 11, TOONChars: 6, SavingsPercent: 45.5, JSONTokensEst: 3, TOONTokensEst: 2, TokensSavedEst: 1},
		},
		{
			"spaced separators",
			obj("vendor", String("Dell"), "n", Int(1)),
			Savings{JSONChars: 26, TOONChars: 15, SavingsPercent: 42.3, JSONTokensEst: 6, TOONTokensEst: 4, TokensSavedEst: 3},
		},
		{
			"nested array",
			obj("a", Array{Int(1), Int(2)}),
			Savings{JSONChars: 13, TOONChars: 7, SavingsPercent: 46.2, JSONTokensEst: 3, TOONTokensEst: 2, TokensSavedEst: 2},
		},
		{
			"float keeps its point",
			obj("price", Float(449)),
			Savings{JSONChars: 16, TOONChars: 11, SavingsPercent: 31.2, JSONTokensEst: 4, TOONTokensEst: 3, TokensSavedEst: 1},
		},
		{
			"html characters not escaped",
			obj("dept", String("R&D <IT>")),
			Savings{JSONChars: 20, TOONChars: 13, SavingsPercent: 35, JSONTokensEst: 5, TOONTokensEst: 3, TokensSavedEst: 2},
		},
		{
			"runes not bytes",
			obj("n", String("€")),
			Savings{JSONChars: 10, TOONChars: 3, SavingsPercent: 70, JSONTokensEst: 2, TOONTokensEst: 1, TokensSavedEst: 2},
		},
		{
			"empty object",
			NewObject(),
			Savings{JSONChars: 2, TOONChars: 0, SavingsPercent: 100, JSONTokensEst: 0, TOONTokensEst: 0, TokensSavedEst: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EstimateSavings(tt.input)
			if err != nil {
				t.Fatalf("EstimateSavings failed: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}

func TestEstimateSavingsJSON(t *testing.T) {
	// Whitespace in the caller's JSON counts
	result, err := EstimateSavingsJSON(`{ "abc": 12 }`)
	if err != nil {
		t.Fatal(err)
	}
	expected := Savings{JSONChars: 13, TOONChars: 6, SavingsPercent: 53.8, JSONTokensEst: 3, TOONTokensEst: 2, TokensSavedEst: 2}
	if result != expected {
		t.Errorf("Expected %+v, got %+v", expected, result)
	}

	if _, err := EstimateSavingsJSON(`{"abc":`); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestSavingsOnOfferDocument(t *testing.T) {
	text := `{"vendor_name":"Dell","order_lines":[{"description":"Laptop","unit_price":999.99,"amount":2},{"description":"Monitor","unit_price":449.0,"amount":3}]}`

	result, err := EstimateSavingsJSON(text)
	if err != nil {
		t.Fatal(err)
	}
	if result.TOONChars >= result.JSONChars {
		t.Errorf("Expected TOON to be shorter: %+v", result)
	}
	if result.SavingsPercent <= 0 || result.TokensSavedEst <= 0 {
		t.Errorf("Expected positive savings: %+v", result)
	}
	if result.JSONTokensEst-result.TOONTokensEst-result.TokensSavedEst > 1 {
		t.Errorf("Token estimates inconsistent: %+v", result)
	}
}
