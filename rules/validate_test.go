package rules

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		valid    bool
	}{
		{"exact", "30.00", true},
		{"within tolerance", "30.005", true},
		{"at tolerance", "30.01", true},
		{"outside tolerance", "30.02", false},
		{"below", "29.98", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := ValidateLineTotal(dec("10"), dec("3"), dec(tt.provided), DefaultTolerance)
			if ok != tt.valid {
				t.Errorf("Expected valid=%v, got %v (%s)", tt.valid, ok, msg)
			}
			if !ok && msg != "Total mismatch: expected 30.00, got "+tt.provided {
				t.Errorf("Unexpected message: %q", msg)
			}
			if ok && msg != "" {
				t.Errorf("Expected no message, got %q", msg)
			}
		})
	}
}

func TestValidateRequestTotal(t *testing.T) {
	lines := []OrderLine{
		{Description: "Laptop", UnitPrice: dec("999.99"), Amount: dec("2")},
		{LineType: LineOptional, Description: "Bag", UnitPrice: dec("49.99"), Amount: dec("1")},
	}

	if ok, msg := ValidateRequestTotal(lines, dec("1999.98"), DefaultTolerance); !ok {
		t.Errorf("Expected valid total, got %s", msg)
	}

	ok, msg := ValidateRequestTotal(lines, dec("2049.97"), DefaultTolerance)
	if ok {
		t.Fatal("Expected optional line to be excluded from the total")
	}
	if msg != "Request total mismatch: expected 1999.98, got 2049.97" {
		t.Errorf("Unexpected message: %q", msg)
	}
}

func TestValidateVATID(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		msg   string
	}{
		{"DE123456789", true, ""},
		{"de123456789", true, ""},
		{" DE123456789 ", true, ""},
		{"DE12345678", false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"},
		{"DE1234567890", false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"},
		{"FR123456789", false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"},
		{"DE12345678A", false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"},
		{"DE١٢٣٤٥٦٧٨٩", false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"},
		{"", false, "VAT ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, msg := ValidateVATID(tt.input)
			if ok != tt.valid {
				t.Errorf("Expected valid=%v, got %v", tt.valid, ok)
			}
			if msg != tt.msg {
				t.Errorf("Expected %q, got %q", tt.msg, msg)
			}
		})
	}
}

func TestValidateOrderLines(t *testing.T) {
	ok, errs := ValidateOrderLines(nil)
	if ok || !reflect.DeepEqual(errs, []string{"At least one order line is required"}) {
		t.Errorf("Unexpected result for empty lines: %v %v", ok, errs)
	}

	lines := []OrderLine{
		{Description: "Laptop", UnitPrice: dec("999.99"), Amount: dec("1")},
		{Description: "  ", UnitPrice: dec("-1"), Amount: dec("0")},
		{Description: "Dock", UnitPrice: dec("10"), Amount: dec("-2"), DiscountPercent: decPtr("101"), DiscountAmount: decPtr("-5"), LineType: "bonus"},
	}
	ok, errs = ValidateOrderLines(lines)
	if ok {
		t.Fatal("Expected invalid lines")
	}
	expected := []string{
		"Order line 2: Unit price cannot be negative",
		"Order line 2: Amount must be greater than 0",
		"Order line 2: Description is required",
		"Order line 3: Amount must be greater than 0",
		"Order line 3: Discount percent must be between 0 and 100",
		"Order line 3: Discount amount cannot be negative",
		"Order line 3: Invalid line type 'bonus'",
	}
	if !reflect.DeepEqual(errs, expected) {
		t.Errorf("Expected:\n%s\nGot:\n%s", strings.Join(expected, "\n"), strings.Join(errs, "\n"))
	}

	ok, errs = ValidateOrderLines(lines[:1])
	if !ok || len(errs) != 0 {
		t.Errorf("Expected valid line, got %v", errs)
	}
}

func TestValidateRequestData(t *testing.T) {
	lines := []OrderLine{{Description: "", UnitPrice: dec("1"), Amount: dec("1")}}

	ok, errs := ValidateRequestData("FR1", lines)
	if ok {
		t.Fatal("Expected invalid request data")
	}
	expected := []string{
		"Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)",
		"Order line 1: Description is required",
	}
	if !reflect.DeepEqual(errs, expected) {
		t.Errorf("Expected %v, got %v", expected, errs)
	}

	lines[0].Description = "Laptop"
	if ok, errs := ValidateRequestData("DE123456789", lines); !ok {
		t.Errorf("Expected valid request data, got %v", errs)
	}
}
