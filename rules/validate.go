package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// German VAT ID: DE followed by exactly nine digits.
var vatIDPattern = regexp.MustCompile(`^DE[0-9]{9}$`)

var hundred = decimal.NewFromInt(100)

// ValidateLineTotal recomputes an undiscounted line total and compares it
// with the provided one.
func ValidateLineTotal(unitPrice, amount, provided, tolerance decimal.Decimal) (bool, string) {
	calculated := LineTotal(unitPrice, amount, nil, nil)
	if !within(calculated, provided, tolerance) {
		return false, fmt.Sprintf("Total mismatch: expected %s, got %s", calculated.StringFixed(2), provided)
	}
	return true, ""
}

func ValidateRequestTotal(lines []OrderLine, provided, tolerance decimal.Decimal) (bool, string) {
	calculated := RequestTotal(lines)
	if !within(calculated, provided, tolerance) {
		return false, fmt.Sprintf("Request total mismatch: expected %s, got %s", calculated.StringFixed(2), provided)
	}
	return true, ""
}

// NormalizeVATID trims and upper-cases a VAT ID.
func NormalizeVATID(vatID string) string {
	return strings.ToUpper(strings.TrimSpace(vatID))
}

func ValidateVATID(vatID string) (bool, string) {
	if vatID == "" {
		return false, "VAT ID is required"
	}
	if !vatIDPattern.MatchString(NormalizeVATID(vatID)) {
		return false, "Invalid VAT ID format. Expected format: DE + 9 digits (e.g., DE123456789)"
	}
	return true, ""
}

// ValidateOrderLines reports every problem in lines, numbering lines from 1.
func ValidateOrderLines(lines []OrderLine) (bool, []string) {
	if len(lines) == 0 {
		return false, []string{"At least one order line is required"}
	}

	var errs []string
	for i, line := range lines {
		n := i + 1
		if line.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("Order line %d: Unit price cannot be negative", n))
		}
		if !line.Amount.IsPositive() {
			errs = append(errs, fmt.Sprintf("Order line %d: Amount must be greater than 0", n))
		}
		if strings.TrimSpace(line.Description) == "" {
			errs = append(errs, fmt.Sprintf("Order line %d: Description is required", n))
		}
		if p := line.DiscountPercent; p != nil && (p.IsNegative() || p.GreaterThan(hundred)) {
			errs = append(errs, fmt.Sprintf("Order line %d: Discount percent must be between 0 and 100", n))
		}
		if a := line.DiscountAmount; a != nil && a.IsNegative() {
			errs = append(errs, fmt.Sprintf("Order line %d: Discount amount cannot be negative", n))
		}
		if !line.Type().Valid() {
			errs = append(errs, fmt.Sprintf("Order line %d: Invalid line type '%s'", n, line.LineType))
		}
	}

	return len(errs) == 0, errs
}

// ValidateRequestData runs the VAT ID and order line checks together.
func ValidateRequestData(vatID string, lines []OrderLine) (bool, []string) {
	var errs []string

	if ok, msg := ValidateVATID(vatID); !ok {
		errs = append(errs, msg)
	}
	if ok, lineErrs := ValidateOrderLines(lines); !ok {
		errs = append(errs, lineErrs...)
	}

	return len(errs) == 0, errs
}
