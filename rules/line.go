package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineType decides whether an order line counts towards the request total.
type LineType string

const (
	LineStandard    LineType = "standard"
	LineAlternative LineType = "alternative"
	LineOptional    LineType = "optional"
)

// DefaultUnit is used when an order line names no unit.
const DefaultUnit = "pcs"

// Valid reports whether t is one of the known line types.
func (t LineType) Valid() bool {
	switch t {
	case LineStandard, LineAlternative, LineOptional:
		return true
	}
	return false
}

// OrderLine is one line of a request or vendor offer.
type OrderLine struct {
	LineType            LineType         `json:"line_type,omitempty"`
	Description         string           `json:"description"`
	DetailedDescription string           `json:"detailed_description,omitempty"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	Amount              decimal.Decimal  `json:"amount"`
	Unit                string           `json:"unit,omitempty"`
	DiscountPercent     *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discount_amount,omitempty"`
}

// Type returns the line type, treating an empty one as standard.
func (l OrderLine) Type() LineType {
	if l.LineType == "" {
		return LineStandard
	}
	return l.LineType
}

func (l OrderLine) UnitOrDefault() string {
	if strings.TrimSpace(l.Unit) == "" {
		return DefaultUnit
	}
	return l.Unit
}

// Total returns the discounted line total.
func (l OrderLine) Total() decimal.Decimal {
	return LineTotal(l.UnitPrice, l.Amount, l.DiscountPercent, l.DiscountAmount)
}

// LineTotal computes unitPrice * amount less a discount, rounded half up to
// two places. A discount amount takes precedence over a discount percent.
func LineTotal(unitPrice, amount decimal.Decimal, discountPercent, discountAmount *decimal.Decimal) decimal.Decimal {
	subtotal := unitPrice.Mul(amount)

	total := subtotal
	switch {
	case discountAmount != nil:
		total = subtotal.Sub(*discountAmount)
	case discountPercent != nil:
		total = subtotal.Sub(subtotal.Mul(*discountPercent).Shift(-2))
	}

	return total.Round(2)
}

// RequestTotal sums the totals of the standard lines. Alternative and
// optional lines are ignored.
func RequestTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Type() != LineStandard {
			continue
		}
		total = total.Add(line.Total())
	}
	return total.Round(2)
}
