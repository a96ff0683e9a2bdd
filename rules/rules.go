// Package rules holds the procurement calculation and validation engine.
//
// All money is handled as decimal.Decimal. Derived totals are rounded once,
// half away from zero, to two places. Validators report user input problems
// as data (a flag plus messages) and never return errors; only ToDecimal
// fails, for values that are not numbers at all.
package rules

import (
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the largest difference between a stated and a computed
// total that is still accepted.
var DefaultTolerance = decimal.New(1, -2)

// within reports whether |a-b| <= tolerance.
func within(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
