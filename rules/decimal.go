package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned when a value handed to the engine cannot be read
// as a number. It indicates a caller bug rather than bad user input.
var ErrNotNumeric = errors.New("rules: value is not numeric")

// ToDecimal converts an external number to a decimal. Floats go through their
// shortest decimal text, so 0.1 becomes exactly 0.1.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n != nil {
			return *n, nil
		}
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return parseDecimal(strconv.FormatUint(uint64(n), 10))
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return parseDecimal(strconv.FormatUint(n, 10))
	case float32:
		if !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0) {
			return decimal.NewFromFloat32(n), nil
		}
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return decimal.NewFromFloat(n), nil
		}
	case json.Number:
		return parseDecimal(n.String())
	case string:
		return parseDecimal(n)
	}
	return decimal.Zero, fmt.Errorf("%w: %T %v", ErrNotNumeric, v, v)
}

// MustDecimal is like ToDecimal but panics on failure. It is meant for
// constants.
func MustDecimal(v any) decimal.Decimal {
	d, err := ToDecimal(v)
	if err != nil {
		panic(err)
	}
	return d
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return d, nil
}
