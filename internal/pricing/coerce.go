// Package pricing turns a variant and a selection into a total price.
// Prices come from legacy rows in every shape imaginable, so every input
// goes through Coerce, which never fails.
package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// Coerce converts a stored price into a non-negative decimal.  Numbers pass
// through; nil, NaN, infinities, negatives and unparseable strings become
// zero; strings are parsed after dropping everything but digits and
// separators, e.g. "R$ 1.234,56" -> 1234.56.
func Coerce(x any) decimal.Decimal {
	var d decimal.Decimal
	switch t := x.(type) {
	case nil:
		return decimal.Zero
	case model.RawPrice:
		return Coerce(t.Value())
	case *model.RawPrice:
		if t == nil {
			return decimal.Zero
		}
		return Coerce(t.Value())
	case decimal.Decimal:
		d = t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(t)
	case float32:
		return Coerce(float64(t))
	case int:
		d = decimal.NewFromInt(int64(t))
	case int32:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case uint32:
		d = decimal.NewFromInt(int64(t))
	case uint64:
		if t > math.MaxInt64 {
			return decimal.Zero
		}
		d = decimal.NewFromInt(int64(t))
	case json.Number:
		if n, err := decimal.NewFromString(string(t)); err == nil {
			d = n
		} else {
			d = parseAmount(string(t))
		}
	case string:
		d = parseAmount(t)
	default:
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseAmount reads a human-formatted amount.  The decimal separator is the
// last '.' or ',' present, unless it is the only separator kind and either
// repeats or is followed by exactly three digits, in which case it groups
// thousands ("1.234" and "1,234,567" are whole numbers).
func parseAmount(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := strings.TrimRight(b.String(), ".,")
	if clean == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndexByte(clean, '.')
	lastComma := strings.LastIndexByte(clean, ',')
	var dec byte
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			dec = '.'
		} else {
			dec = ','
		}
	case lastDot >= 0:
		dec = decimalOrGrouping(clean, '.', lastDot)
	case lastComma >= 0:
		dec = decimalOrGrouping(clean, ',', lastComma)
	}

	var n strings.Builder
	for i := 0; i < len(clean); i++ {
		c := clean[i]
		switch {
		case c >= '0' && c <= '9':
			n.WriteByte(c)
		case c == dec && i == strings.LastIndexByte(clean, dec):
			n.WriteByte('.')
		}
	}
	digits := n.String()
	if digits == "" {
		return decimal.Zero
	}
	if digits[0] == '.' {
		digits = "0" + digits
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decimalOrGrouping decides whether the single separator kind sep is a
// decimal point (returns sep) or a thousands separator (returns 0).
func decimalOrGrouping(s string, sep byte, last int) byte {
	if strings.Count(s, string(sep)) > 1 || len(s)-last-1 == 3 {
		return 0
	}
	return sep
}
