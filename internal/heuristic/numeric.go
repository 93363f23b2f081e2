// Package heuristic holds the small numeric helpers shared by the detection
// engines: loose amount coercion, guarded percentages, 2-decimal rounding.
package heuristic

import (
	"encoding/json"
	"math"
	"strconv"
)

// ParseAmount coerces a loosely-typed JSON value into a float64.
// Helius normally emits token amounts as numbers, but strings and garbage
// appear in real payloads; anything that does not parse is skipped by the
// caller, never treated as fatal.
func ParseAmount(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Round2 rounds to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage returns part/total*100 rounded to 2 decimals.
// A zero total is treated as 1 so the division can never blow up.
func Percentage(part, total int) float64 {
	if total == 0 {
		total = 1
	}
	return Round2(float64(part) / float64(total) * 100)
}
