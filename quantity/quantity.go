// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package quantity

import (
	"strconv"
	"strings"
)

// Conversion factors for the supported unit families. Item and package
// weights are rough averages; bare numbers are assumed to be mixed units.
const (
	lbToKg     = 0.453592
	itemKg     = 0.2
	packageKg  = 0.5
	bareUnitKg = 0.3
	fallbackKg = 0.2
)

// EstimateKilograms normalizes a free-text quantity such as "10 kg",
// "500g", "3 pieces" or "2 boxes" to an estimated weight in kilograms.
//
// Unit resolution order: kg, lb/pound, item/piece/pcs, box/package/pack,
// g, then a generic multiplier for a bare magnitude. Text with no leading
// magnitude yields a flat conservative estimate. Never fails.
func EstimateKilograms(raw string) float64 {
	q := strings.ToLower(strings.TrimSpace(raw))

	value, unit, ok := splitMagnitude(q)
	if !ok {
		return fallbackKg
	}

	switch {
	case strings.Contains(unit, "kg"):
		return value
	case strings.Contains(unit, "lb"), strings.Contains(unit, "pound"):
		return value * lbToKg
	case strings.Contains(unit, "item"), strings.Contains(unit, "piece"), strings.Contains(unit, "pcs"):
		return value * itemKg
	case strings.Contains(unit, "box"), strings.Contains(unit, "package"), strings.Contains(unit, "pack"):
		return value * packageKg
	case isGramUnit(unit):
		return value / 1000
	default:
		return value * bareUnitKg
	}
}

// isGramUnit matches the gram family exactly ("g", "gram", "grams",
// "g." and the like). A bare Contains check would swallow any unit with
// the letter g in it ("bags", "eggs"), which belong to the generic
// bare-magnitude estimate instead.
func isGramUnit(unit string) bool {
	return unit == "g" || strings.HasPrefix(unit, "g ") ||
		strings.HasPrefix(unit, "g.") || strings.HasPrefix(unit, "gram")
}

// splitMagnitude splits "10 kg" or "2.5kg" into the leading number and the
// remaining unit text. ok is false when the text does not start with a
// number.
func splitMagnitude(q string) (value float64, unit string, ok bool) {
	end := 0
	for end < len(q) && (q[end] >= '0' && q[end] <= '9' || q[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, "", false
	}

	value, err := strconv.ParseFloat(q[:end], 64)
	if err != nil {
		return 0, "", false
	}

	return value, strings.TrimSpace(q[end:]), true
}
