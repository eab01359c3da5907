// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package quantity

import (
	"math"
	"testing"
)

func TestEstimateKilograms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"kg literal", "10 kg", 10},
		{"kg no space", "2.5kg", 2.5},
		{"grams", "500 g", 0.5},
		{"grams suffix", "250g", 0.25},
		{"pounds lb", "2 lb", 2 * 0.453592},
		{"pounds word", "3 pounds", 3 * 0.453592},
		{"items", "5 items", 1.0},
		{"pieces", "4 pieces", 0.8},
		{"pcs", "10 pcs", 2.0},
		{"boxes", "2 boxes", 1.0},
		{"packages", "3 packages", 1.5},
		{"packs", "4 packs", 2.0},
		{"grams word", "100 grams", 0.1},
		{"bare number", "5", 1.5},
		{"number with unknown unit", "10 bags", 3.0},
		{"g inside unknown unit", "12 eggs", 12 * 0.3},
		{"unparseable text", "a few bags", 0.2},
		{"empty", "", 0.2},
		{"unit before number", "kg 10", 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateKilograms(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("EstimateKilograms(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

// "kg" must win over the bare "g" check for the same text.
func TestEstimateKilogramsUnitPriority(t *testing.T) {
	if got := EstimateKilograms("3 kg"); got != 3 {
		t.Errorf("expected kg to take priority over g, got %v", got)
	}
	// "packages" contains "g" but must resolve as a package count.
	if got := EstimateKilograms("2 packages"); got != 1.0 {
		t.Errorf("expected package multiplier, got %v", got)
	}
}
