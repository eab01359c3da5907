// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package category classifies free-text food names into a closed set of food
categories via an ordered keyword table.

# Usage

	category.Categorize("Fresh Apples") // => category.Fruits
	category.Categorize("Canned Beans") // => category.Canned
	category.Categorize("")             // => category.Other

# Matching Rules

The lookup table is an ordered list of (category, keywords) pairs. The food
name is lower-cased and tested by substring containment against each keyword
in declared order; the first match wins. Names that match no keyword fall
through to Other.

The table is process-wide constant data with no lifecycle: classification is
a pure function of its input, independent of call order or system state.
*/
package category
