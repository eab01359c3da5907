// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package category

import "strings"

// Category is a closed classification of food items. Every food name maps
// to exactly one Category, with Other as the catch-all.
type Category string

const (
	Vegetables Category = "vegetables"
	Fruits     Category = "fruits"
	Dairy      Category = "dairy"
	Bakery     Category = "bakery"
	Canned     Category = "canned"
	Grains     Category = "grains"
	Meat       Category = "meat"
	Ready      Category = "ready"
	Other      Category = "other"
)

type entry struct {
	category Category
	keywords []string
}

// keywordTable is scanned in declared order; the first keyword contained in
// the food name wins, so ordering acts as the tie-breaker ("can" would also
// match "canned" text, which is why canned comes before grains keywords
// containing overlapping substrings).
var keywordTable = []entry{
	{Vegetables, []string{"vegetable", "veg", "greens", "lettuce", "spinach", "carrot", "tomato"}},
	{Fruits, []string{"fruit", "apple", "banana", "orange", "berry", "berries"}},
	{Dairy, []string{"dairy", "milk", "cheese", "yogurt", "butter", "cream"}},
	{Bakery, []string{"bread", "bakery", "cake", "pastry", "roll", "bun"}},
	{Canned, []string{"canned", "can", "preserved", "jar", "tin"}},
	{Grains, []string{"rice", "pasta", "grain", "cereal", "oat", "wheat"}},
	{Meat, []string{"meat", "beef", "chicken", "pork", "fish", "seafood", "poultry"}},
	{Ready, []string{"prepared", "meal", "cooked", "ready", "leftover"}},
}

// Categorize maps a free-text food name to its Category. Matching is
// case-insensitive substring containment, not word-boundary matching.
func Categorize(foodName string) Category {
	name := strings.ToLower(foodName)

	for _, e := range keywordTable {
		for _, kw := range e.keywords {
			if strings.Contains(name, kw) {
				return e.category
			}
		}
	}

	return Other
}
