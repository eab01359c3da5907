// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package quantity normalizes free-text donation quantities to estimated
kilograms for impact calculations.

Donors enter quantities as arbitrary magnitude+unit text ("10 kg",
"2 boxes", "a few bags"), so normalization is best-effort with a fixed
fallback table:

	kg                  taken literally
	g                   divided by 1000
	lb / pound          multiplied by 0.453592
	item / piece / pcs  multiplied by 0.2 (avg item ~200g)
	box / package/pack  multiplied by 0.5 (avg package ~500g)
	bare number         multiplied by 0.3
	unparseable         flat 0.2 kg estimate

Parsing never fails: malformed text degrades to the conservative flat
estimate rather than surfacing an error.
*/
package quantity
