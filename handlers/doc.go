// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the FoodCycle API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - UserHandler: Registration and profile lookup
  - DonationHandler: Donation lifecycle (create, list, update status, delete)
  - RequestHandler: Request creation with atomic reservation
  - MatchHandler: Preference estimation and donation matching
  - InsightsHandler: Community-wide aggregations and reports
  - RecommendationHandler: Donor and recipient recommendations
  - MessageHandler: User-to-user messaging

Handlers are created via constructor functions that accept *sql.DB and Config:

	matchHandler := handlers.NewMatchHandler(db, cfg)

# Donation Lifecycle

Donations progress through three states: available → reserved → completed

	POST   /donations      → CreateDonation (returns impact estimate and suggestions)
	POST   /requests       → CreateRequest (reserves the donation atomically)
	PATCH  /donations/{id} → UpdateStatus (e.g. mark completed at handoff)

Request creation is the only guarded transition: the reserve is a
conditional UPDATE on status = 'available' inside the same transaction as
the request insert, so concurrent requests for one donation produce
exactly one winner.

# Matching Engine

The scoring core is implemented in scoring.go:

	prefs := handlers.EstimatePreferences(records)
	ranked := handlers.RankDonations(available, prefs, time.Now(), handlers.ModeGeneral)

Preference estimation categorizes a recipient's non-rejected request
history into a percentage distribution. Ranking scores each available
donation from the category preference plus a banded expiry bonus, sorts
stably by score descending, and returns the top five. Two weighting modes
exist: ModeGeneral (percentage base, bonus bands [2,7]/>7) for matching
and ModeRecipient (count×10 base, bands [3,10]/>10) for recommendations.

# Community Insights

Aggregations over the full donation/request history live in insights.go:

	needs, err := handlers.ComputeCommunityNeeds(db)
	trends, err := handlers.ComputeDonationTrends(db)

These feed the recommendation assembly in recommend.go, which blends
supply/demand gaps, shelf-life trends, and per-user history into donor
and recipient recommendation lists.
*/
package handlers
