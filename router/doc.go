// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes for the FoodCycle server using
Go 1.22+ method-pattern routing on the standard ServeMux.

# Route Groups

  - /users: registration and lookup
  - /donations: donation lifecycle (create, list, status transitions)
  - /requests: recipient claims with the atomic reserve transition
  - /recipients/{id}/...: per-recipient preferences, matches, and
    recommendations
  - /donors/{id}/...: per-donor patterns and recommendations
  - /insights/...: community-wide impact, trends, gaps, and reports
  - /messages: message persistence

All routes are wrapped with request logging. Handlers receive their
dependencies (database handle, config) through constructor injection.
*/
package router
