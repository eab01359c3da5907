// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the FoodCycle server.

# Schema

Four tables back the marketplace:

  - users: donors and recipients
  - donations: offered food with free-text quantity and optional expiry
  - requests: recipient claims against specific donations
  - messages: user-to-user messages (persistence only; realtime delivery
    is out of scope)

# Design Notes

All IDs are application-generated UUID strings. Status enumerations are
enforced with CHECK constraints at the database level in addition to
application validation. Expiry dates are stored as ISO-8601 date text
(YYYY-MM-DD) because they are calendar dates with no time-of-day
component.

The DDL is restricted to syntax accepted by both PostgreSQL and SQLite so
the same schema string serves both supported drivers.
*/
package db
