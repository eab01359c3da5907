// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared
across the FoodCycle API server.

# Type Categories

  - Request types: JSON bodies accepted by the API (CreateDonationRequest,
    CreateRequestRequest, ...)
  - Response types: JSON bodies returned by the API
  - Domain types: database-backed entities (User, Donation, Request,
    Message)
  - Derived types: ephemeral computed structures (PreferenceDistribution,
    ScoredDonation, CommunityNeeds, ImpactReport, recommendations) —
    recomputed on demand, never persisted

# Status Enumerations

Donations move available -> reserved (on request creation) -> completed.
Requests are pending, accepted, or rejected. Food name, quantity, and
expiry date are immutable after creation; only status transitions.

# JSON Serialization

All types include JSON tags matching the wire format. Sensitive fields
(password hashes) use `json:"-"` and are never serialized.
*/
package models
