// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the FoodCycle API server.

FoodCycle is a food-donation marketplace backend: donors list surplus
food, recipients browse and request it, and a matching engine ranks
available donations against each recipient's inferred preferences and
expiry urgency. Community-wide supply/demand signals feed donor and
recipient recommendations and an impact report.

# Starting the Server

The server runs against a local SQLite file by default:

	go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 8080 -t sqlite -d foodcycle.sqlite

# Configuration

  - PORT (-p): server port (default 8080)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - DATABASE_URL (-d): connection string or sqlite file path

A .env file in the working directory is loaded at startup if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers plus the scoring, insight, and
    recommendation engines
  - category: food-name classification (pure keyword lookup)
  - quantity: free-text quantity normalization to kilograms
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
