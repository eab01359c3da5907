// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers for the
FoodCycle server.

# Middleware

  - WithLogging: structured request/completion logging via log/slog
  - CORS: permissive cross-origin headers for the web frontend

# Helpers

  - JSONResponse: serialize any value with a status code
  - ErrorResponse: standard models.ErrorResponse envelope
  - ParseJSONBody: decode a request body into a struct
*/
package middleware
