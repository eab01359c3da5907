// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing for the FoodCycle server.

Configuration comes from CLI flags with environment-variable fallback:

  - PORT (-p): server port (default 8080)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - DATABASE_URL (-d): connection string, or sqlite file path
    (default foodcycle.sqlite when the type is sqlite)

A .env file in the working directory is loaded by main before parsing, so
all of the above can also live there during development.

Validation happens at parse time: an unsupported database type or a
missing postgres URL is a startup error, the only class of failure that
terminates the process.
*/
package cliparse
