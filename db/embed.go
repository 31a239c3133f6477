// Package db provides the embedded database schema.
package db

import _ "embed"

// Schema contains the DDL statements for all store tables. The statements are
// idempotent and applied on every startup.
//
//go:embed migrations/001_schema.sql
var Schema string
