// Package db embeds the SQL schema applied at startup.
package db

import _ "embed"

// Schema holds the DDL for every application table. Statements are
// idempotent so the schema can be re-applied on every boot.
//
//go:embed migrations/001_schema.sql
var Schema string
