// Package sql embeds the SQLite schema shipped with the planner binary.
package sql

import _ "embed"

//go:embed schema.sql
var Schema string
