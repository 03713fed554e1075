// Package migrations holds the goose SQL migrations of the workoutlog database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
