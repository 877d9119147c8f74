// Package migrations holds the SQL migrations that gorm's AutoMigrate cannot express.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
