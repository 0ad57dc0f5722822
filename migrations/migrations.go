// Package migrations embeds the versioned schema files for each supported
// database, one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
