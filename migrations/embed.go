package migrations

import "embed"

// FS holds the versioned schema files for every SQL cache backend
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
