// Package db embeds the SQL migrations so binaries and tests do not depend
// on the working directory.
package db

import "embed"

// Migrations holds the golang-migrate files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
