// Package migrations embeds the SQL schema migrations for every supported database driver.
//
// Each driver has its own directory (postgresql, mysql, sqlite) with golang-migrate
// numbered files, so the binary can bootstrap the schema without files on disk.
package migrations

import "embed"

// FS holds the migration files of all drivers.
//
//go:embed postgresql/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS
