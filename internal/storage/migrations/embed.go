// Package migrations carries the schema for both backends compiled into
// the binary, so deployments never depend on migration files on disk.
package migrations

import "embed"

// PostgresFS holds the token event and trade log schema.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the trade tape schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
