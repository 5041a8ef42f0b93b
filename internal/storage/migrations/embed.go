// Package migrations applies the embedded schema files for the detection
// stores: relational run output in PostgreSQL, trace samples in ClickHouse.
// Migration files are idempotent and applied in lexical order.
package migrations

import "embed"

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed clickhouse/*.sql
var clickhouseFS embed.FS
