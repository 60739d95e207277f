// Package migrations ships the SQL schema migrations with the binary.
package migrations

import "embed"

// FS holds the versioned *.sql files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
