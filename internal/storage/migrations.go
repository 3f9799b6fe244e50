package storage

import (
	_ "embed"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	//go:embed schema.sql
	schemaSQL string

	//go:embed schema_mysql.sql
	schemaMySQL string
)

// schemaFor returns the DDL for d.
func schemaFor(d Dialect) string {
	if d == DialectMySQL {
		return schemaMySQL
	}
	return schemaSQL
}

// schemaStatements splits the schema for d into single statements. The MySQL
// driver refuses multi-statement Exec unless the DSN enables it.
func schemaStatements(d Dialect) []string {
	var stmts []string
	for _, part := range strings.Split(schemaFor(d), ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			stmts = append(stmts, strings.Join(lines, "\n"))
		}
	}
	return stmts
}

// RunMigrations creates the interwiki and updatelog tables when missing.
// This function is idempotent and safe to run multiple times.
func RunMigrations(db *sqlx.DB, d Dialect) error {
	for _, stmt := range schemaStatements(d) {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "migrate %s schema", d)
		}
	}
	return nil
}
