package storage

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL database flavour behind a connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect converts a configured driver name to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	switch d {
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "pgx"
	default:
		return "sqlite"
	}
}

// Open connects to the database at dsn using the driver for d.
func Open(d Dialect, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", d)
	}
	return conn, nil
}

// Statements holds the dialect-specific SQL used by the store. Placeholders
// are already rebound for the driver.
type Statements struct {
	SelectInterwikiURL string
	InsertInterwiki    string
	ReplaceInterwiki   string
	SelectUpdateLog    string
	ReplaceUpdateLog   string
}

const interwikiColumns = `(iw_prefix, iw_url, iw_api, iw_wikiid, iw_local, iw_trans) VALUES (?, ?, ?, ?, ?, ?)`

// BuildStatements returns the statements for d.
func BuildStatements(d Dialect) *Statements {
	stmts := &Statements{
		SelectInterwikiURL: `SELECT iw_url FROM interwiki WHERE iw_prefix = ?`,
		SelectUpdateLog:    `SELECT COUNT(*) FROM updatelog WHERE ul_key = ?`,
	}

	switch d {
	case DialectMySQL:
		stmts.InsertInterwiki = `INSERT IGNORE INTO interwiki ` + interwikiColumns
		stmts.ReplaceInterwiki = `REPLACE INTO interwiki ` + interwikiColumns
		stmts.ReplaceUpdateLog = `REPLACE INTO updatelog (ul_key, ul_value) VALUES (?, ?)`
	case DialectPostgres:
		stmts.InsertInterwiki = `INSERT INTO interwiki ` + interwikiColumns + ` ON CONFLICT (iw_prefix) DO NOTHING`
		stmts.ReplaceInterwiki = `INSERT INTO interwiki ` + interwikiColumns + ` ON CONFLICT (iw_prefix) DO UPDATE SET
			iw_url = EXCLUDED.iw_url, iw_api = EXCLUDED.iw_api, iw_wikiid = EXCLUDED.iw_wikiid,
			iw_local = EXCLUDED.iw_local, iw_trans = EXCLUDED.iw_trans
			RETURNING (xmax = 0) AS inserted`
		stmts.ReplaceUpdateLog = `INSERT INTO updatelog (ul_key, ul_value) VALUES (?, ?)
			ON CONFLICT (ul_key) DO UPDATE SET ul_value = EXCLUDED.ul_value`
	default:
		stmts.InsertInterwiki = `INSERT OR IGNORE INTO interwiki ` + interwikiColumns
		stmts.ReplaceInterwiki = `INSERT OR REPLACE INTO interwiki ` + interwikiColumns
		stmts.ReplaceUpdateLog = `INSERT OR REPLACE INTO updatelog (ul_key, ul_value) VALUES (?, ?)`
	}

	bind := sqlx.QUESTION
	if d == DialectPostgres {
		bind = sqlx.DOLLAR
	}
	for _, q := range []*string{
		&stmts.SelectInterwikiURL, &stmts.InsertInterwiki, &stmts.ReplaceInterwiki,
		&stmts.SelectUpdateLog, &stmts.ReplaceUpdateLog,
	} {
		*q = sqlx.Rebind(bind, *q)
	}

	return stmts
}

// Store implements interwiki.Repository and maintenance.UpdateLog on top of
// a sqlx connection. Methods are defined in separate files:
//   - interwiki_repo.go: interwiki table operations
//   - updatelog_repo.go: logged update bookkeeping
type Store struct {
	stmts   *Statements
	dialect Dialect
	conn    *sqlx.DB
}

// Init creates a Store on an existing connection. The schema should already
// be in place via RunMigrations.
func Init(db *sqlx.DB, d Dialect) (*Store, error) {
	if db == nil {
		return nil, errors.New("storage: nil database connection")
	}
	return &Store{
		stmts:   BuildStatements(d),
		dialect: d,
		conn:    db,
	}, nil
}

// Dialect returns the dialect the store was built for.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
