// Package database opens the relational store behind the item repository and
// keeps its schema current.
//
// Postgres connection strings (URL or key/value form) are served by lib/pq.
// Strings starting with "sqlite://" or "file:" are served by the pure-Go
// modernc SQLite driver, which is what local runs and tests use.
package database

import (
	"database/sql"
	"fmt"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
	"strconv"
	"strings"
)

// Dialect names the SQL flavour a connection speaks.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const sqlitePrefix = "sqlite://"

// DetectDialect picks the dialect from the shape of the connection string.
func DetectDialect(dsn string) Dialect {
	s := strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(s, sqlitePrefix),
		strings.HasPrefix(s, "file:"),
		s == ":memory:":
		return SQLite
	default:
		return Postgres
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// Rebind rewrites '?' placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Open prepares a connection pool for dsn. No connection is made yet; the
// first round trip happens in Migrate.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect := DetectDialect(dsn)

	source := strings.TrimSpace(dsn)
	if dialect == SQLite {
		source = strings.TrimPrefix(source, sqlitePrefix)
	}

	db, err := sql.Open(dialect.DriverName(), source)
	if err != nil {
		return nil, dialect, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}
