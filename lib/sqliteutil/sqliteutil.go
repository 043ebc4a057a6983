// Package sqliteutil opens the project's sql databases: local files
// through the embedded sqlite driver, libsql:// and http(s):// URLs
// through the remote libsql driver.
package sqliteutil

import (
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func driverFor(path string) string {
	if strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") {
		return "libsql"
	}
	return "sqlite"
}

// OpenDB opens the database at path and applies the schema. Re-applying
// a schema to an existing database is not an error.
func OpenDB(schema, path string) (*sql.DB, error) {
	db, err := sql.Open(driverFor(path), path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
