package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database named by dsn and returns the handle.
// A postgres URL or key=value DSN selects the postgres driver; anything
// else is treated as a SQLite file path (":memory:" included).
// TranslateError is enabled so duplicate-key violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if isPostgres(dsn) {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
