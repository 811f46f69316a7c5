// Package db opens and migrates the SQLite database backing the durable
// entity store.
package db

import (
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"database/sql"

	"github.com/arthome/graphpress/errors"
)

// Open opens a SQLite database at the specified path with settings suited
// to concurrent readers. If logger is nil the function operates silently.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "path", path)
	}
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "open database")
	}

	// WAL mode allows concurrent reads during writes
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, errors.NewInfrastructureError(err, "enable WAL mode")
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, errors.NewInfrastructureError(err, "enable foreign keys")
	}

	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDB.Close()
		return nil, errors.NewInfrastructureError(err, "set busy timeout")
	}

	if logger != nil {
		logger.Infow("Database opened",
			"path", path,
			"wal_mode", true,
			"foreign_keys", true,
		)
	}

	return sqlDB, nil
}
