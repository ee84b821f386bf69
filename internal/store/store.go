// Package store owns the Postgres connection and schema migrations. Feature
// repositories build their queries with the shared squirrel builder so every
// statement uses $n placeholders.
package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"mediassist/internal/logger"
)

// Builder is the statement builder used by all repositories.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open connects to Postgres, retrying for a while so the server can come up
// alongside the database in a compose environment.
func Open(connStr string, log *logger.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			return db, nil
		}
		log.Warn(fmt.Sprintf("waiting for database (%d/10): %v", i+1, err))
		time.Sleep(2 * time.Second)
	}
	return nil, errors.Wrap(err, "connecting to database")
}

// Migrate applies all pending migrations from dir.
func Migrate(connStr, dir string, log *logger.Logger) error {
	m, err := migrate.New("file://"+dir, connStr)
	if err != nil {
		return errors.Wrap(err, "initializing migrations")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "applying migrations")
	}
	log.Info("migrations applied")
	return nil
}
