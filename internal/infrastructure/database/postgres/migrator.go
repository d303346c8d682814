package postgres

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/compound-analyzer/pkg/errors"
)

// RunMigrations applies all pending schema migrations.  Called on startup
// when persistence is enabled; a schema already at the latest version is not
// an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create migrator").
			WithDetail(migrationsPath)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.CodeDatabaseError, "migration failed")
	}
	return nil
}

// RollbackMigrations reverts the given number of migration steps.
func RollbackMigrations(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return errors.InvalidParam(fmt.Sprintf("rollback steps must be positive, got %d", steps))
	}
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create migrator").
			WithDetail(migrationsPath)
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "rollback failed")
	}
	return nil
}

// MigrationVersion reports the current schema version and dirty state.
func MigrationVersion(dbURL, migrationsPath string) (uint, bool, error) {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return 0, false, errors.Wrap(err, errors.CodeDatabaseError, "failed to create migrator")
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, errors.CodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}
