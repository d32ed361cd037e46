// internal/common/database/migrate.go
package database

import (
	"errors"
	"fmt"

	"nagarik-sewa/internal/common/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration under dir to the database at url.
// A dirty schema is forced back to its recorded version before migrating.
func RunMigrations(dir, url string, log logger.Logger) error {
	m, err := migrate.New("file://"+dir, url)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Warn("could not read migration version", map[string]interface{}{"error": err.Error()})
	}

	if dirty {
		log.Warn("database in dirty state, forcing version", map[string]interface{}{"version": version})
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version %d: %w", version, err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema up to date", map[string]interface{}{"version": version})
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ = m.Version()
	log.Info("migrations applied", map[string]interface{}{"version": version})
	return nil
}
