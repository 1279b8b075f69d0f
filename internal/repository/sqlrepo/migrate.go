package sqlrepo

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rotisserie/eris"

	"draftwise/db"
	"draftwise/internal/config"
)

// MigrationURL returns the golang-migrate database URL for cfg.
func MigrationURL(cfg *config.DBConfig) string {
	if cfg.Driver == "sqlite" {
		return "sqlite://" + cfg.Path
	}
	return cfg.DSN()
}

// NewMigrator returns a migrator over the embedded migrations. The caller
// must Close it.
func NewMigrator(cfg *config.DBConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "opening embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(cfg))
	if err != nil {
		return nil, eris.Wrap(err, "creating migrator")
	}
	return m, nil
}
