package repositories

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/kabadi/intake-service/internal/utils"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the embedded schema migrations to databaseURL.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	migrateURL, err := pgxMigrateURL(databaseURL)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			utils.Logger.Debug("Schema already up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	utils.Logger.Info("Schema migrations applied")
	return nil
}

// pgxMigrateURL rewrites a postgres:// URL to the pgx:// scheme the migrate
// driver registers under.
func pgxMigrateURL(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx":
		u.Scheme = "pgx"
	default:
		return "", fmt.Errorf("unsupported DB URL scheme %q", u.Scheme)
	}
	return u.String(), nil
}
