package storage

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger(verbose bool) *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: verbose,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

// MigrateUp applies the embedded migrations to the SQLite file at path.
func MigrateUp(path string, logger migrate.Logger) error {
	const op = "storage.MigrateUp"

	m, err := newMigrate(path, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MigrateDown rolls back all migrations of the SQLite file at path.
func MigrateDown(path string, logger migrate.Logger) error {
	const op = "storage.MigrateDown"

	m, err := newMigrate(path, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeMigrate(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func newMigrate(path string, logger migrate.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return nil, err
	}
	m.Log = logger
	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		slog.Warn("failed to close migrations", "err", err)
	}
}
