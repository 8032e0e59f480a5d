package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag = "storage-path"
	downFlag        = "down"
)

func main() {
	storagePath, down := getFlagsValues()
	validateFlags(storagePath)
	makeMigrations(storagePath, down)
}

func getFlagsValues() (storagePath string, down bool) {
	path := pflag.StringP(storagePathFlag, "s", "", "local storage file")
	rollback := pflag.Bool(downFlag, false, "roll back all migrations")
	pflag.Parse()
	return *path, *rollback
}

func validateFlags(storagePath string) {
	var errs []error

	if storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(storagePath string, down bool) {
	logger := storage.NewMigrationLogger(true)

	migrate, action := storage.MigrateUp, "applied"
	if down {
		migrate, action = storage.MigrateDown, "rolled back"
	}

	if err := migrate(storagePath, logger); err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	logger.Printf("migrations %s to %q", action, storagePath)
}

func fallDown() {
	os.Exit(2)
}
