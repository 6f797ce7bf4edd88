package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"notesapp/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrReadSchemaVersion       = "failed to read schema version"
)

// ErrDirtySchema возвращается, если предыдущая миграция завершилась с ошибкой.
var ErrDirtySchema = errors.New("database schema is dirty")

// MigrateDSN применяет миграции из sourceURL и возвращает итоговую версию схемы.
// Версия 0 означает, что ни одной миграции не применено.
func MigrateDSN(ctx context.Context, dsn string, sourceURL string) (uint, error) {
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, "failed to close migration instance",
				zap.NamedError("source_error", srcErr), zap.NamedError("database_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		version = 0
	case err != nil:
		return 0, fmt.Errorf("%s: %w", ErrReadSchemaVersion, err)
	case dirty:
		return version, fmt.Errorf("%w: version %d", ErrDirtySchema, version)
	}

	log.Info(ctx, LogMigrationsApplied, zap.Uint("schema_version", version))
	return version, nil
}
