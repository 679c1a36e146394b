package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/crystal-levels/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens a pool and checks the server answers.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.NewPgxpoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies every embedded migration that has not run yet.
func Migrate() (*migrate.Migrate, error) {
	dbURL, err := config.DbURL()
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	// the pgx/v5 driver registers itself under the pgx5 scheme
	migrator, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(dbURL))
	if err != nil {
		return nil, fmt.Errorf("unable to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return migrator, nil
}

// ConnectAndMigrate migrates, then connects. The caller closes both the pool
// and the migrator.
func ConnectAndMigrate(ctx context.Context) (*pgxpool.Pool, *migrate.Migrate, error) {
	return connectAndMigrate(ctx, Migrate, Connect)
}

func connectAndMigrate(
	ctx context.Context,
	migrateUp func() (*migrate.Migrate, error),
	connect func(context.Context) (*pgxpool.Pool, error),
) (*pgxpool.Pool, *migrate.Migrate, error) {
	migrator, err := migrateUp()
	if err != nil {
		return nil, nil, err
	}
	pool, err := connect(ctx)
	if err != nil {
		migrator.Close()
		return nil, nil, err
	}
	return pool, migrator, nil
}
