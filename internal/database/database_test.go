package database

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	dbdriver "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestPgx5URL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"postgres://u:p@db:5432/levels", "pgx5://u:p@db:5432/levels"},
		{"postgresql://db/levels?sslmode=disable", "pgx5://db/levels?sslmode=disable"},
		{"pgx5://db/levels", "pgx5://db/levels"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, pgx5URL(test.in))
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	up, err := fs.Glob(migrations, "migrations/*.up.sql")
	assert.NoError(t, err)
	down, err := fs.Glob(migrations, "migrations/*.down.sql")
	assert.NoError(t, err)
	assert.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}

type recordingDriver struct {
	closed bool
}

func (d *recordingDriver) Open(string) (dbdriver.Driver, error) { return d, nil }
func (d *recordingDriver) Close() error                         { d.closed = true; return nil }
func (d *recordingDriver) Lock() error                          { return nil }
func (d *recordingDriver) Unlock() error                        { return nil }
func (d *recordingDriver) Run(io.Reader) error                  { return nil }
func (d *recordingDriver) SetVersion(int, bool) error           { return nil }
func (d *recordingDriver) Version() (int, bool, error)          { return 1, false, nil }
func (d *recordingDriver) Drop() error                          { return nil }

func TestConnectFailureClosesMigrator(t *testing.T) {
	driver := &recordingDriver{}
	migrateUp := func() (*migrate.Migrate, error) {
		source, err := iofs.New(migrations, "migrations")
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", source, "recording", driver)
	}
	errRefused := errors.New("connection refused")
	connect := func(context.Context) (*pgxpool.Pool, error) {
		return nil, errRefused
	}

	pool, migrator, err := connectAndMigrate(context.Background(), migrateUp, connect)
	assert.ErrorIs(t, err, errRefused)
	assert.Nil(t, pool)
	assert.Nil(t, migrator)
	assert.True(t, driver.closed)
}

func TestMigrateFailureSkipsConnect(t *testing.T) {
	errMigrate := errors.New("dirty database")
	connected := false
	_, _, err := connectAndMigrate(
		context.Background(),
		func() (*migrate.Migrate, error) { return nil, errMigrate },
		func(context.Context) (*pgxpool.Pool, error) {
			connected = true
			return nil, nil
		},
	)
	assert.ErrorIs(t, err, errMigrate)
	assert.False(t, connected)
}
