package migration

import (
	"errors"
	"testing"

	"arxivo_backend/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr  error
	called bool
}

func (f *fakeMigrator) Up() error {
	f.called = true
	return f.upErr
}

func (f *fakeMigrator) Close() (error, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Postgres: config.Postgres{
			Host:       "localhost",
			Port:       5432,
			User:       "u",
			Password:   "p",
			DBName:     "d",
			SSLMode:    "disable",
			Migrations: "./migrations",
		},
	}
}

func TestUp_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeMigrator{}

	m := New(testConfig(), func(sourceURL, databaseURL string) (Migrator, error) {
		require.Equal(t, "file://./migrations", sourceURL)
		require.Equal(t, "postgres://u:p@localhost:5432/d?sslmode=disable", databaseURL)
		return fake, nil
	})

	require.NoError(t, m.Up())
	require.True(t, fake.called)
}

func TestUp_NoChangeIsNotAnError(t *testing.T) {
	t.Parallel()

	fake := &fakeMigrator{upErr: migrate.ErrNoChange}

	m := New(testConfig(), func(_, _ string) (Migrator, error) {
		return fake, nil
	})

	require.NoError(t, m.Up())
}

func TestUp_EngineError(t *testing.T) {
	t.Parallel()

	engineErr := errors.New("no database")

	m := New(testConfig(), func(_, _ string) (Migrator, error) {
		return nil, engineErr
	})

	require.ErrorIs(t, m.Up(), engineErr)
}

func TestUp_MigrationError(t *testing.T) {
	t.Parallel()

	upErr := errors.New("broken migration")

	m := New(testConfig(), func(_, _ string) (Migrator, error) {
		return &fakeMigrator{upErr: upErr}, nil
	})

	require.ErrorIs(t, m.Up(), upErr)
}
