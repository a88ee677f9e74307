package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestPool starts a disposable Postgres, applies sql/postgres and returns a pool.
// The container and pool are released when the test ends.
func newTestPool(t *testing.T) *Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("needs docker; skipped with -short")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("llamaworker"),
		tcpostgres.WithUsername("llama"),
		tcpostgres.WithPassword("llama"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrations, err := filepath.Glob(filepath.Join(moduleRoot(t), "sql", "postgres", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for _, path := range migrations {
		ddl, err := os.ReadFile(path)
		require.NoError(t, err)

		_, err = pool.Exec(ctx, string(ddl))
		require.NoError(t, err, filepath.Base(path))
	}

	return pool
}

// moduleRoot is the nearest parent directory holding go.mod.
func moduleRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found")
		dir = parent
	}
}

func ptr[T any](v T) *T {
	return &v
}
