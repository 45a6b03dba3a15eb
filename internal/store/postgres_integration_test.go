//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/store"
	"github.com/dvdshelf/dvdshelf/internal/store/storetest"
)

// startPostgres runs a throwaway Postgres container and returns its DSN
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dvdshelf"),
		tcpostgres.WithUsername("dvdshelf"),
		tcpostgres.WithPassword("dvdshelf"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}
	return dsn
}

func TestPostgresStoreContract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := startPostgres(t)
	ctx := context.Background()

	suite.Run(t, &storetest.ContractSuite{
		NewStore: func() domain.Store {
			db, err := sql.Open("postgres", dsn)
			require.NoError(t, err)

			s, err := store.NewPostgresStore(ctx, db)
			require.NoError(t, err)

			_, err = db.ExecContext(ctx, `TRUNCATE dvd RESTART IDENTITY`)
			require.NoError(t, err)
			return s
		},
	})
}

func TestOpenPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := store.Open(ctx, adapter.StorageConfig{
		Backend: adapter.BackendPostgres,
		Postgres: adapter.PostgresConfig{
			DSN:          dsn,
			MaxOpenConns: 2,
			MaxIdleConns: 0,
			MaxIdleTime:  "1m",
		},
	})
	require.NoError(t, err)
	defer s.Close()

	id, err := s.Add(ctx, storetest.Titanic())
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Titanic", got.Title)
}
