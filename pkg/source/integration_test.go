//go:build integration

package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/connector"
)

func startPostgres(t *testing.T) *config.PostgresConfig {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &config.PostgresConfig{
		Host:                    host,
		Port:                    port.Int(),
		User:                    "testuser",
		Password:                "testpass",
		Database:                "testdb",
		SSLMode:                 "disable",
		StatementTimeoutSeconds: 30,
	}
}

func TestRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	conn, err := connector.NewPostgresConnector(ctx, startPostgres(t))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.DB().ExecContext(ctx, fixtureSchema)
	require.NoError(t, err)
	_, err = conn.DB().ExecContext(ctx, `
		INSERT INTO reddit_bmo_sq_posts VALUES
			('p1', 'ana', E'Claro\nsin señal', 1700000000, 'Pregunta', NULL, 'PERU', 0.9, 'claro'),
			('p2', 'beto', 'Excluido', 1700000100, NULL, NULL, 'PERU', 0.5, 'bitel');
		INSERT INTO reddit_bmo_sq_comments VALUES
			('c1', 'p1', 'eva', E'me pasa\nigual', 4, 1700000500),
			('c2', 'p2', 'fer', 'no', 1, 1700000600);
		INSERT INTO reddit_mbo_sq_excluded_posts VALUES ('p2');
	`)
	require.NoError(t, err)

	repo, err := NewRepository(conn, defaultQueryConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Validate(ctx))

	records, err := repo.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Claro sin señal", records[0].PostTitle.String)
	assert.Equal(t, "me pasa igual", records[0].Comment.String)
	assert.Equal(t, "claro", records[0].SeedOperator)
}
