package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/connector"
)

const fixtureSchema = `
CREATE TABLE reddit_bmo_sq_posts (
	post_id TEXT PRIMARY KEY,
	author TEXT,
	title TEXT,
	created_utc REAL,
	link_flair_text TEXT,
	selftext TEXT,
	subreddit TEXT,
	upvote_ratio REAL,
	operadora TEXT NOT NULL
);
CREATE TABLE reddit_bmo_sq_comments (
	comment_id TEXT PRIMARY KEY,
	post_id TEXT NOT NULL,
	author TEXT,
	body TEXT,
	score INTEGER,
	createc_utc REAL
);
CREATE TABLE reddit_mbo_sq_excluded_posts (
	post_id TEXT NOT NULL
);
`

// newFixture writes a SQLite snapshot with four posts:
// p1 kept with two comments, p2 in the exclusion table, p3 without comments, p4 kept
func newFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reddit.db")

	db, err := sql.Open(connector.SQLiteDriver, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	posts := [][]interface{}{
		{"p1", "ana", "Claro\nsin señal", 1700000000.0, "Pregunta", "cuerpo\ncon saltos", "PERU", 0.9, "claro"},
		{"p2", "beto", "Excluido", 1700000100.0, nil, nil, "PERU", 0.5, "bitel"},
		{"p3", "caro", "Sin comentarios", 1700000200.0, nil, nil, "PERU", 1.0, "entel"},
		{"p4", "dani", "Entel", 1700000300.0, nil, nil, "PERU", 0.7, "entel"},
	}
	for _, p := range posts {
		_, err = db.Exec(`INSERT INTO reddit_bmo_sq_posts VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, p...)
		require.NoError(t, err)
	}

	comments := [][]interface{}{
		{"c1", "p1", "eva", "me pasa\nigual", 4, 1700000500.0},
		{"c2", "p1", nil, nil, -1, 1700000600.0},
		{"c3", "p2", "fer", "no debería salir", 1, 1700000700.0},
		{"c4", "p4", "gabi", "entel funciona", 2, 1700000800.0},
	}
	for _, c := range comments {
		_, err = db.Exec(`INSERT INTO reddit_bmo_sq_comments VALUES (?, ?, ?, ?, ?, ?)`, c...)
		require.NoError(t, err)
	}

	_, err = db.Exec(`INSERT INTO reddit_mbo_sq_excluded_posts VALUES ('p2'), ('p2')`)
	require.NoError(t, err)
	return path
}

func newRepository(t *testing.T, cfg config.QueryConfig) *Repository {
	t.Helper()
	conn, err := connector.NewSQLiteConnector(context.Background(), &config.SQLiteConfig{Path: newFixture(t)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo, err := NewRepository(conn, cfg, nil)
	require.NoError(t, err)
	return repo
}

func TestRepository_FetchRecords(t *testing.T) {
	repo := newRepository(t, defaultQueryConfig())
	ctx := context.Background()

	require.NoError(t, repo.Validate(ctx))

	records, err := repo.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "p1", first.PostID)
	assert.Equal(t, "c1", first.CommentID)
	assert.Equal(t, "ana", first.PostAuthor.String)
	assert.Equal(t, "eva", first.CommentAuthor.String)
	assert.Equal(t, "Claro sin señal", first.PostTitle.String)
	assert.Equal(t, "cuerpo con saltos", first.Selftext.String)
	assert.Equal(t, "me pasa igual", first.Comment.String)
	assert.Equal(t, "Pregunta", first.LinkFlairText.String)
	assert.Equal(t, 1700000000.0, first.PostCreatedUTC.Interface())
	assert.Equal(t, int64(4), first.CommentScore.Interface())
	assert.Equal(t, "claro", first.SeedOperator)

	second := records[1]
	assert.Equal(t, "c2", second.CommentID)
	assert.False(t, second.CommentAuthor.Valid)
	assert.False(t, second.Comment.Valid)

	assert.Equal(t, "p4", records[2].PostID)
	assert.False(t, records[2].LinkFlairText.Valid)
}

func TestRepository_ExtraExcludedIDs(t *testing.T) {
	cfg := defaultQueryConfig()
	cfg.ExcludedPostIDs = []string{"p4"}
	repo := newRepository(t, cfg)

	records, err := repo.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "p1", r.PostID)
	}
}

func TestRepository_MissingTable(t *testing.T) {
	cfg := defaultQueryConfig()
	cfg.CommentsTable = "reddit_comments_v2"
	repo := newRepository(t, cfg)

	err := repo.Validate(context.Background())
	var missing *connector.MissingTablesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"reddit_comments_v2"}, missing.Tables)

	_, err = repo.FetchRecords(context.Background())
	assert.Error(t, err)
}
