// pkg/source/query.go
package source

import (
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/connector"
	"github.com/David-Botos/operator-opinions/pkg/model"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// Dialect captures the SQL differences between source databases
type Dialect struct {
	Name        string
	placeholder sq.PlaceholderFormat
	newline     string
	quote       bool
}

var (
	Postgres  = Dialect{Name: "postgres", placeholder: sq.Dollar, newline: "chr(10)", quote: true}
	Snowflake = Dialect{Name: "snowflake", placeholder: sq.Question, newline: "CHR(10)"}
	SQLite    = Dialect{Name: "sqlite", placeholder: sq.Question, newline: "char(10)", quote: true}
)

// DialectFor maps a database/sql driver name to its dialect
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case connector.PostgresDriver, "postgres":
		return Postgres, nil
	case connector.SnowflakeDriver:
		return Snowflake, nil
	case connector.SQLiteDriver:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("no SQL dialect for driver %q", driverName)
	}
}

// Identifier quotes each part of a possibly schema-qualified name.
// Snowflake names stay unquoted so they fold to upper case.
func (d Dialect) Identifier(name string) string {
	if !d.quote {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func (d Dialect) stripNewlines(expr string) string {
	return fmt.Sprintf("REPLACE(%s, %s, ' ')", expr, d.newline)
}

// QueryBuilder renders the post/comment extraction query
type QueryBuilder struct {
	dialect Dialect
	cfg     config.QueryConfig
}

// NewQueryBuilder validates the configured identifiers
func NewQueryBuilder(dialect Dialect, cfg config.QueryConfig) (*QueryBuilder, error) {
	for _, ident := range []string{cfg.PostsTable, cfg.CommentsTable, cfg.ExclusionTable, cfg.CommentCreatedColumn} {
		if !identifierPattern.MatchString(ident) {
			return nil, fmt.Errorf("invalid SQL identifier %q", ident)
		}
	}
	return &QueryBuilder{dialect: dialect, cfg: cfg}, nil
}

// Tables lists the tables the query reads
func (b *QueryBuilder) Tables() []string {
	return []string{b.cfg.PostsTable, b.cfg.CommentsTable, b.cfg.ExclusionTable}
}

// Build returns the SQL text and its arguments
func (b *QueryBuilder) Build() (string, []interface{}, error) {
	d := b.dialect
	as := func(expr, alias string) string {
		return fmt.Sprintf(`%s AS "%s"`, expr, alias)
	}

	query := sq.StatementBuilder.PlaceholderFormat(d.placeholder).
		Select(
			as("a.post_id", model.ColPostID),
			as("a.author", model.ColPostAuthor),
			as("b.comment_id", model.ColCommentID),
			as("b.author", model.ColCommentAuthor),
			as(d.stripNewlines("a.title"), model.ColPostTitle),
			as("a.created_utc", model.ColPostCreatedUTC),
			as("a.link_flair_text", model.ColLinkFlairText),
			as(d.stripNewlines("a.selftext"), model.ColSelftext),
			as("a.subreddit", model.ColSubreddit),
			as("a.upvote_ratio", model.ColUpvoteRatio),
			as(d.stripNewlines("b.body"), model.ColComment),
			as("b.score", model.ColCommentScore),
			as("b."+d.Identifier(b.cfg.CommentCreatedColumn), model.ColCommentCreatedUTC),
			as("a.operadora", model.ColSeedOperator),
		).
		From(d.Identifier(b.cfg.PostsTable) + " a").
		JoinClause("INNER JOIN " + d.Identifier(b.cfg.CommentsTable) + " b ON a.post_id = b.post_id").
		Where("a.post_id NOT IN (SELECT DISTINCT ep.post_id FROM " + d.Identifier(b.cfg.ExclusionTable) + " ep)")

	if len(b.cfg.ExcludedPostIDs) > 0 {
		query = query.Where(sq.NotEq{"a.post_id": b.cfg.ExcludedPostIDs})
	}

	sql, args, err := query.OrderBy("a.post_id", "b.comment_id").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build source query: %w", err)
	}
	return sql, args, nil
}
