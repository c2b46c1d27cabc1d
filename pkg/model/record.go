// pkg/model/record.go
package model

import (
	"database/sql"
	"database/sql/driver"
)

// Upstream column names, in the order the source query returns them
const (
	ColPostID            = "post_id"
	ColPostAuthor        = "post_author"
	ColCommentID         = "comment_id"
	ColCommentAuthor     = "comment_author"
	ColPostTitle         = "post_title"
	ColPostCreatedUTC    = "post_created_utc"
	ColLinkFlairText     = "link_flair_text"
	ColSelftext          = "selftext"
	ColSubreddit         = "subreddit"
	ColUpvoteRatio       = "upvote_ratio"
	ColComment           = "comment"
	ColCommentScore      = "comment_score"
	ColCommentCreatedUTC = "comment_created_utc"
	ColSeedOperator      = "operadora_busqueda"
)

// DefaultAttributionColumn is the output name of the attributed operator column.
// Published datasets and their consumers read "operadora"; the "operatora"
// spelling seen in older notes is a typo. Override with output.attribution_column.
const DefaultAttributionColumn = "operadora"

// SourceColumns lists the 14 upstream columns in query order
var SourceColumns = []string{
	ColPostID, ColPostAuthor, ColCommentID, ColCommentAuthor,
	ColPostTitle, ColPostCreatedUTC, ColLinkFlairText, ColSelftext,
	ColSubreddit, ColUpvoteRatio, ColComment, ColCommentScore,
	ColCommentCreatedUTC, ColSeedOperator,
}

// Record is one post/comment pair as read from the source
type Record struct {
	PostID            string         `db:"post_id"`
	PostAuthor        sql.NullString `db:"post_author"`
	CommentID         string         `db:"comment_id"`
	CommentAuthor     sql.NullString `db:"comment_author"`
	PostTitle         sql.NullString `db:"post_title"`
	PostCreatedUTC    Value          `db:"post_created_utc"`
	LinkFlairText     sql.NullString `db:"link_flair_text"`
	Selftext          sql.NullString `db:"selftext"`
	Subreddit         sql.NullString `db:"subreddit"`
	UpvoteRatio       Value          `db:"upvote_ratio"`
	Comment           sql.NullString `db:"comment"`
	CommentScore      Value          `db:"comment_score"`
	CommentCreatedUTC Value          `db:"comment_created_utc"`
	SeedOperator      string         `db:"operadora_busqueda"`
}

// OutputRow is a cleaned record attributed to a single operator.
// The seed operator is intentionally absent.
type OutputRow struct {
	PostID            string
	PostAuthor        sql.NullString
	CommentID         string
	CommentAuthor     sql.NullString
	PostTitle         sql.NullString
	PostCreatedUTC    Value
	LinkFlairText     sql.NullString
	Selftext          sql.NullString
	Subreddit         sql.NullString
	UpvoteRatio       Value
	Comment           sql.NullString
	CommentScore      Value
	CommentCreatedUTC Value
	Operator          string
}

// OutputColumns returns the header of the output dataset
func OutputColumns(attributionColumn string) []string {
	if attributionColumn == "" {
		attributionColumn = DefaultAttributionColumn
	}
	cols := make([]string, 0, len(SourceColumns))
	for _, c := range SourceColumns {
		if c == ColSeedOperator {
			continue
		}
		cols = append(cols, c)
	}
	return append(cols, attributionColumn)
}

// Cells returns the row values in OutputColumns order, nil for NULL
func (r OutputRow) Cells() []interface{} {
	return []interface{}{
		r.PostID,
		nullString(r.PostAuthor),
		r.CommentID,
		nullString(r.CommentAuthor),
		nullString(r.PostTitle),
		r.PostCreatedUTC.Interface(),
		nullString(r.LinkFlairText),
		nullString(r.Selftext),
		nullString(r.Subreddit),
		r.UpvoteRatio.Interface(),
		nullString(r.Comment),
		r.CommentScore.Interface(),
		r.CommentCreatedUTC.Interface(),
		r.Operator,
	}
}

func nullString(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

// Value holds a column whose type depends on the source driver
// (epoch floats, timestamps, numerics rendered as strings, ...)
type Value struct {
	V     interface{}
	Valid bool
}

// NewValue wraps a non-null value
func NewValue(v interface{}) Value {
	return Value{V: v, Valid: v != nil}
}

// Scan implements sql.Scanner
func (v *Value) Scan(src interface{}) error {
	if src == nil {
		v.V, v.Valid = nil, false
		return nil
	}
	// Drivers may reuse byte buffers between rows
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	v.V, v.Valid = src, true
	return nil
}

// Value implements driver.Valuer
func (v Value) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.V, nil
}

// Interface returns the wrapped value or nil
func (v Value) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.V
}
