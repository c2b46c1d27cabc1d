// Package dataset turns source records into attributed output rows.
package dataset

import (
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/model"
	"github.com/David-Botos/operator-opinions/pkg/textnorm"
)

// LanguageClassifier flags text not written in the target language
type LanguageClassifier interface {
	IsForeign(text string) bool
}

// MentionExtractor lists the operators named in a text
type MentionExtractor interface {
	Matches(text string) []string
}

// Options tunes the assembly
type Options struct {
	// PreprocessFlair removes stopwords from the flair before classification
	PreprocessFlair bool
}

// Assembler runs the per-record transform
type Assembler struct {
	preprocessor *textnorm.Preprocessor
	classifier   LanguageClassifier
	extractor    MentionExtractor
	opts         Options
	logger       *zap.Logger
}

// NewAssembler wires the transform collaborators
func NewAssembler(
	preprocessor *textnorm.Preprocessor,
	classifier LanguageClassifier,
	extractor MentionExtractor,
	opts Options,
	logger *zap.Logger,
) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		preprocessor: preprocessor,
		classifier:   classifier,
		extractor:    extractor,
		opts:         opts,
		logger:       logger,
	}
}

// Assemble cleans, filters, attributes and explodes records
func (a *Assembler) Assemble(records []model.Record) ([]model.OutputRow, Stats) {
	stats := newStats()
	stats.RecordsIn = len(records)

	rows := make([]model.OutputRow, 0, len(records))
	for i := range records {
		rec := a.clean(records[i])

		if rec.LinkFlairText.Valid && a.classifier.IsForeign(rec.LinkFlairText.String) {
			stats.Excluded++
			a.logger.Debug("Excluding record by flair language",
				zap.String("post_id", rec.PostID),
				zap.String("comment_id", rec.CommentID),
				zap.String("flair", rec.LinkFlairText.String))
			continue
		}
		stats.Kept++

		operators := a.extractor.Matches(joinText(rec.PostTitle, rec.Selftext, rec.Comment))
		if len(operators) == 0 {
			stats.Fallbacks++
			operators = []string{rec.SeedOperator}
		}

		for _, op := range operators {
			rows = append(rows, outputRow(rec, op))
			stats.RowsPerOperator[op]++
		}
	}
	stats.RowsOut = len(rows)

	a.logger.Info("Assembled dataset",
		zap.Int("records_in", stats.RecordsIn),
		zap.Int("excluded", stats.Excluded),
		zap.Int("fallbacks", stats.Fallbacks),
		zap.Int("rows_out", stats.RowsOut))
	return rows, stats
}

func (a *Assembler) clean(rec model.Record) model.Record {
	rec.PostTitle = a.preprocessor.PreprocessNull(textnorm.NormalizeNull(rec.PostTitle))
	rec.Selftext = a.preprocessor.PreprocessNull(textnorm.NormalizeNull(rec.Selftext))
	rec.Comment = a.preprocessor.PreprocessNull(textnorm.NormalizeNull(rec.Comment))

	rec.LinkFlairText = textnorm.NormalizeNull(rec.LinkFlairText)
	if a.opts.PreprocessFlair {
		rec.LinkFlairText = a.preprocessor.PreprocessNull(rec.LinkFlairText)
	}
	return rec
}

// joinText space-joins the fields, NULL counting as empty
func joinText(fields ...sql.NullString) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Valid {
			parts[i] = f.String
		}
	}
	return strings.Join(parts, " ")
}

func outputRow(rec model.Record, operator string) model.OutputRow {
	return model.OutputRow{
		PostID:            rec.PostID,
		PostAuthor:        rec.PostAuthor,
		CommentID:         rec.CommentID,
		CommentAuthor:     rec.CommentAuthor,
		PostTitle:         rec.PostTitle,
		PostCreatedUTC:    rec.PostCreatedUTC,
		LinkFlairText:     rec.LinkFlairText,
		Selftext:          rec.Selftext,
		Subreddit:         rec.Subreddit,
		UpvoteRatio:       rec.UpvoteRatio,
		Comment:           rec.Comment,
		CommentScore:      rec.CommentScore,
		CommentCreatedUTC: rec.CommentCreatedUTC,
		Operator:          operator,
	}
}
