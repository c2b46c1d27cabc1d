// pkg/source/repository.go
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/connector"
	"github.com/David-Botos/operator-opinions/pkg/model"
)

// Repository reads post/comment records from the source database
type Repository struct {
	conn    connector.DatabaseConnector
	builder *QueryBuilder
	timeout time.Duration
	logger  *zap.Logger
}

// NewRepository prepares the extraction query for the connector's dialect
func NewRepository(conn connector.DatabaseConnector, cfg config.QueryConfig, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialect, err := DialectFor(conn.DriverName())
	if err != nil {
		return nil, err
	}
	builder, err := NewQueryBuilder(dialect, cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Repository{
		conn:    conn,
		builder: builder,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Validate checks the connection and the source tables
func (r *Repository) Validate(ctx context.Context) error {
	return r.conn.Validate(ctx, r.builder.Tables()...)
}

// FetchRecords runs the extraction query and returns every row
func (r *Repository) FetchRecords(ctx context.Context) ([]model.Record, error) {
	query, args, err := r.builder.Build()
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Running source query",
		zap.String("dialect", r.builder.dialect.Name),
		zap.String("sql", query),
		zap.Int("args", len(args)))

	start := time.Now()
	var records []model.Record
	if err := r.conn.SelectWithTimeout(ctx, &records, query, r.timeout, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	r.logger.Info("Fetched source records",
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}
