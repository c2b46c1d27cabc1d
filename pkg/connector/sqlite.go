// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/David-Botos/operator-opinions/pkg/config"
)

// SQLiteDriver is the database/sql name registered by modernc.org/sqlite
const SQLiteDriver = "sqlite"

// SQLiteConnector reads a local snapshot of the source tables
type SQLiteConnector struct {
	baseConnector
	cfg *config.SQLiteConfig
}

// NewSQLiteConnector opens an existing SQLite database file
func NewSQLiteConnector(ctx context.Context, cfg *config.SQLiteConfig) (*SQLiteConnector, error) {
	logger := zap.L().Named("sqlite-connector")
	logger.Info("Opening SQLite snapshot", zap.String("path", cfg.Path))

	// sql.Open would silently create an empty database
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("failed to open SQLite snapshot: %w", err)
	}

	db, err := sql.Open(SQLiteDriver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}
	ApplyConnectionSettings(db, 1, 1, 0, 0)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	return &SQLiteConnector{
		baseConnector: newBaseConnector(db, SQLiteDriver, cfg.Path, logger),
		cfg:           cfg,
	}, nil
}

// Validate verifies the snapshot contains the source tables
func (c *SQLiteConnector) Validate(ctx context.Context, tables ...string) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}
	c.logger.Info("Connected to SQLite", zap.String("version", version))

	var missing []string
	for _, table := range tables {
		var count int
		err := c.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?",
			table,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return &MissingTablesError{Tables: missing}
	}
	return nil
}
