// pkg/config/database.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds Snowflake connection parameters
type SnowflakeConfig struct {
	User          string `json:"user" yaml:"user" env:"SNOWFLAKE_USER"`
	Password      string `json:"password" yaml:"password" env:"SNOWFLAKE_PASSWORD"`
	Account       string `json:"account" yaml:"account" env:"SNOWFLAKE_ACCOUNT"`
	Warehouse     string `json:"warehouse" yaml:"warehouse" env:"SNOWFLAKE_WAREHOUSE"`
	Database      string `json:"database" yaml:"database" env:"SNOWFLAKE_DATABASE"`
	Schema        string `json:"schema" yaml:"schema" env:"SNOWFLAKE_SCHEMA" env-default:"PUBLIC"`
	Role          string `json:"role" yaml:"role" env:"SNOWFLAKE_ROLE"`
	Authenticator string `json:"authenticator" yaml:"authenticator" env:"SNOWFLAKE_AUTHENTICATOR" env-default:"snowflake"`

	// Connection pool settings
	MaxOpenConns           int `json:"max_open_conns" yaml:"max_open_conns" env:"SNOWFLAKE_MAX_OPEN_CONNS"`
	MaxIdleConns           int `json:"max_idle_conns" yaml:"max_idle_conns" env:"SNOWFLAKE_MAX_IDLE_CONNS"`
	ConnMaxLifetimeSeconds int `json:"conn_max_lifetime_seconds" yaml:"conn_max_lifetime_seconds" env:"SNOWFLAKE_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTimeSeconds int `json:"conn_max_idle_time_seconds" yaml:"conn_max_idle_time_seconds" env:"SNOWFLAKE_CONN_MAX_IDLE_TIME_SECONDS"`

	// Query timeout
	QueryTimeoutSeconds int `json:"query_timeout_seconds" yaml:"query_timeout_seconds" env:"SNOWFLAKE_QUERY_TIMEOUT_SECONDS"`
}

// PostgresConfig holds PostgreSQL connection parameters.
// Field names match the {"postgres": {...}} section of existing config.json files.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `json:"port" yaml:"port" env:"POSTGRES_PORT,TUNNEL_PORT" env-default:"5432"`
	User     string `json:"user" yaml:"user" env:"POSTGRES_USER"`
	Password string `json:"password" yaml:"password" env:"POSTGRES_PASSWORD"`
	Database string `json:"database" yaml:"database" env:"POSTGRES_DB"`
	SSLMode  string `json:"sslmode" yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`

	// Connection pool settings
	MaxOpenConns           int `json:"max_open_conns" yaml:"max_open_conns" env:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns           int `json:"max_idle_conns" yaml:"max_idle_conns" env:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetimeSeconds int `json:"conn_max_lifetime_seconds" yaml:"conn_max_lifetime_seconds" env:"POSTGRES_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTimeSeconds int `json:"conn_max_idle_time_seconds" yaml:"conn_max_idle_time_seconds" env:"POSTGRES_CONN_MAX_IDLE_TIME_SECONDS"`

	// Statement timeout
	StatementTimeoutSeconds int `json:"statement_timeout_seconds" yaml:"statement_timeout_seconds" env:"POSTGRES_STATEMENT_TIMEOUT_SECONDS"`
}

// SQLiteConfig points at a local snapshot of the source tables
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path" env:"SQLITE_PATH"`
}

// Pool defaults, applied when the settings leave them unset
func (c *SnowflakeConfig) applyDefaults() {
	c.MaxOpenConns = orDefault(c.MaxOpenConns, 10)
	c.MaxIdleConns = orDefault(c.MaxIdleConns, 5)
	c.ConnMaxLifetimeSeconds = orDefault(c.ConnMaxLifetimeSeconds, 600)
	c.ConnMaxIdleTimeSeconds = orDefault(c.ConnMaxIdleTimeSeconds, 300)
	c.QueryTimeoutSeconds = orDefault(c.QueryTimeoutSeconds, 300)
}

func (c *PostgresConfig) applyDefaults() {
	c.MaxOpenConns = orDefault(c.MaxOpenConns, 25)
	c.MaxIdleConns = orDefault(c.MaxIdleConns, 10)
	c.ConnMaxLifetimeSeconds = orDefault(c.ConnMaxLifetimeSeconds, 1800)
	c.ConnMaxIdleTimeSeconds = orDefault(c.ConnMaxIdleTimeSeconds, 600)
	c.StatementTimeoutSeconds = orDefault(c.StatementTimeoutSeconds, 300)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Validate checks the Snowflake credentials
func (c *SnowflakeConfig) Validate() error {
	if c.User == "" {
		return errors.New("SNOWFLAKE_USER is required")
	}
	if c.Password == "" && c.AuthType() == gosnowflake.AuthTypeSnowflake {
		return errors.New("SNOWFLAKE_PASSWORD is required")
	}
	if c.Account == "" {
		return errors.New("SNOWFLAKE_ACCOUNT is required")
	}
	if c.Warehouse == "" {
		return errors.New("SNOWFLAKE_WAREHOUSE is required")
	}
	if c.Database == "" {
		return errors.New("SNOWFLAKE_DATABASE is required")
	}
	return nil
}

// Validate checks the PostgreSQL credentials
func (c *PostgresConfig) Validate() error {
	if c.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if c.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if c.Database == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

// Validate checks the snapshot path
func (c *SQLiteConfig) Validate() error {
	if c.Path == "" {
		return errors.New("SQLITE_PATH is required")
	}
	return nil
}

// AuthType converts the authenticator name to the driver type
func (c *SnowflakeConfig) AuthType() gosnowflake.AuthType {
	switch strings.ToLower(c.Authenticator) {
	case "oauth":
		return gosnowflake.AuthTypeOAuth
	case "externalbrowser":
		return gosnowflake.AuthTypeExternalBrowser
	case "username_password_mfa":
		return gosnowflake.AuthTypeUsernamePasswordMFA
	case "jwt":
		return gosnowflake.AuthTypeJwt
	case "token":
		return gosnowflake.AuthTypeTokenAccessor
	case "okta":
		return gosnowflake.AuthTypeOkta
	default:
		return gosnowflake.AuthTypeSnowflake
	}
}

// ConnMaxLifetime returns the pool lifetime setting
func (c *SnowflakeConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeSeconds) * time.Second
}

// ConnMaxIdleTime returns the pool idle setting
func (c *SnowflakeConfig) ConnMaxIdleTime() time.Duration {
	return time.Duration(c.ConnMaxIdleTimeSeconds) * time.Second
}

// QueryTimeout returns the session statement timeout
func (c *SnowflakeConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// ConnMaxLifetime returns the pool lifetime setting
func (c *PostgresConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeSeconds) * time.Second
}

// ConnMaxIdleTime returns the pool idle setting
func (c *PostgresConfig) ConnMaxIdleTime() time.Duration {
	return time.Duration(c.ConnMaxIdleTimeSeconds) * time.Second
}

// StatementTimeout returns the session statement timeout
func (c *PostgresConfig) StatementTimeout() time.Duration {
	return time.Duration(c.StatementTimeoutSeconds) * time.Second
}

// Timeout returns the source query timeout
func (c *QueryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConnectionString returns a formatted Snowflake DSN
func (c *SnowflakeConfig) ConnectionString() string {
	dsn := fmt.Sprintf("%s:%s@%s/%s/%s?warehouse=%s&authenticator=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Account,
		c.Database,
		c.Schema,
		c.Warehouse,
		c.AuthType(),
	)

	if c.Role != "" {
		dsn += "&role=" + c.Role
	}

	return dsn
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		quoteConnValue(c.Password),
		c.Database,
		c.SSLMode,
	)
}

// ConnectionString returns the modernc.org/sqlite DSN
func (c *SQLiteConfig) ConnectionString() string {
	return c.Path + "?_pragma=busy_timeout(5000)"
}

// quoteConnValue quotes keyword/value connection string values that need it
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
