// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/David-Botos/operator-opinions/pkg/mention"
)

// Supported source drivers
const (
	DriverPostgres  = "postgres"
	DriverSnowflake = "snowflake"
	DriverSQLite    = "sqlite"
)

// Config represents the application configuration
type Config struct {
	Source SourceConfig `json:"source" yaml:"source"`

	// Database connections
	Postgres  PostgresConfig  `json:"postgres" yaml:"postgres"`
	Snowflake SnowflakeConfig `json:"snowflake" yaml:"snowflake"`
	SQLite    SQLiteConfig    `json:"sqlite" yaml:"sqlite"`

	Query     QueryConfig     `json:"query" yaml:"query"`
	Transform TransformConfig `json:"transform" yaml:"transform"`
	Language  LanguageConfig  `json:"language" yaml:"language"`
	Output    OutputConfig    `json:"output" yaml:"output"`

	// Logging
	Log LogConfig `json:"log" yaml:"log"`
}

// SourceConfig selects the upstream database
type SourceConfig struct {
	Driver string `json:"driver" yaml:"driver" env:"SOURCE_DRIVER" env-default:"postgres"`
}

// QueryConfig names the upstream tables
type QueryConfig struct {
	PostsTable           string   `json:"posts_table" yaml:"posts_table" env:"QUERY_POSTS_TABLE" env-default:"reddit_bmo_sq_posts"`
	CommentsTable        string   `json:"comments_table" yaml:"comments_table" env:"QUERY_COMMENTS_TABLE" env-default:"reddit_bmo_sq_comments"`
	ExclusionTable       string   `json:"exclusion_table" yaml:"exclusion_table" env:"QUERY_EXCLUSION_TABLE" env-default:"reddit_mbo_sq_excluded_posts"`
	CommentCreatedColumn string   `json:"comment_created_column" yaml:"comment_created_column" env:"QUERY_COMMENT_CREATED_COLUMN" env-default:"createc_utc"`
	ExcludedPostIDs      []string `json:"excluded_post_ids" yaml:"excluded_post_ids" env:"QUERY_EXCLUDED_POST_IDS"`
	TimeoutSeconds       int      `json:"timeout_seconds" yaml:"timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"300"`
}

// TransformConfig drives text cleaning and operator attribution
type TransformConfig struct {
	Language        string             `json:"language" yaml:"language" env:"TRANSFORM_LANGUAGE" env-default:"spanish"`
	Operators       []mention.Operator `json:"operators" yaml:"operators"`
	MatchMode       string             `json:"match_mode" yaml:"match_mode" env:"TRANSFORM_MATCH_MODE" env-default:"word"`
	Stem            bool               `json:"stem" yaml:"stem" env:"TRANSFORM_STEM"`
	StoplistPath    string             `json:"stoplist_path" yaml:"stoplist_path" env:"TRANSFORM_STOPLIST_PATH"`
	PreprocessFlair bool               `json:"preprocess_flair" yaml:"preprocess_flair" env:"TRANSFORM_PREPROCESS_FLAIR"`
}

// LanguageConfig configures the flair language filter
type LanguageConfig struct {
	Target        string   `json:"target" yaml:"target" env:"LANGUAGE_TARGET" env-default:"spanish"`
	Candidates    []string `json:"candidates" yaml:"candidates" env:"LANGUAGE_CANDIDATES"`
	MinLength     int      `json:"min_length" yaml:"min_length" env:"LANGUAGE_MIN_LENGTH" env-default:"3"`
	MinConfidence float64  `json:"min_confidence" yaml:"min_confidence" env:"LANGUAGE_MIN_CONFIDENCE" env-default:"0.5"`
}

// OutputConfig describes the produced files
type OutputConfig struct {
	Path              string `json:"path" yaml:"path" env:"OUTPUT_PATH" env-default:"files/reddit_mobile_operators_peru_opinions_dataset.csv"`
	AttributionColumn string `json:"attribution_column" yaml:"attribution_column" env:"OUTPUT_ATTRIBUTION_COLUMN" env-default:"operadora"`
	SummaryPath       string `json:"summary_path" yaml:"summary_path" env:"OUTPUT_SUMMARY_PATH"`
}

// LogConfig selects the logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LoadConfig loads configuration from an optional settings file and the environment.
// Variables from envFile are loaded first and never override the real environment;
// a missing envFile is ignored.
func LoadConfig(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills values that struct tags cannot express
func (c *Config) applyDefaults() {
	c.Source.Driver = strings.ToLower(strings.TrimSpace(c.Source.Driver))
	if len(c.Transform.Operators) == 0 {
		c.Transform.Operators = mention.DefaultOperators()
	}
	c.Postgres.applyDefaults()
	c.Snowflake.applyDefaults()
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case DriverPostgres:
		if err := c.Postgres.Validate(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	case DriverSnowflake:
		if err := c.Snowflake.Validate(); err != nil {
			return fmt.Errorf("snowflake: %w", err)
		}
	case DriverSQLite:
		if err := c.SQLite.Validate(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	default:
		return fmt.Errorf("unknown source driver %q", c.Source.Driver)
	}

	if c.Query.PostsTable == "" || c.Query.CommentsTable == "" || c.Query.ExclusionTable == "" {
		return errors.New("query tables are required")
	}

	if c.Query.TimeoutSeconds <= 0 {
		return errors.New("query timeout must be positive")
	}

	if len(c.Transform.Operators) == 0 {
		return errors.New("at least one operator is required")
	}

	for _, op := range c.Transform.Operators {
		if strings.TrimSpace(op.Name) == "" {
			return errors.New("operator name cannot be empty")
		}
	}

	if c.Transform.MatchMode != mention.ModeWord && c.Transform.MatchMode != mention.ModeSubstring {
		return fmt.Errorf("unknown match mode %q", c.Transform.MatchMode)
	}

	if c.Language.MinLength < 0 {
		return errors.New("language min length cannot be negative")
	}

	if c.Language.MinConfidence < 0 || c.Language.MinConfidence > 1 {
		return errors.New("language min confidence must be between 0 and 1")
	}

	if c.Output.Path == "" {
		return errors.New("output path is required")
	}

	if c.Output.AttributionColumn == "" {
		return errors.New("attribution column is required")
	}

	return nil
}
