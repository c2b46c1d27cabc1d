// pkg/converter/converter.go
package converter

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TypeConverter renders source values as dataset text cells
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for value rendering
type TypeConverterConfig struct {
	// Layout used for time.Time values
	TimeLayout string
	// Timezone timestamps are converted to before formatting
	Timezone *time.Location
	// Text written for NULL values
	NullText string
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		TimeLayout: "2006-01-02 15:04:05",
		Timezone:   time.UTC,
		NullText:   "",
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TimeLayout == "" {
		config.TimeLayout = DefaultConfig().TimeLayout
	}
	if config.Timezone == nil {
		config.Timezone = time.UTC
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// RenderRow converts a row of cells to text, failing on the first cell that cannot be rendered
func (c *TypeConverter) RenderRow(cells []interface{}) ([]string, error) {
	out := make([]string, len(cells))
	for i, cell := range cells {
		text, err := c.ToText(cell)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		out[i] = text
	}
	return out, nil
}
