// pkg/converter/values.go
package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ToText renders a single value
func (c *TypeConverter) ToText(value interface{}) (string, error) {
	if isNull(value) {
		return c.config.NullText, nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return c.formatFloat(float64(v), 32)
	case float64:
		return c.formatFloat(v, 64)
	case time.Time:
		return v.In(c.config.Timezone).Format(c.config.TimeLayout), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		// Complex driver types (arrays, variants) are kept as JSON
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			c.logger.Debug("Falling back to fmt for value",
				zap.String("type", fmt.Sprintf("%T", v)),
				zap.Error(err))
			return fmt.Sprintf("%v", v), nil
		}
		return string(jsonBytes), nil
	}
}

// formatFloat writes floats without exponent so epoch seconds stay readable
func (c *TypeConverter) formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot render non-finite float %v", f)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize), nil
}

// isNull determines if a value should be treated as NULL
func isNull(value interface{}) bool {
	return value == nil
}
