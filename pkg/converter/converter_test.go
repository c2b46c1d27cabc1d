package converter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operatorName string

func (o operatorName) String() string { return "op:" + string(o) }

func TestToText(t *testing.T) {
	lima := time.FixedZone("PET", -5*3600)
	c := NewTypeConverter(nil)

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hola", "hola"},
		{"bytes", []byte("0.87"), "0.87"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint8", uint8(9), "9"},
		{"epoch float", 1700000000.0, "1700000000"},
		{"ratio", 0.95, "0.95"},
		{"float32", float32(0.5), "0.5"},
		{"time in other zone", time.Date(2024, 1, 2, 22, 0, 0, 0, lima), "2024-01-03 03:00:00"},
		{"stringer", operatorName("claro"), "op:claro"},
		{"json fallback", []string{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToText_NonFinite(t *testing.T) {
	c := NewTypeConverter(nil)
	_, err := c.ToText(math.NaN())
	assert.Error(t, err)
	_, err = c.ToText(math.Inf(-1))
	assert.Error(t, err)
}

func TestRenderRow(t *testing.T) {
	c := NewTypeConverterWithConfig(nil, TypeConverterConfig{NullText: "NULL", TimeLayout: time.RFC3339})

	row, err := c.RenderRow([]interface{}{"p1", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "NULL", "2024-01-01T00:00:00Z"}, row)

	_, err = c.RenderRow([]interface{}{"p1", math.NaN()})
	assert.ErrorContains(t, err, "column 1")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, "", cfg.NullText)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.TimeLayout)
}
