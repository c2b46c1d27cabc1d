package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		iso1  string
		iso3  string
	}{
		{"spanish", "es", "spa"},
		{"Spanish", "es", "spa"},
		{"es", "es", "spa"},
		{"spa", "es", "spa"},
		{" english ", "en", "eng"},
		{"pt", "pt", "por"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			base, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.iso1, base.String())
			assert.Equal(t, tt.iso3, base.ISO3())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("klingon-ish")
	assert.Error(t, err)
}

func TestCode(t *testing.T) {
	code, err := Code("spanish")
	require.NoError(t, err)
	assert.Equal(t, "es", code)
}
