package textnorm

import (
	"database/sql"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"ascii", "Hola Mundo", "hola mundo"},
		{"acute", "café", "cafe"},
		{"tilde", "Señal en MOVISTAR Perú", "senal en movistar peru"},
		{"diaeresis", "pingüino", "pinguino"},
		{"uppercase accents", "ÉXITO ÁRBOL", "exito arbol"},
		{"ligatures", "Straße Æther", "strasse aether"},
		{"stroke letters", "Łódź Øresund", "lodz oresund"},
		{"punctuation kept", "¿qué tal?", "¿que tal?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_LatinAccentsBecomeASCII(t *testing.T) {
	inputs := []string{
		"áéíóúÁÉÍÓÚ",
		"àèìòùÀÈÌÒÙ",
		"âêîôûÂÊÎÔÛ",
		"ãõñÃÕÑ",
		"äëïöüÿÄËÏÖÜ",
		"çÇšžčćŠŽČĆ",
		"åÅøØæÆœŒß",
	}

	for _, in := range inputs {
		out := Normalize(in)
		for _, r := range out {
			assert.Truef(t, r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r)),
				"Normalize(%q) = %q contains %q", in, out, r)
		}
	}
}

func TestNormalizeNull(t *testing.T) {
	assert.Equal(t, sql.NullString{}, NormalizeNull(sql.NullString{}))
	assert.Equal(t,
		sql.NullString{String: "cancion", Valid: true},
		NormalizeNull(sql.NullString{String: "Canción", Valid: true}))
	assert.Equal(t,
		sql.NullString{String: "", Valid: true},
		NormalizeNull(sql.NullString{String: "", Valid: true}))
}
