// Package textnorm cleans free text before operator attribution: accent folding,
// lowercasing, tokenizing, stopword removal and optional stemming.
package textnorm

import (
	"database/sql"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Latin letters that carry no combining mark and survive NFD unchanged
var foldLetters = runes.Map(func(r rune) rune {
	switch r {
	case 'ø':
		return 'o'
	case 'ł':
		return 'l'
	case 'đ':
		return 'd'
	case 'ı':
		return 'i'
	case 'ħ':
		return 'h'
	}
	return r
})

var foldLigatures = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
	"ð", "d",
)

// transform chains keep state, so each call gets its own
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), foldLetters, norm.NFC)
}

// Normalize lowercases text and folds accented Latin letters to ASCII ("Café" -> "cafe").
// Empty input is returned unchanged.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	lower := strings.ToLower(text)
	if isASCII(lower) {
		return lower
	}
	folded, _, err := transform.String(stripAccents(), foldLigatures.Replace(lower))
	if err != nil {
		return lower
	}
	return folded
}

// NormalizeNull applies Normalize to a nullable column; NULL stays NULL
func NormalizeNull(s sql.NullString) sql.NullString {
	if !s.Valid {
		return s
	}
	return sql.NullString{String: Normalize(s.String), Valid: true}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
