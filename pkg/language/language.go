// Package language flags text written in a language other than the target one.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// English names accepted alongside ISO codes
var languageNames = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"portuguese": "pt",
	"french":     "fr",
	"italian":    "it",
	"german":     "de",
	"russian":    "ru",
	"swedish":    "sv",
	"norwegian":  "no",
	"hungarian":  "hu",
}

// Parse resolves a language name ("spanish") or ISO 639 code ("es", "spa")
func Parse(name string) (language.Base, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return language.Base{}, fmt.Errorf("empty language")
	}
	if code, ok := languageNames[key]; ok {
		key = code
	}
	base, err := language.ParseBase(key)
	if err != nil {
		return language.Base{}, fmt.Errorf("unknown language %q: %w", name, err)
	}
	return base, nil
}

// Code returns the ISO 639-1 code for a language name or code
func Code(name string) (string, error) {
	base, err := Parse(name)
	if err != nil {
		return "", err
	}
	return base.String(), nil
}
