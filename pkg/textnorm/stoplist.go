package textnorm

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed stoplists/*.yaml
var builtinStoplists embed.FS

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStoplist(data)
}

// ParseStoplist decodes a YAML stoplist document
func ParseStoplist(data []byte) (*Stoplist, error) {
	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("decode stoplist: %w", err)
	}
	return &sl, nil
}

// BuiltinStoplist returns the stoplist shipped for an ISO 639-1 language code
func BuiltinStoplist(lang string) (*Stoplist, error) {
	data, err := builtinStoplists.ReadFile("stoplists/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no builtin stoplist for language %q", lang)
	}
	return ParseStoplist(data)
}

// HasBuiltinStoplist reports whether a stoplist ships for the language
func HasBuiltinStoplist(lang string) bool {
	_, err := builtinStoplists.ReadFile("stoplists/" + lang + ".yaml")
	return err == nil
}
