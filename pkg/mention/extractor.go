// Package mention attributes text to the operators it names.
package mention

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/David-Botos/operator-opinions/pkg/textnorm"
)

// Match modes
const (
	ModeWord      = "word"
	ModeSubstring = "substring"
)

// Separator joins multiple matches in Extract output
const Separator = ", "

// Operator is a canonical name plus the aliases it is also known by
type Operator struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// DefaultOperators is the stock vocabulary in output order
func DefaultOperators() []Operator {
	return []Operator{
		{Name: "claro"},
		{Name: "bitel"},
		{Name: "entel"},
		{Name: "movistar"},
		{Name: "wow"},
		{Name: "win"},
	}
}

// Names returns the canonical names of ops
func Names(ops []Operator) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

// Terms returns every canonical name and alias of ops
func Terms(ops []Operator) []string {
	var terms []string
	for _, op := range ops {
		terms = append(terms, op.Name)
		terms = append(terms, op.Aliases...)
	}
	return terms
}

type matcher struct {
	name     string
	patterns []*regexp.Regexp
	needles  []string
}

// Extractor finds operator mentions in free text
type Extractor struct {
	mode     string
	matchers []matcher
}

// NewExtractor compiles ops for the given mode; an empty mode means ModeWord
func NewExtractor(ops []Operator, mode string) (*Extractor, error) {
	if mode == "" {
		mode = ModeWord
	}
	if mode != ModeWord && mode != ModeSubstring {
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("operator list is empty")
	}

	e := &Extractor{mode: mode}
	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		name := strings.TrimSpace(op.Name)
		if name == "" {
			return nil, fmt.Errorf("operator with empty name")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate operator %q", name)
		}
		seen[name] = struct{}{}

		m := matcher{name: name}
		for _, term := range append([]string{name}, op.Aliases...) {
			needle := canonical(term)
			if needle == "" {
				continue
			}
			if mode == ModeSubstring {
				m.needles = append(m.needles, needle)
				continue
			}
			pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(needle) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern for %q: %w", term, err)
			}
			m.patterns = append(m.patterns, pattern)
		}
		e.matchers = append(e.matchers, m)
	}
	return e, nil
}

// canonical folds s to the token form Preprocess produces, so needles and
// text agree on punctuation: "Tu-Movi" and "tu movi" both become "tu movi"
func canonical(s string) string {
	return strings.Join(textnorm.Tokenize(textnorm.Normalize(s)), " ")
}

// Mode returns the match mode in use
func (e *Extractor) Mode() string {
	return e.mode
}

// Matches returns the distinct operators mentioned in text, in configuration order
func (e *Extractor) Matches(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	normalized := canonical(text)

	var found []string
	for _, m := range e.matchers {
		if m.matches(normalized) {
			found = append(found, m.name)
		}
	}
	return found
}

// Extract returns the mentions joined by Separator, or ("", false) when none match
func (e *Extractor) Extract(text string) (string, bool) {
	found := e.Matches(text)
	if len(found) == 0 {
		return "", false
	}
	return strings.Join(found, Separator), true
}

func (m matcher) matches(text string) bool {
	for _, p := range m.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	for _, n := range m.needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// Split breaks an Extract result back into operator names
func Split(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, Separator)
}
