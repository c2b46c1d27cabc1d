package textnorm

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// nonAlphanumeric matches runs of characters that separate tokens
var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// snowball language names by ISO 639-1 code
var stemmerLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"hu": "hungarian",
	"no": "norwegian",
	"ru": "russian",
	"sv": "swedish",
}

// Options configures a Preprocessor
type Options struct {
	// Language is an ISO 639-1 code selecting the builtin stoplist and stemmer
	Language string
	// Stem enables Snowball stemming of surviving tokens
	Stem bool
	// StoplistPath optionally points to an extra YAML stoplist
	StoplistPath string
	// Protected words are never removed nor stemmed
	Protected []string
}

// Preprocessor tokenizes text and removes stopwords
type Preprocessor struct {
	stopwords map[string]struct{}
	protected map[string]struct{}
	stemLang  string
	stem      bool
}

// NewPreprocessor builds a preprocessor for the configured language
func NewPreprocessor(opts Options) (*Preprocessor, error) {
	builtin, err := BuiltinStoplist(opts.Language)
	if err != nil {
		return nil, err
	}
	terms := builtin.Terms

	if opts.StoplistPath != "" {
		extra, err := LoadStoplist(opts.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist %s: %w", opts.StoplistPath, err)
		}
		terms = append(terms, extra.Terms...)
	}

	p := &Preprocessor{
		stopwords: make(map[string]struct{}, len(terms)),
		protected: make(map[string]struct{}),
		stem:      opts.Stem,
	}
	if opts.Stem {
		lang, ok := stemmerLanguages[opts.Language]
		if !ok {
			return nil, fmt.Errorf("stemming not available for language %q", opts.Language)
		}
		p.stemLang = lang
	}

	for _, w := range terms {
		p.AddStopword(w)
	}
	p.Protect(opts.Protected...)
	return p, nil
}

// AddStopword adds a word to the stopword set
func (p *Preprocessor) AddStopword(word string) {
	if key := Normalize(strings.TrimSpace(word)); key != "" {
		p.stopwords[key] = struct{}{}
	}
}

// Protect marks words (or every token of a phrase) as never removed nor stemmed
func (p *Preprocessor) Protect(words ...string) {
	for _, w := range words {
		for _, tok := range Tokenize(Normalize(w)) {
			p.protected[tok] = struct{}{}
		}
	}
}

// IsStopword reports whether a token is removed by Preprocess
func (p *Preprocessor) IsStopword(token string) bool {
	key := Normalize(token)
	if _, ok := p.protected[key]; ok {
		return false
	}
	_, ok := p.stopwords[key]
	return ok
}

// Tokenize splits text on whitespace and punctuation
func Tokenize(text string) []string {
	return strings.Fields(nonAlphanumeric.ReplaceAllString(text, " "))
}

// Preprocess removes stopwords and rejoins the remaining tokens in order.
// Without stemming, Preprocess(Preprocess(x)) == Preprocess(x).
func (p *Preprocessor) Preprocess(text string) string {
	if text == "" {
		return text
	}

	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if p.IsStopword(tok) {
			continue
		}
		kept = append(kept, p.stemToken(tok))
	}
	return strings.Join(kept, " ")
}

// PreprocessNull applies Preprocess to a nullable column; NULL stays NULL
func (p *Preprocessor) PreprocessNull(s sql.NullString) sql.NullString {
	if !s.Valid {
		return s
	}
	return sql.NullString{String: p.Preprocess(s.String), Valid: true}
}

func (p *Preprocessor) stemToken(token string) string {
	if !p.stem {
		return token
	}
	if _, ok := p.protected[Normalize(token)]; ok {
		return token
	}
	stemmed, err := snowball.Stem(token, p.stemLang, false)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}
