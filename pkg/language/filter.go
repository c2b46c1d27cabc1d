package language

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Defaults for Options. Short Spanish flairs such as "pregunta" or "queja"
// come back from whatlanggo as Esperanto, French or Somali at confidences
// well under 0.5, so anything below that is treated as undetermined.
const (
	DefaultMinLength     = 3
	DefaultMinConfidence = 0.5
)

// Options configures a Filter
type Options struct {
	// Target is the language rows are expected to be written in
	Target string
	// Candidates narrows detection to these languages (names or codes)
	Candidates []string
	// MinLength is the minimum rune count worth classifying
	MinLength int
	// MinConfidence discards detections below this confidence
	MinConfidence float64
}

// Filter flags text whose dominant language is not the target.
// Anything it cannot classify is kept.
type Filter struct {
	target        string
	detector      Detector
	minLength     int
	minConfidence float64
	logger        *zap.Logger
}

// NewFilter creates a filter; a nil detector selects the whatlanggo backend
func NewFilter(opts Options, detector Detector, logger *zap.Logger) (*Filter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := Parse(opts.Target)
	if err != nil {
		return nil, err
	}

	if detector == nil {
		candidates := make([]string, 0, len(opts.Candidates))
		for _, c := range opts.Candidates {
			base, err := Parse(c)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, base.ISO3())
		}
		detector = NewWhatlangDetector(candidates)
	}

	return &Filter{
		target:        target.ISO3(),
		detector:      detector,
		minLength:     opts.MinLength,
		minConfidence: opts.MinConfidence,
		logger:        logger,
	}, nil
}

// Target returns the ISO 639-3 code of the target language
func (f *Filter) Target() string {
	return f.target
}

// IsForeign reports whether text is confidently written in another language
func (f *Filter) IsForeign(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < f.minLength {
		return false
	}

	det, ok := f.detector.Detect(trimmed)
	if !ok || det.Confidence < f.minConfidence {
		f.logger.Debug("Language undetermined, keeping text",
			zap.String("text", trimmed),
			zap.Float64("confidence", det.Confidence))
		return false
	}
	return det.Lang != f.target
}
