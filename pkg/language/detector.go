package language

import (
	"github.com/abadojack/whatlanggo"
)

// Detection is the dominant language found in a text
type Detection struct {
	// Lang is an ISO 639-3 code
	Lang       string
	Confidence float64
}

// Detector identifies the dominant language of a text.
// ok is false when no language could be determined.
type Detector interface {
	Detect(text string) (det Detection, ok bool)
}

// WhatlangDetector detects languages with trigram models
type WhatlangDetector struct {
	options whatlanggo.Options
}

// NewWhatlangDetector restricts detection to the given ISO 639-3 codes, or to all
// supported languages when none are given
func NewWhatlangDetector(candidates []string) *WhatlangDetector {
	d := &WhatlangDetector{}
	if len(candidates) == 0 {
		return d
	}
	whitelist := make(map[whatlanggo.Lang]bool, len(candidates))
	for _, code := range candidates {
		if lang := whatlanggo.CodeToLang(code); lang >= 0 {
			whitelist[lang] = true
		}
	}
	if len(whitelist) > 0 {
		d.options.Whitelist = whitelist
	}
	return d
}

// Detect implements Detector
func (d *WhatlangDetector) Detect(text string) (Detection, bool) {
	info := whatlanggo.DetectWithOptions(text, d.options)
	// a zero confidence means the top candidates tied
	if info.Script == nil || info.Lang < 0 || info.Confidence <= 0 {
		return Detection{}, false
	}
	return Detection{Lang: info.Lang.Iso6393(), Confidence: info.Confidence}, true
}
