package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	results map[string]Detection
	calls   int
}

func (s *stubDetector) Detect(text string) (Detection, bool) {
	s.calls++
	det, ok := s.results[text]
	return det, ok
}

func newStubFilter(t *testing.T, opts Options, results map[string]Detection) (*Filter, *stubDetector) {
	t.Helper()
	stub := &stubDetector{results: results}
	f, err := NewFilter(opts, stub, nil)
	require.NoError(t, err)
	return f, stub
}

func TestFilter_IsForeign(t *testing.T) {
	f, _ := newStubFilter(t, Options{Target: "spanish"}, map[string]Detection{
		"spam":           {Lang: "eng", Confidence: 0.9},
		"queja servicio": {Lang: "spa", Confidence: 0.8},
	})

	assert.True(t, f.IsForeign("spam"))
	assert.False(t, f.IsForeign("queja servicio"))
	assert.Equal(t, "spa", f.Target())
}

func TestFilter_SafeDefaults(t *testing.T) {
	f, stub := newStubFilter(t, Options{Target: "es", MinLength: 3, MinConfidence: 0.5}, map[string]Detection{
		"low confidence": {Lang: "eng", Confidence: 0.2},
	})

	assert.False(t, f.IsForeign(""))
	assert.False(t, f.IsForeign("   "))
	assert.False(t, f.IsForeign("ok"))
	assert.Equal(t, 0, stub.calls, "short text should not reach the detector")

	assert.False(t, f.IsForeign("low confidence"))
	assert.False(t, f.IsForeign("undetermined text"))
	assert.Equal(t, 2, stub.calls)
}

func TestNewFilter_InvalidTarget(t *testing.T) {
	_, err := NewFilter(Options{Target: ""}, nil, nil)
	assert.Error(t, err)

	_, err = NewFilter(Options{Target: "es", Candidates: []string{"nope-lang"}}, nil, nil)
	assert.Error(t, err)
}

func TestFilter_Whatlang(t *testing.T) {
	f, err := NewFilter(Options{
		Target:     "spanish",
		Candidates: []string{"spanish", "english"},
		MinLength:  3,
	}, nil, nil)
	require.NoError(t, err)

	assert.True(t, f.IsForeign("The quick brown fox jumps over the lazy dog while the weather is nice today"))
	assert.False(t, f.IsForeign("El servicio de internet de la empresa es muy malo y nadie responde las quejas de los clientes"))
}

func TestFilter_WhatlangDefaults(t *testing.T) {
	f, err := NewFilter(Options{
		Target:        "spanish",
		MinLength:     DefaultMinLength,
		MinConfidence: DefaultMinConfidence,
	}, nil, nil)
	require.NoError(t, err)

	for _, flair := range []string{"pregunta", "queja", "ayuda", "opinion", "pregunta tecnica", "discusion"} {
		assert.False(t, f.IsForeign(flair), flair)
	}
	assert.True(t, f.IsForeign("I have been waiting for the technician for three weeks and nobody from "+
		"the company has called me back about the problem with my internet connection"))
}

func TestWhatlangDetector_Undetermined(t *testing.T) {
	d := NewWhatlangDetector(nil)
	_, ok := d.Detect("12345 !!!")
	assert.False(t, ok)
}
