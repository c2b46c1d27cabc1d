package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractor(t *testing.T, ops []Operator, mode string) *Extractor {
	t.Helper()
	e, err := NewExtractor(ops, mode)
	require.NoError(t, err)
	return e
}

func TestExtract_MultipleOperators(t *testing.T) {
	e := newExtractor(t, []Operator{{Name: "claro"}, {Name: "bitel"}, {Name: "entel"}}, "")

	got, ok := e.Extract("Entel es mejor que Claro")
	assert.True(t, ok)
	assert.Equal(t, "claro, entel", got)
}

func TestExtract_NoMatch(t *testing.T) {
	e := newExtractor(t, DefaultOperators(), ModeWord)

	got, ok := e.Extract("mi internet no funciona")
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = e.Extract("")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestMatches_ConfigurationOrderAndDistinct(t *testing.T) {
	e := newExtractor(t, DefaultOperators(), ModeWord)

	assert.Equal(t, []string{"claro", "movistar", "win"},
		e.Matches("WIN, movistar y claro... y otra vez Claro y MOVISTAR"))
}

func TestMatches_WordBoundaries(t *testing.T) {
	word := newExtractor(t, DefaultOperators(), ModeWord)
	assert.Empty(t, word.Matches("actualice windows ayer"))
	assert.Equal(t, []string{"win"}, word.Matches("contraté win ayer"))
	assert.Equal(t, []string{"claro"}, word.Matches("(claro)"))

	substring := newExtractor(t, DefaultOperators(), ModeSubstring)
	assert.Equal(t, []string{"win"}, substring.Matches("actualice windows ayer"))
}

func TestMatches_AccentInsensitiveAliases(t *testing.T) {
	e := newExtractor(t, []Operator{
		{Name: "movistar", Aliases: []string{"telefónica"}},
		{Name: "wow", Aliases: []string{"wow fibra"}},
	}, ModeWord)

	assert.Equal(t, []string{"movistar"}, e.Matches("La TELEFONICA me cobró de más"))
	assert.Equal(t, []string{"wow"}, e.Matches("tengo Wow Fibra en casa"))
}

func TestMatches_PunctuatedAliases(t *testing.T) {
	ops := []Operator{
		{Name: "claro"},
		{Name: "movistar", Aliases: []string{"Tu-Movi", "movistar+"}},
	}

	for _, mode := range []string{ModeWord, ModeSubstring} {
		e := newExtractor(t, ops, mode)
		assert.Equal(t, []string{"movistar"}, e.Matches("Contraté Tu-Movi ayer"), mode)
		assert.Equal(t, []string{"movistar"}, e.Matches("contrate tu movi ayer"), mode)
		assert.Equal(t, []string{"movistar"}, e.Matches("me pasé a Movistar+ hoy"), mode)
	}
}

func TestNewExtractor_Errors(t *testing.T) {
	_, err := NewExtractor(nil, ModeWord)
	assert.Error(t, err)

	_, err = NewExtractor(DefaultOperators(), "fuzzy")
	assert.Error(t, err)

	_, err = NewExtractor([]Operator{{Name: " "}}, ModeWord)
	assert.Error(t, err)

	_, err = NewExtractor([]Operator{{Name: "claro"}, {Name: "claro"}}, ModeWord)
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	ops := []Operator{{Name: "claro", Aliases: []string{"claro peru"}}, {Name: "win"}}
	assert.Equal(t, []string{"claro", "win"}, Names(ops))
	assert.Equal(t, []string{"claro", "claro peru", "win"}, Terms(ops))
	assert.Equal(t, []string{"claro", "entel"}, Split("claro, entel"))
	assert.Nil(t, Split(""))
}
