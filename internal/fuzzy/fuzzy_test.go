package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "hello", "hello", 100},
		{"one deletion", "helo", "hello", 89},
		{"short greeting", "hi", "hey", 40},
		{"one shared rune", "abcd", "wxyd", 25},
		{"substitution costs two edits", "abcd", "abce", 75},
		{"one letter off", "step", "stem", 75},
		{"half rounds down to even", "abcdefgh", "axxxxxxx", 12},
		{"half rounds up to even", "abcdefgh", "abcxxxxx", 38},
		{"transposition", "ab", "ba", 50},
		{"both empty", "", "", 100},
		{"one empty", "abc", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"multibyte runes", "ಅಡಿಕೆ", "ಅಡಿಕೆ", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.a, tt.b))
		})
	}
}

func TestPartialScore_SubstringIsPerfect(t *testing.T) {
	assert.Equal(t, 100, PartialScore("stem bleeding", "my palm has stem bleeding since june"))
	assert.Equal(t, 100, PartialScore("my palm has stem bleeding", "stem bleeding"))
}

func TestPartialScore_TypoStillClose(t *testing.T) {
	s := PartialScore("stem bleding", "stem bleeding")
	assert.GreaterOrEqual(t, s, 85)
	assert.Less(t, s, 100)
}

func TestPartialScore_DisjointIsZero(t *testing.T) {
	assert.Equal(t, 0, PartialScore("xyz", "abcdefgh"))
}

func TestPartialScore_OneLetterOffStaysBelowEntityCutoff(t *testing.T) {
	for _, word := range []string{"step", "item", "foot", "roof"} {
		assert.Less(t, BestOf(word, []string{"stem", "root"}, PartialScore), 85, word)
	}
}

func TestPartialScore_EmptyNeedle(t *testing.T) {
	assert.Equal(t, 0, PartialScore("", "anything"))
	assert.Equal(t, 0, PartialScore("anything", ""))
}

func TestPartialScore_EqualLengthIsScore(t *testing.T) {
	assert.Equal(t, Score("abcd", "abce"), PartialScore("abcd", "abce"))
}

func TestPartialScore_Deterministic(t *testing.T) {
	a := PartialScore("fertiliser for palms", "fertilizer")
	b := PartialScore("fertiliser for palms", "fertilizer")
	assert.Equal(t, a, b)
}

func TestBestOf(t *testing.T) {
	assert.Equal(t, 100, BestOf("hello", []string{"hi", "hello"}, Score))
	assert.Equal(t, 40, BestOf("hi", []string{"hey", "zzz"}, Score))
	assert.Equal(t, 0, BestOf("hello", nil, Score))
	assert.Equal(t, 100, BestOf("when should i spray", []string{"spray", "harvest"}, PartialScore))
}
