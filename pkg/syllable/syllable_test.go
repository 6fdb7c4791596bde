package syllable

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CTAG07/wordagen/pkg/markov"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func TestGenerateBounds(t *testing.T) {
	g := NewGenerator(WithRand(testRand(5)))

	for i := 0; i < 100; i++ {
		word, err := g.Generate(3, 10)
		require.NoError(t, err)
		assert.True(t, isAlpha(word), "word %q should be lowercase letters only", word)
		assert.GreaterOrEqual(t, len(word), 3, "word %q", word)
		assert.LessOrEqual(t, len(word), 10, "word %q", word)
	}
}

func TestGenerateTightBounds(t *testing.T) {
	// Two characters is the shortest initial syllable, so this range is
	// reachable but rejects most attempts.
	g := NewGenerator(WithRand(testRand(9)))

	word, err := g.Generate(2, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, word)
	assert.True(t, isAlpha(word))
}

func TestGenerateInvalidParameters(t *testing.T) {
	g := NewGenerator(WithRand(testRand(1)))

	_, err := g.Generate(0, 5)
	assert.ErrorIs(t, err, markov.ErrInvalidParameters)

	_, err = g.Generate(8, 3)
	assert.ErrorIs(t, err, markov.ErrInvalidParameters)

	_, err = g.GenerateBatch(0, 3, 10)
	assert.ErrorIs(t, err, markov.ErrInvalidParameters)
}

func TestGenerateExhausted(t *testing.T) {
	// The shortest initial syllable is onset plus nucleus, two characters,
	// so a one-character word can never be assembled.
	g := NewGenerator(WithRand(testRand(3)))

	_, err := g.Generate(1, 1)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := NewGenerator(WithRand(testRand(42))).GenerateBatch(10, 3, 10)
	require.NoError(t, err)
	second, err := NewGenerator(WithRand(testRand(42))).GenerateBatch(10, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateBatchCount(t *testing.T) {
	g := NewGenerator(WithRand(testRand(7)))
	words, err := g.GenerateBatch(25, 4, 8)
	require.NoError(t, err)
	assert.Len(t, words, 25)
}

func TestSyllablePositions(t *testing.T) {
	g := NewGenerator(WithRand(testRand(11)))

	vowel := func(b byte) bool {
		switch b {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			return true
		}
		return false
	}

	for i := 0; i < 50; i++ {
		initial := g.syllable(posInitial)
		assert.False(t, vowel(initial[0]), "initial syllable %q should start with an onset", initial)

		final := g.syllable(posFinal)
		assert.False(t, vowel(final[len(final)-1]), "final syllable %q should end with a coda", final)
	}
}
