// Package syllable produces pronounceable nonsense words by assembling
// onset-nucleus-coda syllables from fixed English-like component tables.
// It needs no training corpus, which makes it the fallback generator when
// no word list is available or wanted.
package syllable

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/CTAG07/wordagen/pkg/markov"
)

// ErrExhausted is returned when no assembled word fits the requested
// length bounds within the attempt budget.
var ErrExhausted = errors.New("syllable: generation exhausted")

var (
	onsets = []string{
		"b", "c", "d", "f", "g", "h", "j", "k", "l", "m", "n",
		"p", "r", "s", "t", "v", "w", "z",
		"bl", "br", "ch", "cl", "cr", "dr", "fl", "fr",
		"gl", "gr", "pl", "pr", "sc", "sh", "sk", "sl",
		"sm", "sn", "sp", "st", "sw", "th", "tr", "tw",
	}
	nuclei = []string{
		"a", "e", "i", "o", "u",
		"ai", "ay", "ea", "ee", "ey", "ie", "oa", "oo", "ou",
	}
	codas = []string{
		"b", "d", "f", "g", "k", "l", "m", "n", "p", "r",
		"s", "t", "v", "x", "z",
		"ck", "ct", "ft", "ld", "lf", "lk", "lm", "lp", "lt",
		"mp", "nd", "ng", "nk", "nt", "pt", "rd", "rk", "rm",
		"rn", "rp", "rt", "sk", "sp", "st",
	}
)

const (
	maxAttempts  = 50
	maxSyllables = 4
)

type position uint8

const (
	posInitial position = iota
	posMiddle
	posFinal
)

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator assembles nonsense words from syllable components.
type Generator struct {
	rng markov.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand replaces the random source, mostly for reproducible tests.
func WithRand(rng markov.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// NewGenerator creates a syllable Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rng: globalRand{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// syllable builds one onset-nucleus-coda cluster. Initial syllables always
// carry an onset and final ones always carry a coda; elsewhere the onset
// appears with probability 8/10 and the coda with probability 4/10, which
// keeps consonant clusters from piling up mid-word.
func (g *Generator) syllable(pos position) string {
	var onset, coda string
	if pos == posInitial || g.rng.IntN(10) < 8 {
		onset = onsets[g.rng.IntN(len(onsets))]
	}
	nucleus := nuclei[g.rng.IntN(len(nuclei))]
	if pos == posFinal || g.rng.IntN(10) < 4 {
		coda = codas[g.rng.IntN(len(codas))]
	}
	return onset + nucleus + coda
}

// Generate assembles one word of one to four syllables with a length in
// [minLen, maxLen]. When no attempt lands inside the bounds, the non-empty
// candidate closest to the middle of the range is returned instead.
func (g *Generator) Generate(minLen, maxLen int) (string, error) {
	if minLen < 1 {
		return "", fmt.Errorf("%w: minLen must be >= 1, got %d", markov.ErrInvalidParameters, minLen)
	}
	if minLen > maxLen {
		return "", fmt.Errorf("%w: minLen %d > maxLen %d", markov.ErrInvalidParameters, minLen, maxLen)
	}

	center := (minLen + maxLen) / 2
	var best string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		word := g.assemble(minLen, maxLen)
		if len(word) >= minLen && len(word) <= maxLen {
			return word, nil
		}
		if word == "" {
			continue
		}
		if best == "" || absInt(len(word)-center) < absInt(len(best)-center) {
			best = word
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no word fits in [%d, %d]", ErrExhausted, minLen, maxLen)
	}
	return best, nil
}

// assemble runs one attempt: pick a syllable count, then append syllables
// until the word is long enough or the next one would overflow maxLen.
func (g *Generator) assemble(minLen, maxLen int) string {
	count := g.rng.IntN(maxSyllables) + 1
	word := ""
	for i := 0; i < count; i++ {
		pos := posMiddle
		switch {
		case i == 0:
			pos = posInitial
		case i == count-1:
			pos = posFinal
		}
		syl := g.syllable(pos)
		if len(word)+len(syl) > maxLen {
			break
		}
		word += syl
		if len(word) >= minLen {
			break
		}
	}
	return word
}

// GenerateBatch assembles count independent words.
func (g *Generator) GenerateBatch(count, minLen, maxLen int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1, got %d", markov.ErrInvalidParameters, count)
	}
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		w, err := g.Generate(minLen, maxLen)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
