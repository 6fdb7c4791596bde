package markov

import (
	"errors"
	"strings"
	"testing"
)

var freeWords = []string{
	"cat", "hat", "bat", "rat", "sat", "mat", "pat", "vat",
	"catnap", "hatter", "batter", "rattle", "saddle", "matter",
	"pattern", "vatful", "cater", "hater", "later", "water",
}

var ingWords = []string{
	"testing", "resting", "nesting", "running", "walking",
	"reading", "rending", "renting", "reeling", "ringing",
	"roaming", "rusting", "singing", "jumping", "landing",
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func TestGenerateFreeContract(t *testing.T) {
	corpus := testCorpus(t, freeWords...)
	m, err := Train(corpus, 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(11)))

	const minLen, maxLen = 3, 8
	for i := 0; i < 50; i++ {
		word, err := g.Generate(WithLengthRange(minLen, maxLen))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !isAlpha(word) {
			t.Errorf("Generate() = %q, want alphabetic characters only", word)
		}
		// Late retries may relax the bounds; accepted words always stay
		// inside the relaxed envelope.
		if len(word) < max(1, minLen-2) || len(word) > maxLen+3 {
			t.Errorf("Generate() = %q (len %d), outside relaxed bounds [%d, %d]",
				word, len(word), max(1, minLen-2), maxLen+3)
		}
		if corpus.Contains(word) {
			t.Errorf("Generate() = %q, which is in the training corpus", word)
		}
	}
}

func TestGenerateExhausted(t *testing.T) {
	// The only chain leads to a ten-letter word, so a target of exactly
	// three with a single retry must fail, never truncate or pad.
	m, err := Train(testCorpus(t, "abcdefghij"), 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(1)))

	_, err = g.Generate(WithLengthRange(3, 3), WithMaxRetries(1))
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Generate() error = %v, want *ExhaustedError", err)
	}
	if exhausted.MinLen != 3 || exhausted.MaxLen != 3 || exhausted.MaxRetries != 1 {
		t.Errorf("ExhaustedError = %+v, want bounds 3-3 with 1 retry", exhausted)
	}
	if exhausted.Order != 2 {
		t.Errorf("ExhaustedError.Order = %d, want 2", exhausted.Order)
	}
}

func TestGenerateInvalidParameters(t *testing.T) {
	m, err := Train(testCorpus(t, freeWords...), 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(1)))

	testCases := []struct {
		name string
		call func() error
	}{
		{"min over max", func() error {
			_, err := g.Generate(WithLengthRange(8, 3))
			return err
		}},
		{"zero min", func() error {
			_, err := g.Generate(WithLengthRange(0, 5))
			return err
		}},
		{"zero retries", func() error {
			_, err := g.Generate(WithMaxRetries(0))
			return err
		}},
		{"prefix and suffix together", func() error {
			_, err := g.Generate(WithPrefix("ca"), WithSuffix("at"))
			return err
		}},
		{"zero batch count", func() error {
			_, err := g.GenerateBatch(0)
			return err
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("error = %v, want ErrInvalidParameters", err)
			}
		})
	}
}

func TestGenerateWithPrefixContract(t *testing.T) {
	corpus := testCorpus(t,
		"about", "above", "abide", "aboard", "abandon", "ability",
		"absent", "absorb", "abrupt", "hat", "water", "matter")
	m, err := Train(corpus, 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(3)))

	for i := 0; i < 20; i++ {
		word, err := g.GenerateWithPrefix("ab", WithLengthRange(4, 8))
		if err != nil {
			t.Fatalf("GenerateWithPrefix() error = %v", err)
		}
		if !strings.HasPrefix(word, "ab") {
			t.Errorf("GenerateWithPrefix() = %q, want prefix \"ab\"", word)
		}
		if !isAlpha(word) {
			t.Errorf("GenerateWithPrefix() = %q, want alphabetic characters only", word)
		}
	}
}

func TestGenerateWithPrefixUppercaseInput(t *testing.T) {
	m, err := Train(testCorpus(t, "about", "above", "abide", "aboard"), 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(5)))

	word, err := g.GenerateWithPrefix("AB", WithLengthRange(4, 8))
	if err != nil {
		t.Fatalf("GenerateWithPrefix() error = %v", err)
	}
	if !strings.HasPrefix(word, "ab") {
		t.Errorf("GenerateWithPrefix(\"AB\") = %q, want lowercased prefix \"ab\"", word)
	}
}

func TestGenerateWithSuffixContract(t *testing.T) {
	corpus := testCorpus(t, ingWords...)
	m, err := Train(corpus, 2, true)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(17)))

	for i := 0; i < 20; i++ {
		word, err := g.GenerateWithSuffix("ing", WithLengthRange(5, 10))
		if err != nil {
			t.Fatalf("GenerateWithSuffix() error = %v", err)
		}
		if !strings.HasSuffix(word, "ing") {
			t.Errorf("GenerateWithSuffix() = %q, want suffix \"ing\"", word)
		}
		if corpus.Contains(word) {
			t.Errorf("GenerateWithSuffix() = %q, which is in the training corpus", word)
		}
	}
}

func TestGenerateWithSuffixRequiresReverseModel(t *testing.T) {
	m, err := Train(testCorpus(t, ingWords...), 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(1)))

	if _, err := g.GenerateWithSuffix("ing"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("GenerateWithSuffix() on forward model: error = %v, want ErrUnsupportedMode", err)
	}
	if _, err := g.Generate(WithSuffix("ing")); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("Generate(WithSuffix) on forward model: error = %v, want ErrUnsupportedMode", err)
	}
}

func TestGenerateWithPrefixAndSuffixContract(t *testing.T) {
	corpus := testCorpus(t, ingWords...)
	m, err := Train(corpus, 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(23)))

	for i := 0; i < 20; i++ {
		word, err := g.GenerateWithPrefixAndSuffix("re", "ing", WithLengthRange(6, 10))
		if err != nil {
			t.Fatalf("GenerateWithPrefixAndSuffix() error = %v", err)
		}
		if !strings.HasPrefix(word, "re") {
			t.Errorf("GenerateWithPrefixAndSuffix() = %q, want prefix \"re\"", word)
		}
		if !strings.HasSuffix(word, "ing") {
			t.Errorf("GenerateWithPrefixAndSuffix() = %q, want suffix \"ing\"", word)
		}
	}
}

func TestGenerateWithPrefixAndSuffixDegradesToPrefix(t *testing.T) {
	m, err := Train(testCorpus(t, ingWords...), 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(29)))

	// "re" + "ing" cannot fit in four characters, so only the prefix is honored.
	word, err := g.GenerateWithPrefixAndSuffix("re", "ing", WithLengthRange(2, 4))
	if err != nil {
		t.Fatalf("GenerateWithPrefixAndSuffix() error = %v", err)
	}
	if !strings.HasPrefix(word, "re") {
		t.Errorf("degraded result = %q, want prefix \"re\"", word)
	}
}

func TestGenerateWithPrefixAndSuffixRequiresForwardModel(t *testing.T) {
	m, err := Train(testCorpus(t, ingWords...), 2, true)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(1)))

	if _, err := g.GenerateWithPrefixAndSuffix("re", "ing"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("error = %v, want ErrUnsupportedMode", err)
	}
}

func TestGenerateWithPrefixAndSuffixUsesSuppliedReverseModel(t *testing.T) {
	corpus := testCorpus(t, ingWords...)
	forward, err := Train(corpus, 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	reverse, err := Train(corpus, 2, true)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(forward, WithRand(testRand(31)), WithReverseModel(reverse))

	word, err := g.GenerateWithPrefixAndSuffix("ru", "ing", WithLengthRange(6, 10))
	if err != nil {
		t.Fatalf("GenerateWithPrefixAndSuffix() error = %v", err)
	}
	if !strings.HasPrefix(word, "ru") || !strings.HasSuffix(word, "ing") {
		t.Errorf("GenerateWithPrefixAndSuffix() = %q, want prefix \"ru\" and suffix \"ing\"", word)
	}
}

func TestGenerateBatch(t *testing.T) {
	corpus := testCorpus(t, freeWords...)
	m, err := Train(corpus, 2, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(13)))

	words, err := g.GenerateBatch(10, WithLengthRange(3, 8))
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(words) != 10 {
		t.Fatalf("GenerateBatch() returned %d words, want 10", len(words))
	}
	for _, w := range words {
		if corpus.Contains(w) {
			t.Errorf("GenerateBatch() produced corpus word %q", w)
		}
	}
}

func TestGenerateDeterministicWithSeededRand(t *testing.T) {
	corpus := testCorpus(t, freeWords...)
	run := func() []string {
		m, err := Train(corpus, 2, false)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		g := NewGenerator(m, WithRand(testRand(99)))
		words, err := g.GenerateBatch(5, WithLengthRange(3, 8))
		if err != nil {
			t.Fatalf("GenerateBatch() error = %v", err)
		}
		return words
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("word %d differs across identically seeded runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestGenerateReverseModelFreeMode(t *testing.T) {
	// A reverse-trained model still returns words in normal orientation
	// from free mode, and they must still be novel.
	corpus := testCorpus(t, freeWords...)
	m, err := Train(corpus, 2, true)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	g := NewGenerator(m, WithRand(testRand(41)))

	for i := 0; i < 20; i++ {
		word, err := g.Generate(WithLengthRange(3, 8))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if corpus.Contains(word) {
			t.Errorf("Generate() = %q, which is in the training corpus", word)
		}
	}
}
