package wordlist

import "sort"

const (
	// MinWordLen is the shortest training word kept by the filters.
	MinWordLen = 2
	// MaxWordLen is the longest training word kept by the filters.
	MaxWordLen = 15
)

// IsValidWord reports whether w is usable as a training word: lowercase
// ASCII letters only, with a length inside [MinWordLen, MaxWordLen].
func IsValidWord(w string) bool {
	if len(w) < MinWordLen || len(w) > MaxWordLen {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// Corpus is a set of unique training words. It doubles as the novelty check
// a generated word must pass: anything already in the corpus is not nonsense.
// Insertion order is irrelevant.
type Corpus struct {
	words map[string]struct{}
}

// NewCorpus builds a corpus from words, silently dropping anything that
// fails IsValidWord.
func NewCorpus(words ...string) *Corpus {
	c := &Corpus{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		c.Add(w)
	}
	return c
}

// Add inserts a word into the corpus. It returns false if the word was
// rejected by IsValidWord or was already present.
func (c *Corpus) Add(w string) bool {
	if !IsValidWord(w) {
		return false
	}
	if _, ok := c.words[w]; ok {
		return false
	}
	c.words[w] = struct{}{}
	return true
}

// Contains reports whether w is in the corpus.
func (c *Corpus) Contains(w string) bool {
	_, ok := c.words[w]
	return ok
}

// Len returns the number of unique words.
func (c *Corpus) Len() int {
	return len(c.words)
}

// Words returns the corpus contents as a sorted slice. The copy is the
// caller's to keep; the corpus itself is not exposed.
func (c *Corpus) Words() []string {
	out := make([]string, 0, len(c.words))
	for w := range c.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
