package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CTAG07/wordagen/pkg/wordlist"
)

const (
	// StartMarker pads the beginning of every padded word order times.
	StartMarker = '^'
	// EndMarker terminates every padded word.
	EndMarker = '$'
	// SchemaVersion identifies the persisted model layout. A cached model
	// with any other version is treated as absent and rebuilt.
	SchemaVersion = 1
)

// Model is a fully built character-level Markov chain: a transition table
// from order-length n-grams to next-character counts, a start table of
// word-initial n-grams, and the corpus the chain was trained on (which is
// also the novelty-check set). A Model is immutable once Train returns and
// is safe for unlimited concurrent readers.
type Model struct {
	order       int
	reverse     bool
	transitions map[string]map[byte]int
	starts      map[string]int
	words       map[string]struct{}
}

// Train builds a Model from corpus. When reverse is true every word is
// reversed before counting, which turns suffix constraints into prefix
// constraints at generation time. Counting is commutative, so corpus
// iteration order never changes the resulting tables.
func Train(corpus *wordlist.Corpus, order int, reverse bool) (*Model, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: order must be >= 1, got %d", ErrInvalidParameters, order)
	}
	if corpus == nil || corpus.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	m := &Model{
		order:       order,
		reverse:     reverse,
		transitions: make(map[string]map[byte]int),
		starts:      make(map[string]int),
		words:       make(map[string]struct{}, corpus.Len()),
	}
	for _, w := range corpus.Words() {
		m.words[w] = struct{}{}
		m.countWord(w)
	}
	return m, nil
}

func (m *Model) countWord(w string) {
	if m.reverse {
		w = reverseString(w)
	}
	padded := strings.Repeat(string(StartMarker), m.order) + w + string(EndMarker)
	m.starts[padded[:m.order]]++
	for i := 0; i+m.order < len(padded); i++ {
		gram := padded[i : i+m.order]
		row := m.transitions[gram]
		if row == nil {
			row = make(map[byte]int)
			m.transitions[gram] = row
		}
		row[padded[i+m.order]]++
	}
}

// Order returns the chain lookback length.
func (m *Model) Order() int { return m.order }

// Reverse reports whether the model was trained on reversed words.
func (m *Model) Reverse() bool { return m.reverse }

// States returns the number of distinct n-gram states in the chain.
func (m *Model) States() int { return len(m.transitions) }

// WordCount returns the size of the training corpus.
func (m *Model) WordCount() int { return len(m.words) }

// Contains reports whether word (in its normal, unreversed orientation)
// appears in the training corpus. Corpus words are always stored forward,
// regardless of reverse mode.
func (m *Model) Contains(word string) bool {
	_, ok := m.words[word]
	return ok
}

// Words returns the training corpus as a sorted slice, always in forward
// orientation. Used to build a reverse companion model over the same
// vocabulary.
func (m *Model) Words() []string {
	c := wordlist.NewCorpus()
	for w := range m.words {
		c.Add(w)
	}
	return c.Words()
}

// orient maps a walked word from model orientation back to its normal
// reading direction.
func (m *Model) orient(w string) string {
	if m.reverse {
		return reverseString(w)
	}
	return w
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// exportedModel is the serializable representation of a trained model,
// used for JSON-based import and export. Transition rows are keyed by
// single-character strings to keep the JSON readable.
type exportedModel struct {
	SchemaVersion int                       `json:"schema_version"`
	Order         int                       `json:"order"`
	Reverse       bool                      `json:"reverse"`
	Starts        map[string]int            `json:"starts"`
	Transitions   map[string]map[string]int `json:"transitions"`
	Words         []string                  `json:"words"`
}

// Export serializes the model as indented JSON, useful for backups or for
// moving a built model between machines.
func (m *Model) Export(w io.Writer) error {
	out := exportedModel{
		SchemaVersion: SchemaVersion,
		Order:         m.order,
		Reverse:       m.reverse,
		Starts:        m.starts,
		Transitions:   make(map[string]map[string]int, len(m.transitions)),
		Words:         m.Words(),
	}
	for gram, row := range m.transitions {
		outRow := make(map[string]int, len(row))
		for ch, freq := range row {
			outRow[string(ch)] = freq
		}
		out.Transitions[gram] = outRow
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ImportModel reads a model previously written by Export. Models with a
// different schema version are rejected rather than guessed at.
func ImportModel(r io.Reader) (*Model, error) {
	var in exportedModel
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("markov: decode model: %w", err)
	}
	if in.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("markov: model schema version %d, want %d", in.SchemaVersion, SchemaVersion)
	}
	if in.Order < 1 {
		return nil, fmt.Errorf("%w: order must be >= 1, got %d", ErrInvalidParameters, in.Order)
	}

	m := &Model{
		order:       in.Order,
		reverse:     in.Reverse,
		transitions: make(map[string]map[byte]int, len(in.Transitions)),
		starts:      in.Starts,
		words:       make(map[string]struct{}, len(in.Words)),
	}
	if m.starts == nil {
		m.starts = make(map[string]int)
	}
	for gram, freq := range m.starts {
		if len(gram) != in.Order {
			return nil, fmt.Errorf("markov: start state %q is not %d characters", gram, in.Order)
		}
		if freq < 1 {
			return nil, fmt.Errorf("markov: start state %q has non-positive count %d", gram, freq)
		}
	}
	for gram, row := range in.Transitions {
		if len(gram) != in.Order {
			return nil, fmt.Errorf("markov: transition state %q is not %d characters", gram, in.Order)
		}
		next := make(map[byte]int, len(row))
		for ch, freq := range row {
			if len(ch) != 1 {
				return nil, fmt.Errorf("markov: transition character %q is not a single byte", ch)
			}
			if freq < 1 {
				return nil, fmt.Errorf("markov: transition %q -> %q has non-positive count %d", gram, ch, freq)
			}
			next[ch[0]] = freq
		}
		m.transitions[gram] = next
	}
	for _, w := range in.Words {
		m.words[w] = struct{}{}
	}
	return m, nil
}
