package markov

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/CTAG07/wordagen/pkg/wordlist"
)

// Defaults for generation parameters.
const (
	DefaultCutoff     = 0.1
	DefaultMinLen     = 3
	DefaultMaxLen     = 10
	DefaultMaxRetries = 200
)

const vowels = "aeiou"

// Generator drives bounded random walks over a Model. It holds no per-call
// state, so a single Generator may serve concurrent calls as long as its
// Rand is safe for concurrent use (the default is).
type Generator struct {
	model  *Model
	cutoff float64
	rng    Rand
	logger *slog.Logger

	revOnce  sync.Once
	revModel *Model
	revErr   error
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithCutoff sets the relative-probability retention threshold in (0, 1].
// Transitions whose probability is below cutoff times the most likely
// transition's probability are filtered out before sampling.
func WithCutoff(cutoff float64) Option {
	return func(g *Generator) { g.cutoff = cutoff }
}

// WithRand replaces the random source. Tests pass a seeded
// *math/rand/v2.Rand to make every draw reproducible.
func WithRand(rng Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithLogger enables logging. By default all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithReverseModel supplies a pre-built reverse companion for combined
// prefix+suffix generation. Without it the companion is trained lazily
// from the primary model's own corpus on first use.
func WithReverseModel(m *Model) Option {
	return func(g *Generator) { g.revModel = m }
}

// NewGenerator creates a Generator over model.
func NewGenerator(model *Model, opts ...Option) *Generator {
	g := &Generator{
		model:  model,
		cutoff: DefaultCutoff,
		rng:    globalRand{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the model this generator walks.
func (g *Generator) Model() *Model { return g.model }

// genParams is the per-call parameter set, ephemeral by design: the model
// lives for the process, these live for one call.
type genParams struct {
	minLen     int
	maxLen     int
	maxRetries int
	prefix     string
	suffix     string
}

// GenerateOption configures a single generation call.
type GenerateOption func(*genParams)

// WithLengthRange bounds the accepted word length.
func WithLengthRange(minLen, maxLen int) GenerateOption {
	return func(p *genParams) { p.minLen, p.maxLen = minLen, maxLen }
}

// WithMaxRetries bounds the outer retry loop.
func WithMaxRetries(n int) GenerateOption {
	return func(p *genParams) { p.maxRetries = n }
}

// WithPrefix constrains the word to start with prefix.
func WithPrefix(prefix string) GenerateOption {
	return func(p *genParams) { p.prefix = strings.ToLower(prefix) }
}

// WithSuffix constrains the word to end with suffix. On a Generate call
// this requires a reverse-trained model and excludes WithPrefix.
func WithSuffix(suffix string) GenerateOption {
	return func(p *genParams) { p.suffix = strings.ToLower(suffix) }
}

func newGenParams(opts []GenerateOption) genParams {
	p := genParams{
		minLen:     DefaultMinLen,
		maxLen:     DefaultMaxLen,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p genParams) validate() error {
	if p.minLen < 1 {
		return fmt.Errorf("%w: minLen must be >= 1, got %d", ErrInvalidParameters, p.minLen)
	}
	if p.minLen > p.maxLen {
		return fmt.Errorf("%w: minLen %d > maxLen %d", ErrInvalidParameters, p.minLen, p.maxLen)
	}
	if p.maxRetries < 1 {
		return fmt.Errorf("%w: maxRetries must be >= 1, got %d", ErrInvalidParameters, p.maxRetries)
	}
	return nil
}

// exitReason records why one inner walk stopped. Keeping the reasons named
// keeps the retry and relaxation policies testable in isolation.
type exitReason uint8

const (
	exitBudget      exitReason = iota // attempt budget consumed
	exitDeadEnd                       // state with no outgoing transitions
	exitAccepted                      // end marker with an acceptable word
	exitRejectedEnd                   // end marker with an unacceptable word
	exitEndMarker                     // end marker inside the length bounds
	exitEndShort                      // end marker accepted by the short-word relaxation
	exitMaxLength                     // word grew to the length ceiling
)

func (r exitReason) String() string {
	switch r {
	case exitBudget:
		return "budget"
	case exitDeadEnd:
		return "dead-end"
	case exitAccepted:
		return "accepted"
	case exitRejectedEnd:
		return "rejected-end"
	case exitEndMarker:
		return "end-marker"
	case exitEndShort:
		return "end-short"
	case exitMaxLength:
		return "max-length"
	}
	return "unknown"
}

// Generate produces one novel word. With no options it uses the default
// bounds; WithPrefix and WithSuffix dispatch to the constrained modes and
// are mutually exclusive here (a suffix additionally requires a
// reverse-trained model). Use GenerateWithPrefixAndSuffix for words
// constrained at both ends.
func (g *Generator) Generate(opts ...GenerateOption) (string, error) {
	p := newGenParams(opts)
	if err := p.validate(); err != nil {
		return "", err
	}
	if p.prefix != "" && p.suffix != "" {
		return "", fmt.Errorf("%w: prefix and suffix are mutually exclusive; use GenerateWithPrefixAndSuffix", ErrInvalidParameters)
	}
	if p.prefix != "" {
		return g.generatePrefix(p)
	}
	if p.suffix != "" {
		return g.generateSuffix(p)
	}
	return g.generateFree(p)
}

// GenerateWithPrefix produces one novel word starting with prefix.
func (g *Generator) GenerateWithPrefix(prefix string, opts ...GenerateOption) (string, error) {
	p := newGenParams(opts)
	p.prefix = strings.ToLower(prefix)
	p.suffix = ""
	if err := p.validate(); err != nil {
		return "", err
	}
	if p.prefix == "" {
		return g.generateFree(p)
	}
	return g.generatePrefix(p)
}

// GenerateWithSuffix produces one novel word ending with suffix. The model
// must have been trained in reverse mode; "ends with X" forward is exactly
// "starts with reverse(X)" over reversed words.
func (g *Generator) GenerateWithSuffix(suffix string, opts ...GenerateOption) (string, error) {
	p := newGenParams(opts)
	p.suffix = strings.ToLower(suffix)
	p.prefix = ""
	if err := p.validate(); err != nil {
		return "", err
	}
	if p.suffix == "" {
		return g.generateFree(p)
	}
	return g.generateSuffix(p)
}

// GenerateWithPrefixAndSuffix produces one novel word constrained at both
// ends. A single forward chain cannot be cleanly constrained from both
// ends in one pass, so the call walks a reverse companion model seeded
// with the reversed suffix and stitches the result onto the prefix,
// falling back to explicit concatenation when the walk cannot be coerced
// into matching both ends. Requires a forward-trained primary model.
func (g *Generator) GenerateWithPrefixAndSuffix(prefix, suffix string, opts ...GenerateOption) (string, error) {
	p := newGenParams(opts)
	p.prefix = strings.ToLower(prefix)
	p.suffix = strings.ToLower(suffix)
	if err := p.validate(); err != nil {
		return "", err
	}
	if p.suffix == "" && p.prefix == "" {
		return g.generateFree(p)
	}
	if p.suffix == "" {
		return g.generatePrefix(p)
	}
	if g.model.reverse {
		return "", fmt.Errorf("%w: combined generation requires a forward-trained model", ErrUnsupportedMode)
	}
	rev, err := g.reverseModel()
	if err != nil {
		return "", err
	}
	if p.prefix == "" {
		// Suffix only: run the prefix search on the reverse companion.
		res := g.bestEffortSearch(rev, reverseString(p.suffix), p, reverseString)
		if res.bare {
			return p.suffix, nil
		}
		return res.word, nil
	}
	if len(p.prefix)+len(p.suffix) > p.maxLen {
		// Both ends cannot fit; honoring the prefix is the documented
		// degradation.
		return g.generatePrefix(p)
	}
	return g.generateCombined(rev, p)
}

// GenerateBatch produces count independent words, dispatching on the
// prefix/suffix options the same way the single-word calls do. There is no
// shared state or ordering guarantee between elements beyond independence.
func (g *Generator) GenerateBatch(count int, opts ...GenerateOption) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidParameters, count)
	}
	p := newGenParams(opts)
	if err := p.validate(); err != nil {
		return nil, err
	}

	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var (
			w   string
			err error
		)
		if p.prefix != "" && p.suffix != "" {
			w, err = g.GenerateWithPrefixAndSuffix(p.prefix, p.suffix, opts...)
		} else {
			w, err = g.Generate(opts...)
		}
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// generateFree runs the unconstrained walk: sample a start state, extend
// until the end marker or the length ceiling, accept only in-bounds novel
// words. Retries past the halfway point widen the target bounds to raise
// the odds of acceptance.
func (g *Generator) generateFree(p genParams) (string, error) {
	maxAttempts := p.maxLen * 3
	for retry := 0; retry < p.maxRetries; retry++ {
		targetMin, targetMax := p.minLen, p.maxLen
		if retry > p.maxRetries/2 {
			targetMin, targetMax = max(1, p.minLen-2), p.maxLen+3
		}

		cursor, ok := weightedChoice(g.rng, g.model.starts, g.cutoff)
		if !ok {
			break
		}
		word, reason := g.walkFree(cursor, targetMin, targetMax, maxAttempts)
		if reason == exitAccepted {
			g.logger.Debug("word accepted",
				slog.String("word", word),
				slog.Int("retries", retry+1),
			)
			return word, nil
		}
	}
	return "", g.exhausted(p)
}

// walkFree runs one free-mode walk from cursor. The accepted word is
// returned in normal orientation; for any other exit the word is dropped
// and only the reason survives.
func (g *Generator) walkFree(cursor string, targetMin, targetMax, maxAttempts int) (string, exitReason) {
	var buf []byte
	for attempts := 0; attempts < maxAttempts; attempts++ {
		next, ok := weightedChoice(g.rng, g.model.transitions[cursor], g.cutoff)
		if !ok {
			return "", exitDeadEnd
		}
		if next == EndMarker {
			word := g.model.orient(string(buf))
			if len(buf) >= targetMin && len(buf) <= targetMax && !g.model.Contains(word) {
				return word, exitAccepted
			}
			return "", exitRejectedEnd
		}
		if next != StartMarker {
			buf = append(buf, next)
			if len(buf) >= targetMax {
				return "", exitMaxLength
			}
		}
		cursor = cursor[1:] + string(next)
	}
	return "", exitBudget
}

// walkSeeded extends seed over m until an end marker lands acceptably, the
// length ceiling is hit, or the attempt budget runs out. An end marker at
// an unacceptable length is skipped and the same cursor is resampled,
// unless the word is already at least half of minLen and more than half
// the budget is spent, in which case a short word is tolerated. Returns
// the raw word in m's orientation.
func (g *Generator) walkSeeded(m *Model, seed string, minLen, maxLen, maxAttempts int) (string, exitReason) {
	buf := []byte(seed)
	cursor := seedCursor(seed, m.order)
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		next, ok := weightedChoice(g.rng, m.transitions[cursor], g.cutoff)
		if !ok {
			return string(buf), exitDeadEnd
		}
		if next == EndMarker {
			if len(buf) >= minLen && len(buf) <= maxLen {
				return string(buf), exitEndMarker
			}
			if len(buf) >= minLen/2 && attempts > maxAttempts/2 {
				return string(buf), exitEndShort
			}
			continue
		}
		if next != StartMarker {
			buf = append(buf, next)
			if len(buf) >= maxLen {
				return string(buf), exitMaxLength
			}
		}
		cursor = cursor[1:] + string(next)
	}
	return string(buf), exitBudget
}

// seedCursor derives the initial n-gram state for a literal seed: the last
// order characters of the start-marker padding plus the seed.
func seedCursor(seed string, order int) string {
	padded := strings.Repeat(string(StartMarker), order) + seed
	return padded[len(padded)-order:]
}

// searchResult distinguishes the constrained-search outcomes: an exact
// in-bounds word, the best out-of-bounds candidate, or nothing at all
// (bare), in which case the caller falls back to the literal constraint.
type searchResult struct {
	word     string
	fromBest bool
	bare     bool
}

// bestEffortSearch runs up to maxRetries seeded walks over m, finalizing
// each raw word with finalize (identity for forward models, reversal for
// reverse ones). The first novel in-bounds word wins; otherwise the novel
// word whose length is closest to the midpoint of the bounds is kept as a
// fallback across retries.
func (g *Generator) bestEffortSearch(m *Model, seed string, p genParams, finalize func(string) string) searchResult {
	maxAttempts := p.maxLen * 3
	center := (p.minLen + p.maxLen) / 2
	var best string

	for retry := 0; retry < p.maxRetries; retry++ {
		raw, reason := g.walkSeeded(m, seed, p.minLen, p.maxLen, maxAttempts)
		word := finalize(raw)
		if word == "" || m.Contains(word) {
			continue
		}
		if len(word) >= p.minLen && len(word) <= p.maxLen {
			g.logger.Debug("constrained word accepted",
				slog.String("word", word),
				slog.Int("retries", retry+1),
				slog.String("exit", reason.String()),
			)
			return searchResult{word: word}
		}
		if best == "" || absInt(len(word)-center) < absInt(len(best)-center) {
			best = word
		}
	}
	if best != "" {
		g.logger.Debug("returning best candidate outside bounds", slog.String("word", best))
		return searchResult{word: best, fromBest: true}
	}
	return searchResult{bare: true}
}

func (g *Generator) generatePrefix(p genParams) (string, error) {
	res := g.bestEffortSearch(g.model, p.prefix, p, func(s string) string { return s })
	if res.bare {
		return p.prefix, nil
	}
	return res.word, nil
}

func (g *Generator) generateSuffix(p genParams) (string, error) {
	if !g.model.reverse {
		return "", fmt.Errorf("%w: suffix generation requires a reverse-trained model", ErrUnsupportedMode)
	}
	res := g.bestEffortSearch(g.model, reverseString(p.suffix), p, reverseString)
	if res.bare {
		return p.suffix, nil
	}
	return res.word, nil
}

// generateCombined stitches a reverse-companion walk (which guarantees the
// suffix) onto the prefix. A candidate that naturally starts with the
// prefix is taken as-is; otherwise a forced join splices the prefix onto
// the candidate when the walk happened to stop at the character the
// forward model predicts after the prefix.
func (g *Generator) generateCombined(rev *Model, p genParams) (string, error) {
	seed := reverseString(p.suffix)
	maxAttempts := p.maxLen * 3
	center := (p.minLen + p.maxLen) / 2
	joinChar, haveJoin := g.joinChar(p.prefix)
	var best string

	track := func(cand string) {
		if best == "" || absInt(len(cand)-center) < absInt(len(best)-center) {
			best = cand
		}
	}

	for retry := 0; retry < p.maxRetries; retry++ {
		raw, _ := g.walkSeeded(rev, seed, p.minLen, p.maxLen, maxAttempts)
		cand := reverseString(raw) // always ends with the suffix

		if strings.HasPrefix(cand, p.prefix) && !g.model.Contains(cand) {
			if len(cand) >= p.minLen && len(cand) <= p.maxLen {
				g.logger.Debug("combined word accepted naturally", slog.String("word", cand))
				return cand, nil
			}
			track(cand)
		}

		if haveJoin && len(raw) > len(seed) {
			middle := raw[len(seed):]
			if middle[len(middle)-1] == joinChar {
				joined := p.prefix + reverseString(middle) + p.suffix
				if !g.model.Contains(joined) {
					if len(joined) >= p.minLen && len(joined) <= p.maxLen {
						g.logger.Debug("combined word accepted via forced join", slog.String("word", joined))
						return joined, nil
					}
					track(joined)
				}
			}
		}
	}

	if best != "" {
		g.logger.Debug("returning best combined candidate outside bounds", slog.String("word", best))
		return best, nil
	}
	// Last resort: literal concatenation, padded with a vowel when it fits.
	if len(p.prefix)+len(p.suffix) < p.maxLen {
		vowel := vowels[g.rng.IntN(len(vowels))]
		return p.prefix + string(vowel) + p.suffix, nil
	}
	return p.prefix + p.suffix, nil
}

// joinChar is the single most probable character after prefix in the
// forward model, used to decide whether a reverse-walked middle can be
// spliced onto the prefix. Ties break toward the smaller character.
func (g *Generator) joinChar(prefix string) (byte, bool) {
	next, ok := maxChoice(g.model.transitions[seedCursor(prefix, g.model.order)])
	if !ok || next == EndMarker || next == StartMarker {
		return 0, false
	}
	return next, true
}

// reverseModel returns the reverse companion, training it from the primary
// model's corpus on first use.
func (g *Generator) reverseModel() (*Model, error) {
	g.revOnce.Do(func() {
		if g.revModel != nil {
			return
		}
		corpus := wordlist.NewCorpus(g.model.Words()...)
		g.revModel, g.revErr = Train(corpus, g.model.order, true)
	})
	return g.revModel, g.revErr
}

func (g *Generator) exhausted(p genParams) error {
	g.logger.Debug("generation exhausted",
		slog.Int("max_retries", p.maxRetries),
		slog.Int("min_len", p.minLen),
		slog.Int("max_len", p.maxLen),
	)
	return &ExhaustedError{
		Order:      g.model.order,
		Cutoff:     g.cutoff,
		MinLen:     p.minLen,
		MaxLen:     p.maxLen,
		MaxRetries: p.maxRetries,
		Prefix:     p.prefix,
		Suffix:     p.suffix,
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
