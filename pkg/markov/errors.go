package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters marks generation calls rejected before any
	// attempt is made: bad length bounds, bad counts, or mutually
	// exclusive options.
	ErrInvalidParameters = errors.New("markov: invalid parameters")

	// ErrUnsupportedMode marks a request the model cannot serve, such as
	// suffix generation on a model that was not trained in reverse mode.
	ErrUnsupportedMode = errors.New("markov: unsupported mode for this model")

	// ErrEmptyCorpus is returned when training is attempted on an empty
	// corpus.
	ErrEmptyCorpus = errors.New("markov: training corpus is empty")

	// ErrModelNotFound is returned by a Store when no cached model matches
	// the requested key. A key whose parameters mismatch is treated the
	// same as an absent one.
	ErrModelNotFound = errors.New("markov: no cached model for key")
)

// ExhaustedError reports that the full retry budget was consumed without an
// acceptable word. It carries the active parameters so the caller can decide
// what to loosen; returning a placeholder instead would break the length and
// novelty contracts.
type ExhaustedError struct {
	Order      int
	Cutoff     float64
	MinLen     int
	MaxLen     int
	MaxRetries int
	Prefix     string
	Suffix     string
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("markov: generation exhausted after %d retries (order=%d cutoff=%g length=%d-%d",
		e.MaxRetries, e.Order, e.Cutoff, e.MinLen, e.MaxLen)
	if e.Prefix != "" {
		msg += fmt.Sprintf(" prefix=%q", e.Prefix)
	}
	if e.Suffix != "" {
		msg += fmt.Sprintf(" suffix=%q", e.Suffix)
	}
	return msg + ")"
}
