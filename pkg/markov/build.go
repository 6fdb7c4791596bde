package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/wordagen/pkg/wordlist"
)

// CorpusLoader supplies training vocabularies by source name.
// *wordlist.Loader implements it. A load failure is propagated to the
// caller; retrying belongs to the loader, not to this package.
type CorpusLoader interface {
	Load(ctx context.Context, source string) (*wordlist.Corpus, error)
}

// LoadOrTrain returns the model for key, reading it from store when a
// cached copy with matching parameters exists and otherwise loading the
// corpus and training from scratch. A freshly trained model is written
// back to the store; a cache write failure only costs performance on the
// next run, so it degrades to a warning instead of failing the call.
// Store may be nil to bypass caching entirely.
func LoadOrTrain(ctx context.Context, store *Store, loader CorpusLoader, key StoreKey, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if store != nil {
		m, err := store.Get(ctx, key)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrModelNotFound) {
			return nil, err
		}
	}

	corpus, err := loader.Load(ctx, key.Source)
	if err != nil {
		return nil, fmt.Errorf("load corpus %q: %w", key.Source, err)
	}
	m, err := Train(corpus, key.Order, key.Reverse)
	if err != nil {
		return nil, err
	}
	logger.Info("model trained",
		slog.String("source", key.Source),
		slog.Int("order", key.Order),
		slog.Bool("reversed", key.Reverse),
		slog.Int("states", m.States()),
		slog.Int("words", m.WordCount()),
	)

	if store != nil {
		if err := store.Put(ctx, key, m); err != nil {
			logger.Warn("could not cache model",
				slog.String("source", key.Source),
				slog.Any("error", err),
			)
		}
	}
	return m, nil
}
