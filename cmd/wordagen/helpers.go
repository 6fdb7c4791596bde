package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CTAG07/wordagen/pkg/markov"
	"github.com/CTAG07/wordagen/pkg/wordlist"
)

// parseLength parses a length spec: "5-8" is a range, "6" is an exact
// length.
func parseLength(s string) (int, int, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	minLen, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid length %q: use a format like '5-8' or '6'", s)
	}
	maxLen := minLen
	if isRange {
		maxLen, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid length %q: use a format like '5-8' or '6'", s)
		}
	}
	if minLen < 1 || minLen > maxLen {
		return 0, 0, fmt.Errorf("invalid length range %d-%d: min must be >= 1 and <= max", minLen, maxLen)
	}
	return minLen, maxLen, nil
}

// lengthRange resolves the --length flag against the command's defaults.
func lengthRange(defMin, defMax int) (int, int, error) {
	if rootFlags.length == "" {
		return defMin, defMax, nil
	}
	return parseLength(rootFlags.length)
}

// app bundles the resources a command needs: config, logger, model cache
// and word-list loader.
type app struct {
	cfg    *Config
	logger *slog.Logger
	db     *sql.DB
	store  *markov.Store
	loader *wordlist.Loader
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	a := &app{
		cfg:    cfg,
		logger: logger,
		loader: wordlist.NewLoader(cfg.CacheDir, wordlist.WithLogger(logger)),
	}
	if rootFlags.noCache {
		return a, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := initDB(cfg.DBPath + "?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open model cache: %w", err)
	}
	if err := markov.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize model cache: %w", err)
	}
	store, err := markov.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize model cache: %w", err)
	}
	store.SetLogger(logger)
	a.db = db
	a.store = store
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func newLogger(cfg *Config) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if rootFlags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// model loads or trains the model for source, honoring --no-cache.
func (a *app) model(ctx context.Context, source string, reverse bool) (*markov.Model, error) {
	key := markov.StoreKey{Source: source, Order: rootFlags.order, Reverse: reverse}
	return markov.LoadOrTrain(ctx, a.store, a.loader, key, a.logger)
}

// generator builds a Markov generator for source with the orientation the
// prefix/suffix flags require: suffix-only generation walks a
// reverse-trained model, combined generation a forward model with a
// reverse companion.
func (a *app) generator(ctx context.Context, source string) (*markov.Generator, error) {
	suffixOnly := rootFlags.suffix != "" && rootFlags.prefix == ""

	m, err := a.model(ctx, source, suffixOnly)
	if err != nil {
		return nil, err
	}
	opts := []markov.Option{
		markov.WithCutoff(rootFlags.cutoff),
		markov.WithLogger(a.logger),
	}
	if rootFlags.prefix != "" && rootFlags.suffix != "" {
		rev, err := a.model(ctx, source, true)
		if err != nil {
			return nil, err
		}
		opts = append(opts, markov.WithReverseModel(rev))
	}
	return markov.NewGenerator(m, opts...), nil
}

// generateOpts assembles the per-call options shared by all commands.
func generateOpts(minLen, maxLen int) []markov.GenerateOption {
	opts := []markov.GenerateOption{markov.WithLengthRange(minLen, maxLen)}
	if rootFlags.retries > 0 {
		opts = append(opts, markov.WithMaxRetries(rootFlags.retries))
	}
	return opts
}

// generateOne produces a single word, dispatching on the prefix/suffix
// flags.
func generateOne(g *markov.Generator, minLen, maxLen int) (string, error) {
	opts := generateOpts(minLen, maxLen)
	switch {
	case rootFlags.prefix != "" && rootFlags.suffix != "":
		return g.GenerateWithPrefixAndSuffix(rootFlags.prefix, rootFlags.suffix, opts...)
	case rootFlags.prefix != "":
		return g.GenerateWithPrefix(rootFlags.prefix, opts...)
	case rootFlags.suffix != "":
		return g.GenerateWithSuffix(rootFlags.suffix, opts...)
	default:
		return g.Generate(opts...)
	}
}

// generateMany produces count words with the same dispatch as generateOne.
func generateMany(g *markov.Generator, count, minLen, maxLen int) ([]string, error) {
	opts := generateOpts(minLen, maxLen)
	if rootFlags.prefix != "" {
		opts = append(opts, markov.WithPrefix(rootFlags.prefix))
	}
	if rootFlags.suffix != "" {
		opts = append(opts, markov.WithSuffix(rootFlags.suffix))
	}
	return g.GenerateBatch(count, opts...)
}

func errSyllableConstraints() error {
	return fmt.Errorf("%w: the syllable generator does not support --prefix or --suffix", markov.ErrUnsupportedMode)
}
