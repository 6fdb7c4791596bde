package markov

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// StoreKey identifies one cached model by its construction parameters.
// Two models built from the same source with the same order and reverse
// flag are interchangeable, so the key is exactly that triple; the schema
// version is appended internally.
type StoreKey struct {
	Source  string
	Order   int
	Reverse bool
}

// SetupSchema initializes the model cache tables in the provided database.
// It should be called once before any other operation; it is idempotent
// and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS wordagen_models (
    model_id INTEGER PRIMARY KEY,
    source TEXT NOT NULL,
    model_order INTEGER NOT NULL,
    reversed INTEGER NOT NULL,
    schema_version INTEGER NOT NULL,
    UNIQUE (source, model_order, reversed, schema_version)
);
`
		schemaStarts = `
CREATE TABLE IF NOT EXISTS wordagen_starts (
    model_id INTEGER NOT NULL,
    ngram TEXT NOT NULL,
    frequency INTEGER NOT NULL,
    PRIMARY KEY (model_id, ngram)
);
`
		schemaTransitions = `
CREATE TABLE IF NOT EXISTS wordagen_transitions (
    model_id INTEGER NOT NULL,
    ngram TEXT NOT NULL,
    next_char TEXT NOT NULL,
    frequency INTEGER NOT NULL,
    PRIMARY KEY (model_id, ngram, next_char)
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS wordagen_words (
    model_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    PRIMARY KEY (model_id, word)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, stmt := range []string{schemaModels, schemaStarts, schemaTransitions, schemaWords} {
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("could not create schema: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store persists built models in a SQLite database so the training corpus
// does not have to be re-fetched and re-counted on every run. Writes are
// transactional: a reader never observes a partially written model, and
// concurrent writers serialize on the database.
type Store struct {
	db                 *sql.DB
	logger             *slog.Logger
	stmtGetModel       *sql.Stmt
	stmtGetStarts      *sql.Stmt
	stmtGetTransitions *sql.Stmt
	stmtGetWords       *sql.Stmt
}

// NewStore creates a Store over db, pre-compiling its read statements.
// SetupSchema must have been run on db.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetModel, err := db.Prepare(`SELECT model_id FROM wordagen_models WHERE source = ? AND model_order = ? AND reversed = ? AND schema_version = ?;`)
	if err != nil {
		return nil, err
	}
	stmtGetStarts, err := db.Prepare(`SELECT ngram, frequency FROM wordagen_starts WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}
	stmtGetTransitions, err := db.Prepare(`SELECT ngram, next_char, frequency FROM wordagen_transitions WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}
	stmtGetWords, err := db.Prepare(`SELECT word FROM wordagen_words WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		stmtGetModel:       stmtGetModel,
		stmtGetStarts:      stmtGetStarts,
		stmtGetTransitions: stmtGetTransitions,
		stmtGetWords:       stmtGetWords,
	}, nil
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Close releases the prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtGetModel.Close()
	_ = s.stmtGetStarts.Close()
	_ = s.stmtGetTransitions.Close()
	_ = s.stmtGetWords.Close()
}

// Get loads the cached model for key. A model whose parameters or schema
// version do not match the request is treated as absent and reported as
// ErrModelNotFound, never silently reused.
func (s *Store) Get(ctx context.Context, key StoreKey) (*Model, error) {
	var modelID int64
	err := s.stmtGetModel.QueryRowContext(ctx, key.Source, key.Order, key.Reverse, SchemaVersion).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %+v", ErrModelNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up model for %+v: %w", key, err)
	}

	m := &Model{
		order:       key.Order,
		reverse:     key.Reverse,
		transitions: make(map[string]map[byte]int),
		starts:      make(map[string]int),
		words:       make(map[string]struct{}),
	}

	rows, err := s.stmtGetStarts.QueryContext(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ngram string
		var freq int
		if err = rows.Scan(&ngram, &freq); err != nil {
			_ = rows.Close()
			return nil, err
		}
		m.starts[ngram] = freq
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.stmtGetTransitions.QueryContext(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ngram, next string
		var freq int
		if err = rows.Scan(&ngram, &next, &freq); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if len(next) != 1 {
			_ = rows.Close()
			return nil, fmt.Errorf("corrupt cache: transition character %q is not a single byte", next)
		}
		row := m.transitions[ngram]
		if row == nil {
			row = make(map[byte]int)
			m.transitions[ngram] = row
		}
		row[next[0]] = freq
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.stmtGetWords.QueryContext(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var word string
		if err = rows.Scan(&word); err != nil {
			_ = rows.Close()
			return nil, err
		}
		m.words[word] = struct{}{}
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "model loaded from cache",
		slog.String("source", key.Source),
		slog.Int("order", key.Order),
		slog.Bool("reversed", key.Reverse),
		slog.Int("states", len(m.transitions)),
		slog.Int("words", len(m.words)),
	)
	return m, nil
}

// Put persists m under key, replacing any previous model for the same key.
// The whole write happens in one transaction so concurrent readers see
// either the old model or the new one, never a mix.
func (s *Store) Put(ctx context.Context, key StoreKey, m *Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = deleteModelTx(ctx, tx, key); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO wordagen_models (source, model_order, reversed, schema_version) VALUES (?, ?, ?, ?);`,
		key.Source, key.Order, key.Reverse, SchemaVersion)
	if err != nil {
		return fmt.Errorf("could not insert model row for %+v: %w", key, err)
	}
	modelID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmtStart, err := tx.PrepareContext(ctx, `INSERT INTO wordagen_starts (model_id, ngram, frequency) VALUES (?, ?, ?);`)
	if err != nil {
		return err
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtStart)
	for ngram, freq := range m.starts {
		if _, err = stmtStart.ExecContext(ctx, modelID, ngram, freq); err != nil {
			return fmt.Errorf("could not insert start %q: %w", ngram, err)
		}
	}

	stmtTransition, err := tx.PrepareContext(ctx, `INSERT INTO wordagen_transitions (model_id, ngram, next_char, frequency) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtTransition)
	for ngram, row := range m.transitions {
		for ch, freq := range row {
			if _, err = stmtTransition.ExecContext(ctx, modelID, ngram, string(ch), freq); err != nil {
				return fmt.Errorf("could not insert transition %q -> %q: %w", ngram, string(ch), err)
			}
		}
	}

	stmtWord, err := tx.PrepareContext(ctx, `INSERT INTO wordagen_words (model_id, word) VALUES (?, ?);`)
	if err != nil {
		return err
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtWord)
	for word := range m.words {
		if _, err = stmtWord.ExecContext(ctx, modelID, word); err != nil {
			return fmt.Errorf("could not insert corpus word %q: %w", word, err)
		}
	}

	s.logger.InfoContext(ctx, "model cached",
		slog.String("source", key.Source),
		slog.Int("order", key.Order),
		slog.Bool("reversed", key.Reverse),
		slog.Int("states", len(m.transitions)),
		slog.Int("words", len(m.words)),
	)
	return tx.Commit()
}

// Delete removes the cached model for key, if any.
func (s *Store) Delete(ctx context.Context, key StoreKey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)
	if err = deleteModelTx(ctx, tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteModelTx(ctx context.Context, tx *sql.Tx, key StoreKey) error {
	var modelID int64
	err := tx.QueryRowContext(ctx,
		`SELECT model_id FROM wordagen_models WHERE source = ? AND model_order = ? AND reversed = ? AND schema_version = ?;`,
		key.Source, key.Order, key.Reverse, SchemaVersion).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not look up model for %+v: %w", key, err)
	}
	for _, table := range []string{"wordagen_starts", "wordagen_transitions", "wordagen_words", "wordagen_models"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE model_id = ?", modelID); err != nil {
			return fmt.Errorf("could not remove model %d from %s: %w", modelID, table, err)
		}
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
