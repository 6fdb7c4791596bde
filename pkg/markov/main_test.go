package markov

import (
	"database/sql"
	"math/rand/v2"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/CTAG07/wordagen/pkg/wordlist"
)

// testRand returns a seeded random source so every draw is reproducible.
func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// testCorpus builds a corpus and fails the test if any word is rejected,
// which would silently weaken the scenario being tested.
func testCorpus(t *testing.T, words ...string) *wordlist.Corpus {
	t.Helper()
	c := wordlist.NewCorpus()
	for _, w := range words {
		if !c.Add(w) {
			t.Fatalf("test corpus word %q rejected", w)
		}
	}
	return c
}

// stubRand replays a fixed sequence of draws, failing over to zero when
// the sequence runs out.
type stubRand struct {
	vals []int
	pos  int
}

func (s *stubRand) IntN(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos] % n
	s.pos++
	return v
}

// setupTestStore creates a file-backed SQLite database with the cache
// schema applied and a Store over it. Resources are released via t.Cleanup.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(store.Close)
	return store
}
