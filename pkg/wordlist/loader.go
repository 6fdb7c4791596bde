package wordlist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const (
	userAgent = "wordagen/1.0"
	// maxDownloadBytes caps a single word-list download at 50 MB.
	maxDownloadBytes = 50 << 20
)

// ErrUnknownSource is returned when a source name is neither a known word
// list nor an http(s) URL.
var ErrUnknownSource = errors.New("wordlist: unknown word source")

// Sources maps the built-in word-list names to their download URLs.
// Entries with a "hunspell:" value are morphological dictionaries handled
// by the Hunspell loader.
var Sources = map[string]string{
	"en":       "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt",
	"es":       "https://raw.githubusercontent.com/JorgeDuenasLerin/diccionario-espanol-txt/master/0_palabras_todas.txt",
	"fr":       "https://raw.githubusercontent.com/lorenbrichter/Words/master/Words/fr.txt",
	"de":       "https://raw.githubusercontent.com/lorenbrichter/Words/master/Words/de.txt",
	"it":       "https://raw.githubusercontent.com/napolux/paroleitaliane/master/paroleitaliane/280000_parole_italiane.txt",
	"pt":       "https://raw.githubusercontent.com/pythonprobr/palavras/master/palavras.txt",
	"names":    "https://raw.githubusercontent.com/smashew/NameDatabases/master/NamesDatabases/first%20names/us.txt",
	"surnames": "https://raw.githubusercontent.com/smashew/NameDatabases/master/NamesDatabases/surnames/us.txt",
	"pet":      "https://raw.githubusercontent.com/jonathand-cf/wordlist-pets/refs/heads/main/pet-names.txt",
}

func init() {
	for lang := range hunspellSources {
		Sources["hunspell-"+lang] = "hunspell:" + lang
	}
}

// Loader fetches training vocabularies from named sources or custom URLs
// and keeps the raw downloads in a local cache directory so repeat runs
// never touch the network.
type Loader struct {
	cacheDir string
	client   *http.Client
	logger   *slog.Logger
	sources  map[string]string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithLogger enables logging for downloads and parsing. By default all
// logs are discarded.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSources replaces the built-in source table, mostly useful in tests.
func WithSources(sources map[string]string) LoaderOption {
	return func(l *Loader) { l.sources = sources }
}

// NewLoader creates a Loader caching downloads under cacheDir.
func NewLoader(cacheDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sources:  Sources,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves source to a word list and returns it as a Corpus. The source
// may be a built-in name (see Sources), a "hunspell:<lang>" spec, or a raw
// http(s) URL. Words are lowercased and filtered by IsValidWord.
func (l *Loader) Load(ctx context.Context, source string) (*Corpus, error) {
	if lang, ok := strings.CutPrefix(source, "hunspell:"); ok {
		return l.loadHunspell(ctx, lang)
	}

	var url, cacheFile string
	switch {
	case isURL(source):
		url = source
		cacheFile = filepath.Join(l.cacheDir, "words_url_"+shortHash(url)+".txt")
	default:
		target, ok := l.sources[source]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
		}
		if lang, ok := strings.CutPrefix(target, "hunspell:"); ok {
			return l.loadHunspell(ctx, lang)
		}
		url = target
		cacheFile = filepath.Join(l.cacheDir, "words_"+source+".txt")
	}

	if err := l.fetch(ctx, url, cacheFile); err != nil {
		return nil, err
	}

	corpus, err := l.parseFile(cacheFile)
	if err != nil {
		return nil, err
	}
	l.logger.Info("word list loaded",
		slog.String("source", source),
		slog.Int("words", corpus.Len()),
	)
	return corpus, nil
}

// FromReader builds a Corpus from arbitrary whitespace-separated text.
func FromReader(r io.Reader) (*Corpus, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("wordlist: read: %w", err)
	}
	return parseWords(data), nil
}

// fetch downloads url into cacheFile unless it is already present. The file
// is written atomically so a concurrent reader never sees a partial list.
func (l *Loader) fetch(ctx context.Context, url, cacheFile string) error {
	if _, err := os.Stat(cacheFile); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0o755); err != nil {
		return fmt.Errorf("wordlist: create cache dir: %w", err)
	}

	l.logger.Info("downloading word list", slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("wordlist: build request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("wordlist: download %q: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wordlist: download %q: unexpected status %s", url, resp.Status)
	}

	body := io.LimitReader(resp.Body, maxDownloadBytes)
	if err := atomic.WriteFile(cacheFile, body); err != nil {
		return fmt.Errorf("wordlist: write cache file %q: %w", cacheFile, err)
	}

	info, err := os.Stat(cacheFile)
	if err == nil && info.Size() == 0 {
		_ = os.Remove(cacheFile)
		return fmt.Errorf("wordlist: download %q: empty response", url)
	}
	return nil
}

func (l *Loader) parseFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: read cache file %q: %w", path, err)
	}
	corpus := parseWords(data)
	if corpus.Len() == 0 {
		return nil, fmt.Errorf("wordlist: no valid words in %q", path)
	}
	return corpus, nil
}

func parseWords(data []byte) *Corpus {
	corpus := NewCorpus()
	for _, field := range strings.Fields(strings.ToLower(string(data))) {
		corpus.Add(field)
	}
	return corpus
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
