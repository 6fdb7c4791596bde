package wordlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("cat\nHat\nbat\nx\ncat-5\nrat\n"))
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir())
	corpus, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)

	// "Hat" is lowercased, "x" and "cat-5" are filtered out.
	assert.Equal(t, []string{"bat", "cat", "hat", "rat"}, corpus.Words())

	// A second load is served from the cache directory.
	_, err = l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "cached load should not hit the network")
}

func TestLoadNamedSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("uno dos tres\n"))
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), WithSources(map[string]string{"test": srv.URL}))
	corpus, err := l.Load(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, 3, corpus.Len())
}

func TestLoadUnknownSource(t *testing.T) {
	l := NewLoader(t.TempDir(), WithSources(map[string]string{}))
	_, err := l.Load(context.Background(), "klingon")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestLoadDownloadErrors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		l := NewLoader(t.TempDir())
		_, err := l.Load(context.Background(), srv.URL)
		assert.ErrorContains(t, err, "unexpected status")
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		defer srv.Close()

		l := NewLoader(t.TempDir())
		_, err := l.Load(context.Background(), srv.URL)
		assert.ErrorContains(t, err, "empty response")
	})

	t.Run("no valid words", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("123 456 !!!\n"))
		}))
		defer srv.Close()

		l := NewLoader(t.TempDir())
		_, err := l.Load(context.Background(), srv.URL)
		assert.ErrorContains(t, err, "no valid words")
	})
}

func TestLoadContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(t.TempDir())
	_, err := l.Load(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromReader(t *testing.T) {
	corpus, err := FromReader(strings.NewReader("Alpha beta\tgamma\nx 42\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, corpus.Words())
}

func TestBuiltinSourcesResolvable(t *testing.T) {
	// Every built-in name must map to a URL or a hunspell spec the loader
	// knows how to dispatch.
	for name, target := range Sources {
		if lang, ok := strings.CutPrefix(target, "hunspell:"); ok {
			_, known := hunspellSources[lang]
			assert.True(t, known, "source %q points at unknown hunspell language %q", name, lang)
			continue
		}
		assert.True(t, isURL(target), "source %q target %q is not a URL", name, target)
	}
}
