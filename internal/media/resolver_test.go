package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// newProbeServer поднимает сервер, который отвечает 200 на /good*, 404 на
// /gone* и 500 на всё остальное, попутно записывая запрошенные пути.
func newProbeServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var mu sync.Mutex
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/good"):
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/gone"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("first reachable candidate wins", func(t *testing.T) {
		srv, _ := newProbeServer(t)
		r := NewResolver(srv.Client())

		item := tweets.MediaItem{
			Type:          tweets.MediaTypePhoto,
			URL:           srv.URL + "/gone.jpg",
			MediaURLHTTPS: srv.URL + "/good.jpg",
		}

		url, ok := r.Resolve(ctx, item)
		require.True(t, ok)
		assert.Equal(t, srv.URL+"/good.jpg", url)
	})

	t.Run("candidates are probed in priority order", func(t *testing.T) {
		srv, paths := newProbeServer(t)
		r := NewResolver(srv.Client())

		item := tweets.MediaItem{
			Type:            tweets.MediaTypePhoto,
			URL:             srv.URL + "/good-primary.jpg",
			PreviewImageURL: srv.URL + "/good-preview.jpg",
		}

		url, ok := r.Resolve(ctx, item)
		require.True(t, ok)
		assert.Equal(t, srv.URL+"/good-primary.jpg", url)
		// Превью даже не проверяется: первый кандидат уже годен.
		assert.Equal(t, []string{"/good-primary.jpg"}, *paths)
	})

	t.Run("no candidates yields absent", func(t *testing.T) {
		r := NewResolver(nil)
		_, ok := r.Resolve(ctx, tweets.MediaItem{Type: tweets.MediaTypeVideo})
		assert.False(t, ok)
	})

	t.Run("all candidates failing yields absent", func(t *testing.T) {
		srv, _ := newProbeServer(t)
		r := NewResolver(srv.Client())

		item := tweets.MediaItem{
			Type:     tweets.MediaTypePhoto,
			URL:      srv.URL + "/gone.jpg",
			MediaURL: srv.URL + "/broken.jpg",
		}

		_, ok := r.Resolve(ctx, item)
		assert.False(t, ok)
	})

	t.Run("network failure counts as failed candidate", func(t *testing.T) {
		srv, _ := newProbeServer(t)
		r := NewResolver(srv.Client())

		item := tweets.MediaItem{
			Type:          tweets.MediaTypePhoto,
			URL:           "http://127.0.0.1:1/unreachable.jpg",
			MediaURLHTTPS: srv.URL + "/good.jpg",
		}

		url, ok := r.Resolve(ctx, item)
		require.True(t, ok)
		assert.Equal(t, srv.URL+"/good.jpg", url)
	})
}
