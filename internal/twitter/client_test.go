package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maine/viral_tweets_bot/internal/config"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

func TestClient_Init(t *testing.T) {
	t.Run("registers accounts and logs in", func(t *testing.T) {
		var added []map[string]string
		loggedIn := false

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/pool/add":
				var payload map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				added = append(added, payload)
			case "/api/pool/login_all":
				loggedIn = true
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		accounts := []config.Account{
			{Username: "first", Password: "p1", Email: "a@b.c", EmailPassword: "ep1"},
			{Username: "second", Password: "p2", Email: "d@e.f", EmailPassword: "ep2", Cookies: `{"ct0":"x"}`},
		}

		c := NewClient(srv.URL, "secret", accounts)
		require.NoError(t, c.Init(context.Background()))

		require.Len(t, added, 2)
		assert.Equal(t, "first", added[0]["username"])
		_, hasCookies := added[0]["cookies"]
		assert.False(t, hasCookies)
		assert.Equal(t, `{"ct0":"x"}`, added[1]["cookies"])
		assert.True(t, loggedIn)
	})

	t.Run("login failure aborts initialization", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/pool/login_all" {
				w.WriteHeader(http.StatusUnauthorized)
			}
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", []config.Account{{Username: "first"}})
		err := c.Init(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "login accounts")
	})
}

func TestClient_Search(t *testing.T) {
	page1 := []tweets.Tweet{{ID: "101"}, {ID: "102"}}
	page2 := []tweets.Tweet{{ID: "103"}}

	t.Run("stream walks cursor pages lazily", func(t *testing.T) {
		var queries []string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/search", r.URL.Path)
			queries = append(queries, r.URL.Query().Get("q"))

			resp := searchResponse{}
			if r.URL.Query().Get("cursor") == "" {
				resp = searchResponse{Tweets: page1, NextCursor: "c1"}
			} else {
				resp = searchResponse{Tweets: page2}
			}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", nil)
		stream := c.Search(context.Background(), "min_faves:5000", 50)

		var got []string
		for {
			tw, ok := stream.Next(context.Background())
			if !ok {
				break
			}
			got = append(got, tw.ID)
		}

		require.NoError(t, stream.Err())
		assert.Equal(t, []string{"101", "102", "103"}, got)
		assert.Equal(t, []string{"min_faves:5000", "min_faves:5000"}, queries)
	})

	t.Run("limit bounds the stream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("count"))
			_ = json.NewEncoder(w).Encode(searchResponse{Tweets: page1[:1], NextCursor: "c1"})
		}))
		defer srv.Close()

		stream := NewClient(srv.URL, "", nil).Search(context.Background(), "q", 1)

		_, ok := stream.Next(context.Background())
		require.True(t, ok)
		_, ok = stream.Next(context.Background())
		assert.False(t, ok)
		assert.NoError(t, stream.Err())
	})

	t.Run("failed page stops the stream with an error", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				_ = json.NewEncoder(w).Encode(searchResponse{Tweets: page1, NextCursor: "c1"})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		stream := NewClient(srv.URL, "", nil).Search(context.Background(), "q", 50)

		var served int
		for {
			_, ok := stream.Next(context.Background())
			if !ok {
				break
			}
			served++
		}

		assert.Equal(t, 2, served)
		require.Error(t, stream.Err())
		assert.Contains(t, stream.Err().Error(), "status 500")

		// Поток не перезапускается: повторный Next после ошибки молчит.
		_, ok := stream.Next(context.Background())
		assert.False(t, ok)
	})
}
