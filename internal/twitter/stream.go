package twitter

import (
	"context"

	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// Stream последовательно выдаёт твиты из постраничных ответов моста.
// Поток ленивый, конечный и неперезапускаемый: страница запрашивается,
// только когда буфер исчерпан, а после первой ошибки выдача прекращается.
type Stream struct {
	client *Client
	query  string
	limit  int

	cursor string
	buf    []tweets.Tweet
	pos    int
	served int
	done   bool
	err    error
}

// Next возвращает следующий твит. false означает, что поток исчерпан либо
// оборвался ошибкой — её можно получить через Err.
func (s *Stream) Next(ctx context.Context) (tweets.Tweet, bool) {
	for {
		if s.err != nil || s.served >= s.limit {
			return tweets.Tweet{}, false
		}

		if s.pos < len(s.buf) {
			tw := s.buf[s.pos]
			s.pos++
			s.served++
			return tw, true
		}

		if s.done {
			return tweets.Tweet{}, false
		}

		count := s.limit - s.served
		if count > pageSize {
			count = pageSize
		}

		page, cursor, err := s.client.searchPage(ctx, s.query, count, s.cursor)
		if err != nil {
			s.err = err
			return tweets.Tweet{}, false
		}

		s.buf = page
		s.pos = 0
		s.cursor = cursor
		if cursor == "" || len(page) == 0 {
			s.done = true
		}
		if len(page) == 0 {
			return tweets.Tweet{}, false
		}
	}
}

// Err возвращает ошибку, оборвавшую поток, либо nil при нормальном завершении.
func (s *Stream) Err() error {
	return s.err
}
