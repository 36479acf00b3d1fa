package media

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// probeTimeout — предел ожидания одной HEAD-проверки.
const probeTimeout = 10 * time.Second

// Resolver подбирает доступный адрес вложения: кандидаты проверяются
// HEAD-запросом в порядке приоритета, побеждает первый ответивший успехом.
type Resolver struct {
	client *http.Client
}

// NewResolver создаёт резолвер. Если клиент не передан, используется
// клиент по умолчанию с таймаутом probeTimeout.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}
	return &Resolver{client: client}
}

// Resolve возвращает первый доступный URL вложения. Если кандидатов нет или
// все проверки провалились, возвращается ("", false) — ошибки наружу не
// поднимаются, сбой проверки означает лишь негодность кандидата.
func (r *Resolver) Resolve(ctx context.Context, item tweets.MediaItem) (string, bool) {
	for _, u := range item.CandidateURLs() {
		if r.probe(ctx, u) {
			return u, true
		}
	}
	return "", false
}

func (r *Resolver) probe(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		log.Printf("Media validation failed for %s: %v", rawURL, err)
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("Media validation failed for %s: %v", rawURL, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
