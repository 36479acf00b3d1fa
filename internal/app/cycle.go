package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/maine/viral_tweets_bot/internal/config"
	"github.com/maine/viral_tweets_bot/internal/state"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// sendPause — пауза после каждой успешной отправки, чтобы не душить транспорт.
const sendPause = 10 * time.Second

// ErrNotConfigured возвращается, когда монитор запущен без обязательных зависимостей.
var ErrNotConfigured = errors.New("monitor dependencies not configured")

// Clock определяет источник времени (удобно подменять в тестах).
type Clock func() time.Time

// Sleep приостанавливает выполнение на заданный срок с учётом контекста.
type Sleep func(ctx context.Context, d time.Duration)

// TweetStream — ленивая конечная последовательность результатов поиска.
// Err возвращает ошибку, оборвавшую поток, либо nil.
type TweetStream interface {
	Next(ctx context.Context) (tweets.Tweet, bool)
	Err() error
}

// Searcher выполняет поисковый запрос к внешнему поставщику.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) TweetStream
}

// SearcherFunc адаптирует функцию к интерфейсу Searcher.
type SearcherFunc func(ctx context.Context, query string, limit int) TweetStream

// Search реализует Searcher.
func (f SearcherFunc) Search(ctx context.Context, query string, limit int) TweetStream {
	return f(ctx, query, limit)
}

// Deliverer отправляет подготовленное сообщение с вложениями в канал.
type Deliverer interface {
	Deliver(ctx context.Context, message string, media []tweets.MediaItem) error
}

// Formatter строит подпись сообщения для твита.
type Formatter interface {
	Caption(tw tweets.Tweet) string
}

// SeenAppender долговременно фиксирует идентификатор отправленного твита.
type SeenAppender interface {
	Append(id string) error
}

// EngineDeps перечисляет зависимости цикла.
type EngineDeps struct {
	Searcher  Searcher
	Deliverer Deliverer
	Formatter Formatter
	Store     SeenAppender
	Clock     Clock
	Sleep     Sleep
	Config    config.Scrape
}

// Engine выполняет один цикл мониторинга: поиск, дедупликация, отправка.
type Engine struct {
	searcher  Searcher
	deliverer Deliverer
	formatter Formatter
	store     SeenAppender
	clock     Clock
	sleep     Sleep
	cfg       config.Scrape
}

// NewEngine создаёт новый экземпляр цикла.
func NewEngine(deps EngineDeps) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = waitFor
	}

	return &Engine{
		searcher:  deps.Searcher,
		deliverer: deps.Deliverer,
		formatter: deps.Formatter,
		store:     deps.Store,
		clock:     clock,
		sleep:     sleep,
		cfg:       deps.Config,
	}
}

// BuildQuery собирает поисковый запрос из настроек фильтра: нижняя граница
// по дате, порог лайков и, в зависимости от режима, фильтр по вложениям.
func BuildQuery(cfg config.Scrape, now time.Time) string {
	since := now.AddDate(0, 0, -cfg.MaxAgeDays).Format("2006-01-02")
	query := fmt.Sprintf("since:%s min_faves:%d", since, cfg.MinLikes)

	switch cfg.TweetTypes {
	case config.TweetTypesMediaOnly:
		query += " filter:media"
	case config.TweetTypesTextOnly:
		query += " -filter:media"
	}
	return query
}

// RunCycle выполняет один проход: перебирает найденные твиты, пропускает уже
// отправленные, остальные форматирует и доставляет. Идентификатор попадает в
// seen только после подтверждённой доставки. Ошибка потока обрывает перебор,
// но уже накопленные результаты остаются в силе — цикл не возвращает ошибок.
func (e *Engine) RunCycle(ctx context.Context, seen state.SeenSet) tweets.CycleStats {
	var stats tweets.CycleStats

	query := BuildQuery(e.cfg, e.clock())
	log.Printf("Searching for viral tweets, query: %q", query)

	stream := e.searcher.Search(ctx, query, e.cfg.SearchLimit)
	for {
		tw, ok := stream.Next(ctx)
		if !ok {
			break
		}
		stats.Examined++

		// Твит без идентификатора невозможно дедуплицировать: запись в seen
		// была бы пустой строкой, которую Load отбрасывает, и твит уходил бы
		// заново после каждого рестарта.
		if tw.ID == "" {
			log.Println("Skipping tweet without ID")
			continue
		}

		if seen.Has(tw.ID) {
			stats.Duplicates++
			log.Printf("Skipping duplicate tweet ID: %s", tw.ID)
			continue
		}

		logTweet(tw)

		caption := e.formatter.Caption(tw)
		if err := e.deliverer.Deliver(ctx, caption, tw.Media); err != nil {
			log.Printf("Failed to send tweet %s: %v", tw.ID, err)
			continue
		}

		seen.Add(tw.ID)
		if err := e.store.Append(tw.ID); err != nil {
			// Потеря записи не фатальна: худший случай — повторная отправка
			// после рестарта.
			log.Printf("Failed to persist sent tweet %s: %v", tw.ID, err)
		}
		stats.Sent++

		log.Println("Waiting 10 seconds before next tweet...")
		e.sleep(ctx, sendPause)
	}

	if err := stream.Err(); err != nil {
		log.Printf("Search stream aborted: %v", err)
	}

	log.Printf("Cycle results: examined=%d sent=%d duplicates=%d",
		stats.Examined, stats.Sent, stats.Duplicates)
	return stats
}

func logTweet(tw tweets.Tweet) {
	log.Printf("New tweet %s by @%s (%s): likes=%d retweets=%d replies=%d media=%d",
		tw.ID, tw.User.Username, tw.User.DisplayName,
		tw.LikeCount, tw.RetweetCount, tw.ReplyCount, len(tw.Media))
	log.Printf("   Text: %s", truncateText(tw.RawContent, 100))
}

// truncateText обрезает текст до limit символов, не разрывая многобайтные
// руны, и добавляет многоточие при усечении.
func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// waitFor — Sleep по умолчанию: завершается досрочно при отмене контекста.
func waitFor(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
