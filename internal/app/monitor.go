package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maine/viral_tweets_bot/internal/config"
	"github.com/maine/viral_tweets_bot/internal/state"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// Initializer подготавливает внешнего поставщика поиска: регистрацию пула
// аккаунтов и вход. Ошибка здесь прерывает весь запуск.
type Initializer interface {
	Init(ctx context.Context) error
}

// CycleRunner выполняет один цикл мониторинга.
type CycleRunner interface {
	RunCycle(ctx context.Context, seen state.SeenSet) tweets.CycleStats
}

// SeenStore — часть хранилища, нужная монитору на старте.
type SeenStore interface {
	Load() (state.SeenSet, error)
	Compact(set state.SeenSet) (state.SeenSet, error)
}

// MonitorDeps перечисляет зависимости монитора.
type MonitorDeps struct {
	Engine CycleRunner
	Search Initializer
	Store  SeenStore
	Clock  Clock
	Sleep  Sleep
	Config config.Scrape
}

// Monitor повторяет цикл мониторинга с заданным интервалом (или выполняет
// его один раз) и накапливает итоговые счётчики процесса.
type Monitor struct {
	engine CycleRunner
	search Initializer
	store  SeenStore
	clock  Clock
	sleep  Sleep
	cfg    config.Scrape
}

// NewMonitor создаёт новый экземпляр монитора.
func NewMonitor(deps MonitorDeps) *Monitor {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = waitFor
	}

	return &Monitor{
		engine: deps.Engine,
		search: deps.Search,
		store:  deps.Store,
		clock:  clock,
		sleep:  sleep,
		cfg:    deps.Config,
	}
}

// Run инициализирует коллаборатора поиска, поднимает и сжимает множество
// отправленных твитов и крутит циклы до отмены контекста (либо ровно один
// цикл в разовом режиме). Отмена проверяется между циклами; по завершении
// печатается сводная статистика. Ошибку возвращает только инициализация.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.validateDeps(); err != nil {
		return err
	}

	log.Println("--- Initializing scraper account pool ---")
	if err := m.search.Init(ctx); err != nil {
		return fmt.Errorf("initialize search provider: %w", err)
	}

	seen, err := m.store.Load()
	if err != nil {
		log.Printf("Warning: failed to load sent tweets, starting fresh: %v", err)
		seen = state.SeenSet{}
	}
	log.Printf("Loaded %d previously sent tweet IDs", seen.Len())

	if compacted, err := m.store.Compact(seen); err != nil {
		log.Printf("Warning: failed to compact sent tweets: %v", err)
	} else {
		if compacted.Len() != seen.Len() {
			log.Printf("Compacted sent tweets, kept %d recent IDs", compacted.Len())
		}
		seen = compacted
	}

	interval := time.Duration(m.cfg.CheckIntervalMinutes) * time.Minute
	if m.cfg.ContinuousMonitoring {
		log.Printf("Starting continuous monitoring (checking every %d minutes), press Ctrl+C to stop",
			m.cfg.CheckIntervalMinutes)
	}

	cycles := 0
	var totals tweets.CycleStats
	for {
		cycles++
		log.Printf("=== Monitoring cycle #%d — %s ===", cycles, m.clock().Format(time.DateTime))

		stats := m.engine.RunCycle(ctx, seen)
		totals.Add(stats)

		log.Printf("Cycle #%d summary: sent=%d total_sent=%d tracked=%d",
			cycles, stats.Sent, totals.Sent, seen.Len())

		if !m.cfg.ContinuousMonitoring {
			break
		}

		log.Printf("Next check at %s", m.clock().Add(interval).Format(time.DateTime))
		m.sleep(ctx, interval)
		if ctx.Err() != nil {
			log.Println("Monitoring stopped by user")
			break
		}
	}

	log.Printf("Final statistics: cycles=%d tweets_sent=%d tracked=%d",
		cycles, totals.Sent, seen.Len())
	return nil
}

func (m *Monitor) validateDeps() error {
	switch {
	case m.engine == nil,
		m.search == nil,
		m.store == nil,
		m.clock == nil,
		m.sleep == nil:
		return ErrNotConfigured
	default:
		return nil
	}
}
