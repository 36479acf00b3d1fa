package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/maine/viral_tweets_bot/internal/app"
	"github.com/maine/viral_tweets_bot/internal/config"
	"github.com/maine/viral_tweets_bot/internal/format"
	"github.com/maine/viral_tweets_bot/internal/media"
	"github.com/maine/viral_tweets_bot/internal/state"
	"github.com/maine/viral_tweets_bot/internal/telegram"
	"github.com/maine/viral_tweets_bot/internal/twitter"
)

func main() {
	// Локальный .env удобен при разработке; в бою переменные приходят извне.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded:", err)
	}

	// Прерывание обрабатывается между циклами; сводка печатается монитором.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Загружаем конфигурацию из YAML
	rootCfg, err := config.LoadRoot("configs/bot.yaml")
	if err != nil {
		log.Fatalf("load bot config: %v", err)
	}

	accountsCfg, err := config.LoadAccounts("configs/accounts.yaml")
	if err != nil {
		log.Fatalf("load accounts config: %v", err)
	}

	// Загружаем переменные окружения (токены)
	envCfg, err := config.LoadEnv(ctx)
	if err != nil {
		log.Fatalf("load env config: %v", err)
	}

	// Инициализируем модули
	scraper := twitter.NewClient(envCfg.ScraperAPIURL, envCfg.ScraperAPIKey, accountsCfg.Accounts)
	tgClient := telegram.NewClient(envCfg.TelegramBotToken)
	resolver := media.NewResolver(nil)
	deliverer := telegram.NewDeliverer(tgClient, resolver, envCfg.TelegramChatID)
	store := state.NewStore(rootCfg.Scrape.SentTweetsFile)

	engine := app.NewEngine(app.EngineDeps{
		Searcher: app.SearcherFunc(func(ctx context.Context, query string, limit int) app.TweetStream {
			return scraper.Search(ctx, query, limit)
		}),
		Deliverer: deliverer,
		Formatter: format.NewFormatter(),
		Store:     store,
		Config:    rootCfg.Scrape,
	})

	monitor := app.NewMonitor(app.MonitorDeps{
		Engine: engine,
		Search: scraper,
		Store:  store,
		Config: rootCfg.Scrape,
	})

	if err := monitor.Run(ctx); err != nil {
		log.Fatalf("monitor failed: %v", err)
	}
	log.Println("monitor finished")
}
