package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadRoot(t *testing.T) {
	t.Run("explicit values are kept", func(t *testing.T) {
		path := writeTempFile(t, "bot.yaml", `
scrape:
  max_age_days: 3
  min_likes: 1000
  tweet_types: text_only
  check_interval_minutes: 5
  continuous_monitoring: true
  search_limit: 25
  sent_tweets_file: data/sent.txt
`)

		cfg, err := LoadRoot(path)
		if err != nil {
			t.Fatalf("LoadRoot() error = %v", err)
		}
		if cfg.Scrape.MaxAgeDays != 3 || cfg.Scrape.MinLikes != 1000 {
			t.Errorf("LoadRoot() scrape = %+v", cfg.Scrape)
		}
		if cfg.Scrape.TweetTypes != TweetTypesTextOnly {
			t.Errorf("TweetTypes = %q, want text_only", cfg.Scrape.TweetTypes)
		}
		if cfg.Scrape.SentTweetsFile != "data/sent.txt" {
			t.Errorf("SentTweetsFile = %q", cfg.Scrape.SentTweetsFile)
		}
	})

	t.Run("defaults fill missing values", func(t *testing.T) {
		path := writeTempFile(t, "bot.yaml", "scrape: {}\n")

		cfg, err := LoadRoot(path)
		if err != nil {
			t.Fatalf("LoadRoot() error = %v", err)
		}
		s := cfg.Scrape
		if s.MaxAgeDays != 1 || s.MinLikes != 5000 || s.CheckIntervalMinutes != 10 || s.SearchLimit != 50 {
			t.Errorf("defaults not applied: %+v", s)
		}
		if s.TweetTypes != TweetTypesMediaOnly {
			t.Errorf("TweetTypes default = %q, want media_only", s.TweetTypes)
		}
		if s.SentTweetsFile == "" {
			t.Error("SentTweetsFile default is empty")
		}
	})

	t.Run("unknown tweet_types is rejected", func(t *testing.T) {
		path := writeTempFile(t, "bot.yaml", "scrape:\n  tweet_types: everything\n")
		if _, err := LoadRoot(path); err == nil {
			t.Error("LoadRoot() error = nil, want validation error")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadRoot(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadRoot() error = nil, want read error")
		}
	})
}

func TestLoadAccounts(t *testing.T) {
	t.Run("parses account list", func(t *testing.T) {
		path := writeTempFile(t, "accounts.yaml", `
accounts:
  - username: user1
    password: pass1
    email: u1@example.com
    email_password: ep1
  - username: user2
    password: pass2
    email: u2@example.com
    email_password: ep2
    cookies: '{"ct0":"x"}'
`)

		cfg, err := LoadAccounts(path)
		if err != nil {
			t.Fatalf("LoadAccounts() error = %v", err)
		}
		if len(cfg.Accounts) != 2 {
			t.Fatalf("LoadAccounts() len = %d, want 2", len(cfg.Accounts))
		}
		if cfg.Accounts[1].Cookies == "" {
			t.Error("cookies not parsed")
		}
	})

	t.Run("empty list is rejected", func(t *testing.T) {
		path := writeTempFile(t, "accounts.yaml", "accounts: []\n")
		if _, err := LoadAccounts(path); err == nil {
			t.Error("LoadAccounts() error = nil, want error")
		}
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("SCRAPER_API_URL", "http://scraper:8080")
	t.Setenv("SCRAPER_API_KEY", "")

	env, err := LoadEnv(context.Background())
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if env.TelegramBotToken != "token" || env.TelegramChatID != "-100123" {
		t.Errorf("LoadEnv() = %+v", env)
	}
	if env.ScraperAPIURL != "http://scraper:8080" {
		t.Errorf("ScraperAPIURL = %q", env.ScraperAPIURL)
	}
}
