package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Режимы отбора твитов по наличию вложений.
const (
	TweetTypesMediaOnly = "media_only"
	TweetTypesTextOnly  = "text_only"
	TweetTypesAll       = "all"
)

type (
	// Root объединяет все конфигурационные блоки.
	Root struct {
		Scrape Scrape `yaml:"scrape"`
	}

	// Scrape описывает параметры цикла мониторинга.
	Scrape struct {
		MaxAgeDays           int    `yaml:"max_age_days"`
		MinLikes             int    `yaml:"min_likes"`
		TweetTypes           string `yaml:"tweet_types"`
		CheckIntervalMinutes int    `yaml:"check_interval_minutes"`
		ContinuousMonitoring bool   `yaml:"continuous_monitoring"`
		SearchLimit          int    `yaml:"search_limit"`
		SentTweetsFile       string `yaml:"sent_tweets_file"`
	}

	// AccountsRoot описывает список аккаунтов для пула скрейпера.
	AccountsRoot struct {
		Accounts []Account `yaml:"accounts"`
	}

	// Account — учётные данные одного аккаунта. Cookies опциональны:
	// с ними мост пропускает полноценный вход.
	Account struct {
		Username      string `yaml:"username"`
		Password      string `yaml:"password"`
		Email         string `yaml:"email"`
		EmailPassword string `yaml:"email_password"`
		Cookies       string `yaml:"cookies,omitempty"`
	}
)

// LoadRoot читает основной файл конфигурации, подставляет значения по
// умолчанию и проверяет режим отбора твитов.
func LoadRoot(path string) (Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Root{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Root
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Root{}, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg.Scrape)
	if err := validate(cfg.Scrape); err != nil {
		return Root{}, err
	}
	return cfg, nil
}

// LoadAccounts читает конфиг со списком аккаунтов поискового моста.
func LoadAccounts(path string) (AccountsRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AccountsRoot{}, fmt.Errorf("read accounts config: %w", err)
	}

	var cfg AccountsRoot
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AccountsRoot{}, fmt.Errorf("unmarshal accounts config: %w", err)
	}
	if len(cfg.Accounts) == 0 {
		return AccountsRoot{}, fmt.Errorf("accounts config %s lists no accounts", path)
	}
	return cfg, nil
}

func applyDefaults(cfg *Scrape) {
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 1
	}
	if cfg.MinLikes <= 0 {
		cfg.MinLikes = 5000
	}
	if cfg.TweetTypes == "" {
		cfg.TweetTypes = TweetTypesMediaOnly
	}
	if cfg.CheckIntervalMinutes <= 0 {
		cfg.CheckIntervalMinutes = 10
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 50
	}
	if cfg.SentTweetsFile == "" {
		cfg.SentTweetsFile = "state/sent_tweets.txt"
	}
}

func validate(cfg Scrape) error {
	switch cfg.TweetTypes {
	case TweetTypesMediaOnly, TweetTypesTextOnly, TweetTypesAll:
		return nil
	default:
		return fmt.Errorf("unknown tweet_types %q (want %s, %s or %s)",
			cfg.TweetTypes, TweetTypesMediaOnly, TweetTypesTextOnly, TweetTypesAll)
	}
}
