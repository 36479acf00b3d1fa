package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Env содержит токены и адреса внешних сервисов. Заполняется один раз при
// старте и дальше передаётся только по значению.
type Env struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID,required"`
	ScraperAPIURL    string `env:"SCRAPER_API_URL,default=http://127.0.0.1:8080"`
	ScraperAPIKey    string `env:"SCRAPER_API_KEY"`
}

// LoadEnv читает переменные окружения. Возвращает ошибку, если обязательные
// переменные отсутствуют или пустые.
func LoadEnv(ctx context.Context) (Env, error) {
	var env Env
	if err := envconfig.Process(ctx, &env); err != nil {
		return Env{}, fmt.Errorf("parse env vars: %w", err)
	}
	return env, nil
}
