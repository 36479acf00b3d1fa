package telegram

import (
	"context"
	"log"
	"strings"

	"github.com/maine/viral_tweets_bot/internal/markup"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// MediaResolver подбирает доступный адрес для вложения.
type MediaResolver interface {
	Resolve(ctx context.Context, item tweets.MediaItem) (string, bool)
}

// Deliverer реализует app.Deliverer: отправляет сообщение как фото или видео,
// а при недоступности вложений откатывается к тексту со списком ссылок.
type Deliverer struct {
	client   TelegramClient
	resolver MediaResolver
	chatID   string
}

// NewDeliverer создаёт новый экземпляр доставщика.
func NewDeliverer(client TelegramClient, resolver MediaResolver, chatID string) *Deliverer {
	return &Deliverer{
		client:   client,
		resolver: resolver,
		chatID:   chatID,
	}
}

// Deliver отправляет сообщение в канал. Без вложений уходит обычный текст.
// Вложения перебираются в исходном порядке, доставляется не более одного:
// первый успешный вызов завершает операцию. Если ни одно вложение отправить
// не удалось, уходит текст с приложенным списком ссылок на вложения; итог
// этой отправки и есть итог всей операции.
func (d *Deliverer) Deliver(ctx context.Context, message string, media []tweets.MediaItem) error {
	if len(media) == 0 {
		return d.client.SendMessage(ctx, d.chatID, message)
	}

	for _, item := range media {
		url, ok := d.resolver.Resolve(ctx, item)
		if !ok {
			log.Printf("No accessible URL for %s attachment, skipping", item.Type)
			continue
		}

		// Тип приводится к нижнему регистру: мост не гарантирует регистр.
		switch strings.ToLower(item.Type) {
		case tweets.MediaTypePhoto, tweets.MediaTypeImage:
			if err := d.client.SendPhoto(ctx, d.chatID, url, message); err != nil {
				log.Printf("Failed to send photo %s: %v", url, err)
				continue
			}
			return nil
		case tweets.MediaTypeVideo, tweets.MediaTypeAnimated:
			if err := d.client.SendVideo(ctx, d.chatID, url, message); err != nil {
				log.Printf("Failed to send video %s: %v", url, err)
				continue
			}
			return nil
		default:
			log.Printf("Unsupported media type %q, skipping", item.Type)
		}
	}

	log.Println("Media delivery failed, sending as text with links...")
	return d.client.SendMessage(ctx, d.chatID, withMediaLinks(message, media))
}

// withMediaLinks дополняет сообщение блоком ссылок: по одной на каждое
// вложение, у которого есть хоть какой-то адрес. Подписью служит тип вложения.
func withMediaLinks(message string, media []tweets.MediaItem) string {
	links := make([]string, 0, len(media))
	for _, item := range media {
		urls := item.CandidateURLs()
		if len(urls) == 0 {
			continue
		}
		links = append(links, `  \- `+markup.Link(urls[0], item.Type))
	}
	if len(links) == 0 {
		return message
	}
	return message + "\n\n*Media*:\n" + strings.Join(links, "\n")
}
