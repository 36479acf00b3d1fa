package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maine/viral_tweets_bot/internal/markup"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

// noContentMarker выводится вместо текста, когда твит состоит из одних вложений.
const noContentMarker = "*No text content*"

// Formatter строит подпись сообщения для твита в MarkdownV2.
type Formatter struct{}

// NewFormatter создаёт новый экземпляр форматтера.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Caption форматирует твит в сообщение: заголовок, блок метаданных автора и
// счётчиков, текст твита и постоянная ссылка. Все значения экранируются,
// адреса внутри ссылок остаются как есть.
func (f *Formatter) Caption(tw tweets.Tweet) string {
	var sb strings.Builder

	sb.WriteString("*VIRAL TWEET ALERT*\n\n")
	sb.WriteString(fmt.Sprintf("*Author*: @%s \\(%s\\)\n",
		markup.Escape(tw.User.Username), markup.Escape(tw.User.DisplayName)))
	sb.WriteString(fmt.Sprintf("*Tweet ID*: `%s`\n", markup.Escape(tw.ID)))
	sb.WriteString(fmt.Sprintf("*Likes*: `%s`\n", markup.Escape(strconv.Itoa(tw.LikeCount))))
	sb.WriteString(fmt.Sprintf("*Retweets*: `%s`\n", markup.Escape(strconv.Itoa(tw.RetweetCount))))
	sb.WriteString(fmt.Sprintf("*Replies*: `%s`\n", markup.Escape(strconv.Itoa(tw.ReplyCount))))
	sb.WriteString(fmt.Sprintf("*Date*: `%s`\n\n", markup.Escape(tw.Date.Format(time.DateTime))))
	sb.WriteString("*Content*:\n")
	sb.WriteString(contentBlock(tw.RawContent))
	sb.WriteString("\n\n")
	sb.WriteString(markup.Link(tw.PermalinkURL(), "View on X"))

	return sb.String()
}

// contentBlock готовит текст твита: голый URL превращается в ссылку
// "Tweet Link", пустой текст заменяется маркером, остальное экранируется.
func contentBlock(raw string) string {
	if raw == "" {
		return noContentMarker
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return markup.Link(trimmed, "Tweet Link")
	}
	return markup.Escape(raw)
}
